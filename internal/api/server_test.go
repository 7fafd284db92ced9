// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MohittShukla/QA-agent/internal/knowledge"
	"github.com/MohittShukla/QA-agent/internal/llm"
)

type mockProvider struct {
	response     string
	err          error
	calls        int
	lastMessages []llm.Message
}

func (m *mockProvider) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	m.calls++
	m.lastMessages = append([]llm.Message(nil), messages...)
	if m.err != nil {
		return "", m.err
	}
	if m.response == "" {
		return "mock-response", nil
	}
	return m.response, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func newTestServer(t *testing.T, provider *mockProvider) (*Server, *knowledge.Store) {
	t.Helper()
	store := knowledge.NewStore()
	srv := NewServer(store, provider)
	return srv, store
}

func buildUploadBody(t *testing.T, docs map[string]string, htmlName, html string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range docs {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write file contents: %v", err)
		}
	}
	if htmlName != "" {
		part, err := writer.CreateFormFile("html_file", htmlName)
		if err != nil {
			t.Fatalf("create html form file: %v", err)
		}
		if _, err := part.Write([]byte(html)); err != nil {
			t.Fatalf("write html contents: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func doUpload(t *testing.T, srv *Server, docs map[string]string, htmlName, html string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := buildUploadBody(t, docs, htmlName, html)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func TestUploadBuildsKnowledgeBase(t *testing.T) {
	srv, store := newTestServer(t, &mockProvider{})

	rr := doUpload(t, srv,
		map[string]string{"requirements.txt": "Users must log in with email and password."},
		"login.html", "<html><body><input id=\"email\"/></body></html>")

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Status  string `json:"status"`
		Details struct {
			DocumentsProcessed int      `json:"documents_processed"`
			DocumentNames      []string `json:"document_names"`
			HTMLFile           string   `json:"html_file"`
			TotalDocChars      int      `json:"total_doc_chars"`
			TotalHTMLChars     int      `json:"total_html_chars"`
		} `json:"details"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "Knowledge Base Built" {
		t.Fatalf("unexpected status field: %q", resp.Status)
	}
	if resp.Details.DocumentsProcessed != 1 || resp.Details.HTMLFile != "login.html" {
		t.Fatalf("unexpected details: %+v", resp.Details)
	}
	if resp.Details.TotalDocChars == 0 || resp.Details.TotalHTMLChars == 0 {
		t.Fatalf("expected non-zero char counts: %+v", resp.Details)
	}

	docs, html := store.Snapshot()
	if !strings.Contains(docs, "--- Document: requirements.txt ---") {
		t.Fatalf("docs missing wrapper header: %q", docs)
	}
	if !strings.Contains(html, "input id=\"email\"") {
		t.Fatalf("html not stored: %q", html)
	}
	status := store.Status()
	if !status.DocsLoaded || !status.HTMLLoaded {
		t.Fatalf("expected loaded knowledge base, got %+v", status)
	}
}

func TestUploadUnsupportedExtensionResetsKnowledgeBase(t *testing.T) {
	srv, store := newTestServer(t, &mockProvider{})

	if rr := doUpload(t, srv, map[string]string{"spec.txt": "original requirements"}, "page.html", "<html/>"); rr.Code != http.StatusOK {
		t.Fatalf("seed upload failed: %d", rr.Code)
	}

	rr := doUpload(t, srv, map[string]string{"notes.docx": "binary"}, "page.html", "<html/>")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if !strings.Contains(errResp.Error, "notes.docx") {
		t.Fatalf("error should name the offending file: %q", errResp.Error)
	}

	status := store.Status()
	if status.DocsLoaded || status.HTMLLoaded {
		t.Fatalf("failed upload should leave the knowledge base empty, got %+v", status)
	}
}

func TestUploadRequiresHTMLFile(t *testing.T) {
	srv, _ := newTestServer(t, &mockProvider{})
	rr := doUpload(t, srv, map[string]string{"spec.txt": "requirements"}, "", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGenerateTestCasesEmptyKnowledgeBase(t *testing.T) {
	provider := &mockProvider{}
	srv, _ := newTestServer(t, provider)

	req := httptest.NewRequest(http.MethodPost, "/generate-test-cases", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if provider.calls != 0 {
		t.Fatalf("empty knowledge base must not reach the provider, got %d calls", provider.calls)
	}
}

func TestGenerateTestCasesParsesFencedJSON(t *testing.T) {
	provider := &mockProvider{response: "```json\n[" +
		`{"id": 1, "description": "valid login", "steps": ["open page", "enter email", "submit"], "expected_result": "dashboard shown"},` +
		`{"id": 2, "description": "empty email", "steps": ["submit"], "expected_result": "validation error"},` +
		`{"id": 3, "description": "bad password", "steps": ["enter email", "enter wrong password"], "expected_result": "error message"},` +
		`{"id": 4, "description": "password reset", "steps": ["click forgot"], "expected_result": "reset email sent"},` +
		`{"id": 5, "description": "locked account", "steps": ["fail 3 times"], "expected_result": "account locked"}` +
		"]\n```"}
	srv, _ := newTestServer(t, provider)
	if rr := doUpload(t, srv, map[string]string{"spec.txt": "login rules"}, "page.html", "<form id=\"login\"/>"); rr.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/generate-test-cases", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Status    string `json:"status"`
		TestCases []struct {
			ID             int      `json:"id"`
			Description    string   `json:"description"`
			Steps          []string `json:"steps"`
			ExpectedResult string   `json:"expected_result"`
		} `json:"test_cases"`
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" || resp.Count != 5 || len(resp.TestCases) != 5 {
		t.Fatalf("unexpected response: status=%q count=%d cases=%d", resp.Status, resp.Count, len(resp.TestCases))
	}
	if resp.TestCases[0].ID != 1 || resp.TestCases[0].ExpectedResult != "dashboard shown" {
		t.Fatalf("unexpected first case: %+v", resp.TestCases[0])
	}
	if len(resp.TestCases[0].Steps) != 3 {
		t.Fatalf("unexpected steps: %v", resp.TestCases[0].Steps)
	}

	if provider.calls != 1 {
		t.Fatalf("expected one provider call, got %d", provider.calls)
	}
	prompt := provider.lastMessages[len(provider.lastMessages)-1].Content
	if !strings.Contains(prompt, "login rules") || !strings.Contains(prompt, "form id=\"login\"") {
		t.Fatalf("prompt missing knowledge base content")
	}
}

func TestGenerateTestCasesReturnsRawTextWhenNotJSON(t *testing.T) {
	provider := &mockProvider{response: "Here is my analysis of the login page instead of JSON."}
	srv, _ := newTestServer(t, provider)
	if rr := doUpload(t, srv, map[string]string{"spec.txt": "rules"}, "page.html", "<html/>"); rr.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/generate-test-cases", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("raw fallback should still succeed, got %d", rr.Code)
	}
	var resp struct {
		Status    string `json:"status"`
		TestCases string `json:"test_cases"`
		Note      string `json:"note"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("unexpected status: %q", resp.Status)
	}
	if !strings.Contains(resp.TestCases, "analysis of the login page") {
		t.Fatalf("raw text not preserved: %q", resp.TestCases)
	}
	if resp.Note == "" {
		t.Fatalf("expected explanatory note")
	}
}

func TestGenerateTestCasesGatewayFailure(t *testing.T) {
	provider := &mockProvider{err: errors.New("quota exceeded")}
	srv, _ := newTestServer(t, provider)
	if rr := doUpload(t, srv, map[string]string{"spec.txt": "rules"}, "page.html", "<html/>"); rr.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/generate-test-cases", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on gateway failure, got %d", rr.Code)
	}
}

func TestGenerateScriptUsesHTMLOverride(t *testing.T) {
	provider := &mockProvider{response: "```python\nfrom selenium import webdriver\n```"}
	srv, store := newTestServer(t, provider)
	store.SetDocs("docs")
	store.SetHTML("<html><body>stored page</body></html>")

	payload := map[string]interface{}{
		"test_case": map[string]interface{}{
			"id":              3,
			"description":     "login works",
			"steps":           []string{"open", "submit"},
			"expected_result": "dashboard",
		},
		"html_content": "<html><body>override page</body></html>",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/generate-script", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Status     string      `json:"status"`
		Script     string      `json:"script"`
		TestCaseID interface{} `json:"test_case_id"`
		Language   string      `json:"language"`
		Framework  string      `json:"framework"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "success" || resp.Language != "python" || resp.Framework != "selenium" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Script != "from selenium import webdriver" {
		t.Fatalf("fence not stripped: %q", resp.Script)
	}
	if id, ok := resp.TestCaseID.(float64); !ok || id != 3 {
		t.Fatalf("unexpected test_case_id: %v", resp.TestCaseID)
	}

	prompt := provider.lastMessages[len(provider.lastMessages)-1].Content
	if !strings.Contains(prompt, "override page") {
		t.Fatalf("prompt should use the override HTML")
	}
	if strings.Contains(prompt, "stored page") {
		t.Fatalf("prompt should not fall back to stored HTML when overridden")
	}
	if _, html := store.Snapshot(); !strings.Contains(html, "stored page") {
		t.Fatalf("override must not mutate the knowledge base")
	}
}

func TestGenerateScriptFallsBackToStoredHTML(t *testing.T) {
	provider := &mockProvider{response: "print('ok')"}
	srv, store := newTestServer(t, provider)
	store.SetHTML("<html><body>stored page</body></html>")

	body := []byte(`{"test_case": {"description": "no id"}}`)
	req := httptest.NewRequest(http.MethodPost, "/generate-script", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		TestCaseID interface{} `json:"test_case_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TestCaseID != "unknown" {
		t.Fatalf("missing id should report unknown, got %v", resp.TestCaseID)
	}
	prompt := provider.lastMessages[len(provider.lastMessages)-1].Content
	if !strings.Contains(prompt, "stored page") {
		t.Fatalf("prompt should include stored HTML")
	}
}

func TestGenerateScriptWithoutHTML(t *testing.T) {
	provider := &mockProvider{}
	srv, _ := newTestServer(t, provider)

	body := []byte(`{"test_case": {"id": 1}}`)
	req := httptest.NewRequest(http.MethodPost, "/generate-script", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without HTML, got %d", rr.Code)
	}
	if provider.calls != 0 {
		t.Fatalf("missing HTML must not reach the provider, got %d calls", provider.calls)
	}
}

func TestKnowledgeBaseStatusAndClear(t *testing.T) {
	srv, _ := newTestServer(t, &mockProvider{})
	if rr := doUpload(t, srv, map[string]string{"spec.txt": "some requirements text"}, "page.html", "<html/>"); rr.Code != http.StatusOK {
		t.Fatalf("upload failed: %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/knowledge-base/status", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var status struct {
		DocsLoaded  bool   `json:"docs_loaded"`
		HTMLLoaded  bool   `json:"html_loaded"`
		DocsSize    int    `json:"docs_size"`
		DocsPreview string `json:"docs_preview"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.DocsLoaded || !status.HTMLLoaded || status.DocsSize == 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if !strings.HasSuffix(status.DocsPreview, "...") {
		t.Fatalf("preview should be truncated with ellipsis: %q", status.DocsPreview)
	}

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodDelete, "/knowledge-base/clear", nil)
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("clear attempt %d failed: %d", i+1, rr.Code)
		}
		var resp struct {
			Status     string `json:"status"`
			DocsLoaded bool   `json:"docs_loaded"`
			HTMLLoaded bool   `json:"html_loaded"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode clear response: %v", err)
		}
		if resp.Status != "Knowledge base cleared" || resp.DocsLoaded || resp.HTMLLoaded {
			t.Fatalf("unexpected clear response: %+v", resp)
		}
	}
}

func TestRootReportsKnowledgeBaseState(t *testing.T) {
	srv, store := newTestServer(t, &mockProvider{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	var resp struct {
		Message             string `json:"message"`
		Version             string `json:"version"`
		Status              string `json:"status"`
		KnowledgeBaseStatus struct {
			DocsLoaded bool `json:"docs_loaded"`
			HTMLLoaded bool `json:"html_loaded"`
		} `json:"knowledge_base_status"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode root response: %v", err)
	}
	if resp.Message != "QA Agent Backend API is running" || resp.Status != "operational" || resp.Version != "1.0.0" {
		t.Fatalf("unexpected root response: %+v", resp)
	}
	if resp.KnowledgeBaseStatus.DocsLoaded {
		t.Fatalf("fresh store should report docs_loaded=false")
	}

	store.SetDocs("docs")
	store.SetHTML("html")
	rr = httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode root response: %v", err)
	}
	if !resp.KnowledgeBaseStatus.DocsLoaded || !resp.KnowledgeBaseStatus.HTMLLoaded {
		t.Fatalf("populated store should report loaded flags")
	}
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, &mockProvider{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rr.Code, rr.Body.String())
	}
}
