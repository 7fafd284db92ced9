// File path: internal/api/types.go
package api

import "github.com/MohittShukla/QA-agent/internal/normalize"

type rootResponse struct {
	Message             string             `json:"message"`
	Version             string             `json:"version"`
	Status              string             `json:"status"`
	KnowledgeBaseStatus rootKnowledgeState `json:"knowledge_base_status"`
}

type rootKnowledgeState struct {
	DocsLoaded bool `json:"docs_loaded"`
	HTMLLoaded bool `json:"html_loaded"`
}

type uploadResponse struct {
	Status  string        `json:"status"`
	Details uploadDetails `json:"details"`
}

type uploadDetails struct {
	DocumentsProcessed int      `json:"documents_processed"`
	DocumentNames      []string `json:"document_names"`
	HTMLFile           string   `json:"html_file"`
	TotalDocChars      int      `json:"total_doc_chars"`
	TotalHTMLChars     int      `json:"total_html_chars"`
}

type testCasesResponse struct {
	Status    string               `json:"status"`
	TestCases []normalize.TestCase `json:"test_cases"`
	Count     int                  `json:"count"`
}

// rawTestCasesResponse carries the model output verbatim when it could not
// be decoded as a JSON array.
type rawTestCasesResponse struct {
	Status    string `json:"status"`
	TestCases string `json:"test_cases"`
	Note      string `json:"note"`
}

type scriptRequest struct {
	TestCase    map[string]interface{} `json:"test_case"`
	HTMLContent string                 `json:"html_content"`
}

type scriptResponse struct {
	Status     string      `json:"status"`
	Script     string      `json:"script"`
	TestCaseID interface{} `json:"test_case_id"`
	Language   string      `json:"language"`
	Framework  string      `json:"framework"`
}

type clearResponse struct {
	Status     string `json:"status"`
	DocsLoaded bool   `json:"docs_loaded"`
	HTMLLoaded bool   `json:"html_loaded"`
}
