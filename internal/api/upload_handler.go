// File path: internal/api/upload_handler.go
package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/MohittShukla/QA-agent/internal/common"
	"github.com/MohittShukla/QA-agent/internal/extract"
)

const maxUploadMemory = 64 << 20

// handleUpload rebuilds the knowledge base from the uploaded documentation
// files and HTML file. The store is reset before extraction starts, so a
// failed upload leaves it empty rather than keeping stale content.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse multipart form: %w", err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("at least one documentation file is required"))
		return
	}
	htmlFiles := r.MultipartForm.File["html_file"]
	if len(htmlFiles) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("html_file is required"))
		return
	}

	s.store.Reset()

	docsText := make([]string, 0, len(files))
	names := make([]string, 0, len(files))
	for _, header := range files {
		data, err := readMultipartFile(header)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Errorf("read %s: %w", header.Filename, err))
			return
		}
		text, err := extract.Extract(header.Filename, data)
		if err != nil {
			var unsupported *extract.UnsupportedTypeError
			if errors.As(err, &unsupported) {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Errorf("error processing files: %w", err))
			return
		}
		docsText = append(docsText, fmt.Sprintf("--- Document: %s ---\n%s\n", header.Filename, text))
		names = append(names, header.Filename)
	}

	htmlHeader := htmlFiles[0]
	htmlData, err := readMultipartFile(htmlHeader)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("read %s: %w", htmlHeader.Filename, err))
		return
	}
	htmlText, err := extract.Text(htmlData)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("error processing files: read %s: %w", htmlHeader.Filename, err))
		return
	}

	docs := strings.Join(docsText, "\n")
	s.store.SetDocs(docs)
	s.store.SetHTML(htmlText)

	logger.Info("api: knowledge base built",
		"documents", len(names),
		"html_file", htmlHeader.Filename,
		"doc_chars", utf8.RuneCountInString(docs),
		"html_chars", utf8.RuneCountInString(htmlText))
	writeJSON(w, http.StatusOK, uploadResponse{
		Status: "Knowledge Base Built",
		Details: uploadDetails{
			DocumentsProcessed: len(names),
			DocumentNames:      names,
			HTMLFile:           htmlHeader.Filename,
			TotalDocChars:      utf8.RuneCountInString(docs),
			TotalHTMLChars:     utf8.RuneCountInString(htmlText),
		},
	})
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
