// File path: internal/extract/extract.go
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/MohittShukla/QA-agent/internal/common"
)

// Kind identifies a supported document format, derived from the filename
// extension.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindText Kind = "txt"
)

// UnsupportedTypeError reports a filename whose extension is outside the
// supported set. Callers surface it as a client error.
type UnsupportedTypeError struct {
	Filename string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s. Only PDF and TXT files are supported", e.Filename)
}

// Error reports a failed extraction of a supported document.
type Error struct {
	Filename string
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Filename, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Detect resolves the extraction kind for a filename.
func Detect(filename string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF, nil
	case ".txt":
		return KindText, nil
	default:
		return "", &UnsupportedTypeError{Filename: filename}
	}
}

// Extract converts uploaded document bytes into UTF-8 text. Single attempt,
// fail-fast: a malformed document aborts with an *Error carrying the cause.
func Extract(filename string, data []byte) (string, error) {
	logger := common.Logger()
	kind, err := Detect(filename)
	if err != nil {
		logger.Warn("extract: unsupported file type", "filename", filename)
		return "", err
	}
	var text string
	switch kind {
	case KindPDF:
		text, err = PDF(data)
	case KindText:
		text, err = Text(data)
	}
	if err != nil {
		logger.Error("extract: extraction failed", "filename", filename, "kind", kind, "error", err)
		return "", &Error{Filename: filename, Cause: err}
	}
	logger.Debug("extract: extraction succeeded", "filename", filename, "kind", kind, "chars", utf8.RuneCountInString(text))
	return text, nil
}

// PDF concatenates page text in page order with a line break after every
// page.
func PDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}
	var builder strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// Text decodes bytes as UTF-8, failing on invalid byte sequences.
func Text(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid UTF-8 byte sequence")
	}
	return string(data), nil
}
