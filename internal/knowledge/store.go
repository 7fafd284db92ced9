// File path: internal/knowledge/store.go
package knowledge

import (
	"strings"
	"sync"
	"unicode/utf8"
)

const previewRunes = 200

// Store holds the extracted requirement documentation and the target HTML
// for the running process. Contents are fully overwritten on each upload and
// never persisted; a restart loses them.
//
// All accessors are guarded so readers never observe a torn value, but an
// upload is still reset-then-write: a request racing an upload may see the
// store empty or partially populated.
type Store struct {
	mu   sync.RWMutex
	docs string
	html string
}

// Status is the read-only view served by the knowledge-base status endpoint.
type Status struct {
	DocsLoaded  bool   `json:"docs_loaded"`
	HTMLLoaded  bool   `json:"html_loaded"`
	DocsSize    int    `json:"docs_size"`
	HTMLSize    int    `json:"html_size"`
	DocsPreview string `json:"docs_preview"`
	HTMLPreview string `json:"html_preview"`
}

func NewStore() *Store {
	return &Store{}
}

// Reset empties both fields. Idempotent.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = ""
	s.html = ""
}

func (s *Store) SetDocs(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = text
}

func (s *Store) SetHTML(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = text
}

// Snapshot returns both fields under a single read lock.
func (s *Store) Snapshot() (docs, html string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs, s.html
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		DocsLoaded:  s.docs != "",
		HTMLLoaded:  s.html != "",
		DocsSize:    utf8.RuneCountInString(s.docs),
		HTMLSize:    utf8.RuneCountInString(s.html),
		DocsPreview: preview(s.docs),
		HTMLPreview: preview(s.html),
	}
}

func preview(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	if len(runes) > previewRunes {
		return strings.TrimSpace(string(runes[:previewRunes])) + "..."
	}
	return text + "..."
}
