// File path: internal/api/knowledge_handler.go
package api

import (
	"net/http"

	"github.com/MohittShukla/QA-agent/internal/common"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	status := s.store.Status()
	writeJSON(w, http.StatusOK, rootResponse{
		Message: "QA Agent Backend API is running",
		Version: apiVersion,
		Status:  "operational",
		KnowledgeBaseStatus: rootKnowledgeState{
			DocsLoaded: status.DocsLoaded,
			HTMLLoaded: status.HTMLLoaded,
		},
	})
}

func (s *Server) handleKnowledgeBaseStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Status())
}

func (s *Server) handleKnowledgeBaseClear(w http.ResponseWriter, r *http.Request) {
	s.store.Reset()
	common.Logger().Info("api: knowledge base cleared")
	writeJSON(w, http.StatusOK, clearResponse{
		Status:     "Knowledge base cleared",
		DocsLoaded: false,
		HTMLLoaded: false,
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := append([]common.LogEntry(nil), common.LogEntries()...)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}
