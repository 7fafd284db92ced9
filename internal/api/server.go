// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/MohittShukla/QA-agent/internal/common"
	"github.com/MohittShukla/QA-agent/internal/knowledge"
	"github.com/MohittShukla/QA-agent/internal/llm"
)

const apiVersion = "1.0.0"

type Server struct {
	router   chi.Router
	store    *knowledge.Store
	provider llm.Provider
}

func NewServer(store *knowledge.Store, provider llm.Provider) *Server {
	logger := common.Logger()
	providerName := "unknown"
	if provider != nil {
		providerName = provider.Name()
	}
	logger.Info("api: building server", "provider", providerName)
	srv := &Server{
		router:   chi.NewRouter(),
		store:    store,
		provider: provider,
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")

	// Browser-based test consoles call the API from arbitrary origins.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/", s.handleRoot)
	s.router.Post("/upload", s.handleUpload)
	s.router.Post("/generate-test-cases", s.handleGenerateTestCases)
	s.router.Post("/generate-script", s.handleGenerateScript)
	s.router.Get("/knowledge-base/status", s.handleKnowledgeBaseStatus)
	s.router.Delete("/knowledge-base/clear", s.handleKnowledgeBaseClear)
	s.router.Get("/logs", s.handleLogs)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
