package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/codeWithUtkarsh/GPT5VideoSubtitleGeneration/internal/jobs"
)

type Server struct {
	manager *jobs.Manager
	store   *jobs.Store

	uploadDir      string
	maxUploadBytes int64

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

func WithUploadDir(dir string) Option {
	return func(s *Server) {
		s.uploadDir = dir
	}
}

func WithMaxUploadBytes(limit int64) Option {
	return func(s *Server) {
		s.maxUploadBytes = limit
	}
}

func NewServer(manager *jobs.Manager, store *jobs.Store, opts ...Option) *Server {
	s := &Server{
		manager:        manager,
		store:          store,
		uploadDir:      "data_uploads",
		maxUploadBytes: 500 << 20,
		mux:            http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/jobs", s.handleJobs)
	s.mux.HandleFunc("/api/jobs/stream", s.handleJobStream)
	s.mux.HandleFunc("/api/jobs/", s.handleJobByID)
	s.mux.HandleFunc("/api/languages", s.handleLanguages)
	s.mux.HandleFunc("/api/health", s.handleHealth)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
	})
}
