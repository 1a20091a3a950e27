// Package server exposes the workpaper extraction service over HTTP:
// upload a template workbook, get flattened adjustment rows back, plus
// the follow-up review prompt flow.
package server

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/taxprep-dev/taxprep/internal/config"
)

// maxUploadBytes bounds the multipart body of POST /upload.
const maxUploadBytes = 32 << 20

// Server is the HTTP extraction service.
type Server struct {
	http   *http.Server
	logger *zap.Logger
}

// New builds a Server listening on cfg.Address.
func New(cfg config.ServerConfig, logger *zap.Logger) *Server {
	s := &Server{logger: logger}

	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/review-prompts", s.handleReviewPrompts).Methods(http.MethodGet)
	r.HandleFunc("/apply-adjustments", s.handleApplyAdjustments).Methods(http.MethodPost)

	s.http = &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or a listener
// error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("extraction service listening", zap.String("address", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}
