// Package server exposes report generation over HTTP.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/viant/nfereport/service"
)

const (
	// DefaultMaxUploadBytes bounds the multipart body of one request.
	DefaultMaxUploadBytes = 64 << 20
	// HeaderFailedDocuments carries the number of documents that failed to parse.
	HeaderFailedDocuments = "X-Documentos-Com-Erro"

	formFiles   = "xmls"
	formPerItem = "modo_linha_individual"
	formMode    = "modo"
)

// Option configures a Server.
type Option func(*Server)

// WithMaxUploadBytes sets the request body limit.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithCORS sets the allowed origins and credentials policy.
func WithCORS(origins []string, allowCredentials bool) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
		s.allowCredentials = allowCredentials
	}
}

// WithLogf sets the request logger.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Server) {
		if logf != nil {
			s.logf = logf
		}
	}
}

// Server routes HTTP requests to a service.Service.
type Server struct {
	service          *service.Service
	maxUploadBytes   int64
	origins          []string
	allowCredentials bool
	logf             func(format string, args ...any)
}

// New creates a Server. CORS allows every origin with credentials unless
// WithCORS says otherwise.
func New(svc *service.Service, opts ...Option) *Server {
	s := &Server{
		service:          svc,
		maxUploadBytes:   DefaultMaxUploadBytes,
		origins:          []string{"*"},
		allowCredentials: true,
		logf:             func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{HeaderFailedDocuments, "Content-Disposition", "ETag"},
		AllowCredentials: s.allowCredentials,
		MaxAge:           600,
	}))
	s.RegisterHTTP(r)
	return r
}

// RegisterHTTP registers the report endpoints on r.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Get("/health", s.handleHealth)
	r.Post("/gerar-relatorio", s.handleReport)
	r.Post("/jobs", s.handleSubmit)
	r.Get("/jobs/{id}", s.handleStatus)
	r.Get("/jobs/{id}/relatorio", s.handleArtifact)
}
