package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ekgstack/ekg-engine/internal/services"
)

// Server hosts the HTTP API for analysis and electrophysiology state queries.
type Server struct {
	logger  *slog.Logger
	service *services.AnalysisService
	httpSrv *http.Server
}

// NewServer wires the router and handlers around the analysis service.
func NewServer(logger *slog.Logger, service *services.AnalysisService, address string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{logger: logger, service: service}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1/ekg", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/state", s.handleState)
		r.Get("/analyses", s.handleListAnalyses)
		r.Get("/analyses/{id}", s.handleGetAnalysis)
		r.Get("/stats", s.handleStats)
	})

	s.httpSrv = &http.Server{
		Addr:         address,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start begins serving; it blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("address", s.httpSrv.Addr))
	err := s.httpSrv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
