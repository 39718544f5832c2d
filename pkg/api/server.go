// Package api serves the contents of a riegeli record file over HTTP.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/douzebis/riegeli/pkg/records"
)

// Server serves records from a single record file. The file is indexed once
// at startup; it must not change while being served.
type Server struct {
	path    string
	index   *records.Index
	metrics *Metrics
}

// NewServer indexes the record file at path and returns a server for it.
func NewServer(path string, metrics *Metrics) (*Server, error) {
	index, err := records.BuildIndex(path)
	if err != nil {
		return nil, fmt.Errorf("failed to index record file: %w", err)
	}
	return &Server{
		path:    path,
		index:   index,
		metrics: metrics,
	}, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Get("/records/{ordinal}", s.metrics.InstrumentHandler("GET", "/api/v1/records/{ordinal}", s.handleRecord))
		r.Get("/stats", s.metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
	})

	return r
}

// StartServer indexes the record file and serves it until the listener
// fails.
func StartServer(path string, config ServerConfig) error {
	metrics := NewMetrics()

	server, err := NewServer(path, metrics)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	slog.Info("starting riegeli record server",
		"addr", addr,
		"file", path,
		"records", server.index.NumRecords())
	return http.ListenAndServe(addr, server.Router())
}
