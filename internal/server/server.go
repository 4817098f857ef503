// Package server exposes the tracker over a JSON HTTP API, the surface
// the web UI talks to.
package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"PoolTracker/internal/notifier"
	"PoolTracker/internal/tracker"
)

// Server wraps the HTTP API around the tracker.
type Server struct {
	Tracker  *tracker.Manager
	Notifier *notifier.Telegram
	httpSrv  *http.Server
}

// New creates a Server listening on addr.
func New(addr string, tm *tracker.Manager, tn *notifier.Telegram) *Server {
	s := &Server{Tracker: tm, Notifier: tn}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("POST /api/entries", s.handleAddEntry)
	mux.HandleFunc("GET /api/entries/harvestable", s.handleHarvestable)
	mux.HandleFunc("POST /api/entries/{id}/harvest", s.handleHarvest)
	mux.HandleFunc("DELETE /api/entries/{id}", s.handleDeleteEntry)
	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("GET /api/report", s.handleReport)

	return mux
}

// Start begins serving. Blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	log.Printf("[INFO] HTTP API listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
