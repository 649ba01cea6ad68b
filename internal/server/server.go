// Package server exposes the built dataset over HTTP in serve mode: JSON
// API endpoints, health and metrics, and a livereload websocket that fires
// on every successful rebuild.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fernwehlabs/sitepipe/internal/buildlog"
	"github.com/fernwehlabs/sitepipe/internal/config"
	"github.com/fernwehlabs/sitepipe/internal/logfields"
	"github.com/fernwehlabs/sitepipe/internal/metrics"
	"github.com/fernwehlabs/sitepipe/internal/sitemodel"
)

// Server holds the current dataset behind an atomic pointer. A failed
// rebuild never replaces the last good dataset; SetSite only runs on
// success.
type Server struct {
	cfg      *config.Config
	site     atomic.Pointer[sitemodel.SiteData]
	hub      *Hub
	recorder *metrics.PrometheusRecorder
	journal  *buildlog.Journal
	log      *slog.Logger

	httpServer *http.Server
}

func New(cfg *config.Config, recorder *metrics.PrometheusRecorder, journal *buildlog.Journal, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		cfg:      cfg,
		hub:      NewHub(log),
		recorder: recorder,
		journal:  journal,
		log:      log,
	}
}

// SetSite swaps in a freshly built dataset and notifies livereload clients.
func (s *Server) SetSite(site *sitemodel.SiteData) {
	s.site.Store(site)
	s.hub.Broadcast([]byte(`{"type":"reload","buildId":` + strconv.Quote(site.BuildID) + `}`))
}

// Site returns the current dataset, nil before the first successful build.
func (s *Server) Site() *sitemodel.SiteData { return s.site.Load() }

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/site", s.handleSite)
	mux.HandleFunc("GET /api/posts", s.handlePosts)
	mux.HandleFunc("GET /api/posts/{slug}", s.handlePost)
	mux.HandleFunc("GET /api/collections", s.handleCollections)
	mux.HandleFunc("GET /api/collections/{slug}", s.handleCollection)
	mux.HandleFunc("GET /api/tags", s.handleTags)
	mux.HandleFunc("GET /api/authors", s.handleAuthors)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	if s.journal != nil {
		mux.HandleFunc("GET /api/builds", s.handleBuilds)
	}
	if s.recorder != nil {
		mux.Handle("GET /metrics", s.recorder.Handler())
	}
	if s.cfg.Server.LiveReload {
		mux.HandleFunc("/livereload", s.hub.ServeWS)
		s.log.Info("livereload endpoint registered")
	}
	return mux
}

// Start binds and serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Server.Host, strconv.Itoa(s.cfg.Server.Port))
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", logfields.URL("http://"+addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info("HTTP server stopped")
	return nil
}
