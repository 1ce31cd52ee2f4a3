// Package server exposes the component graph editor over HTTP.
//
// The server is stateless: every request carries the graph as a share token
// in the data query parameter, exactly like the share link of the editor.
// Mutations answer with the edited graph, its new token and the matching
// share URL, so a client replaces its address bar with the returned URL.
//
//	GET    /api/graph                       graph of ?data=
//	GET    /api/layout                      positioned nodes and edges
//	POST   /api/components                  add a component
//	PATCH  /api/components/{id}             rename, re-parent or replace props
//	DELETE /api/components/{id}             delete; children become roots
//	POST   /api/components/{id}/props       append a prop
//	DELETE /api/components/{id}/props/{name} remove every prop called name
//	GET    /render.svg                      SVG rendering of the layout
//	GET    /healthz                         liveness
//	GET    /metrics                         Prometheus metrics
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/compgraph/pkg/cache"
	"github.com/matzehuels/compgraph/pkg/editor"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 5 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr    string
	BaseURL string           // base of returned share URLs
	Options pipeline.Options // layout settings for /api/layout and /render.svg
	Runner  *pipeline.Runner // nil uses an uncached runner
	Metrics *Metrics         // nil disables /metrics
	Logger  *log.Logger
}

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.BaseURL == "" {
		cfg.BaseURL = editor.DefaultBaseURL
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{cfg: cfg, runner: cfg.Runner, logger: cfg.Logger}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(cache.NewNullCache(), nil, cfg.Logger)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	if s.cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.cfg.Metrics.Handler())
	}
	r.Get("/render.svg", s.handleRender)

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", s.handleGraph)
		r.Get("/layout", s.handleLayout)
		r.Route("/components", func(r chi.Router) {
			r.Post("/", s.handleCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", s.handleUpdate)
				r.Delete("/", s.handleDelete)
				r.Post("/props", s.handleAddProp)
				r.Delete("/props/{name}", s.handleRemoveProp)
			})
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// instrument logs every request and records it in the metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		s.logger.Debug("request", "method", r.Method, "route", route, "status", status, "duration", elapsed)
		if s.cfg.Metrics != nil {
			s.cfg.Metrics.observeRequest(r.Method, route, status, elapsed)
		}
	})
}
