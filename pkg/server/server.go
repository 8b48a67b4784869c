// Package server exposes the level pipeline over a small JSON API.
//
// Every route maps onto one pipeline.Runner command. The Runner serializes
// commands, so concurrent requests never interleave inside the pipeline.
//
//	GET    /levels                    list levels in canonical order
//	POST   /levels                    create {"name": "..."}
//	GET    /levels/{name}             load the grid
//	PUT    /levels/{name}             save {"lines": [...]} and build
//	DELETE /levels/{name}             delete text and header
//	POST   /levels/{name}/build       headless build
//	POST   /order/{index}/move?dir=   move up or down
//	POST   /registry                  reconcile and emit the aggregate
//	GET    /healthz                   liveness
//
// Errors are returned as {"code": "...", "message": "..."}.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/levelforge/pkg/config"
	"github.com/matzehuels/levelforge/pkg/observability"
	"github.com/matzehuels/levelforge/pkg/pipeline"
)

// RequestIDHeader carries the per-request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// Server serves the JSON API for one runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil logger uses the runner's logger.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/levels", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handleSave)
			r.Delete("/", s.handleDelete)
			r.Post("/build", s.handleBuild)
		})
	})
	r.Post("/order/{index}/move", s.handleMove)
	r.Post("/registry", s.handleRegistry)
	return r
}

// ListenAndServe serves on cfg's address until ctx is canceled, then shuts
// down gracefully. Request contexts derive from ctx.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving level API", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down level API")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type requestIDKey struct{}

// RequestID returns the ID assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", status, "duration", elapsed, "id", RequestID(r.Context()))
	})
}
