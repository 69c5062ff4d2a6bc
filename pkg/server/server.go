// Package server exposes the layout operations of [pipeline.Runner] as a
// JSON HTTP API.
//
// Routes:
//
//	GET  /health
//	POST /v1/layouts/compact
//	POST /v1/layouts/columns
//	POST /v1/layouts/check
//	POST /v1/layouts/add
//	POST /v1/layouts/move
//
// Every POST body carries the layout as {"grid": {...}, "widgets": [...]}
// plus the operation's parameters. Errors are answered as
// {"error": {"code": "...", "message": "..."}} with a status derived from
// the error code.
//
// Clients sharing one server can isolate their column caches with the
// X-Gridpack-Namespace header.
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

	"github.com/matzehuels/gridpack/pkg/errors"
	"github.com/matzehuels/gridpack/pkg/observability"
	"github.com/matzehuels/gridpack/pkg/pipeline"
)

// DefaultMaxBodyBytes limits request bodies.
const DefaultMaxBodyBytes = 4 << 20

// NamespaceHeader scopes cache keys per client.
const NamespaceHeader = "X-Gridpack-Namespace"

// Options configures a [Server].
type Options struct {
	// Defaults is the grid used when a request omits "grid" fields.
	Defaults pipeline.Options
	// MaxBodyBytes defaults to [DefaultMaxBodyBytes].
	MaxBodyBytes int64
	// Logger defaults to a logger that discards output.
	Logger *log.Logger
}

// Server serves the layout API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
	router   chi.Router
}

// New builds a server around runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	s := &Server{
		runner:   runner,
		defaults: opts.Defaults,
		logger:   opts.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(opts.MaxBodyBytes))

	r.Get("/health", s.health)
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/compact", s.compact)
		r.Post("/columns", s.columns)
		r.Post("/check", s.check)
		r.Post("/add", s.add)
		r.Post("/move", s.move)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, string(errors.ErrCodeNotFound), "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, string(errors.ErrCodeInvalidInput), "method "+r.Method+" not allowed")
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
