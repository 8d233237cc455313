// Package api exposes the roster pipelines over HTTP.
//
// Routes:
//
//	GET  /healthz                          liveness and build information
//	POST /v1/sort?rows=N&flat=&strategy=   multipart "file" → sorted xlsx
//	POST /v1/split?keep_unparsed=          multipart "file" → separated xlsx
//	GET  /v1/rank?label=XL&label=2XL       label ranks as JSON
//
// Errors are JSON objects {"code", "message", "request_id"} whose HTTP status
// follows the error code; see [StatusFor].
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/rosterfmt/pkg/config"
	"github.com/matzehuels/rosterfmt/pkg/observability"
	"github.com/matzehuels/rosterfmt/pkg/order"
	"github.com/matzehuels/rosterfmt/pkg/pipeline"
)

// DefaultMaxUploadBytes bounds the size of an uploaded roster.
const DefaultMaxUploadBytes = 10 << 20

// shutdownTimeout bounds graceful shutdown in ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API. It holds no per-request state and is safe for
// concurrent use.
type Server struct {
	Runner         *pipeline.Runner
	Config         *config.Config
	Logger         *log.Logger
	MaxUploadBytes int64

	order *order.Order
}

// New creates a server for cfg. A nil cfg uses the defaults; a nil logger
// uses the default charm logger.
func New(cfg *config.Config, logger *log.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	o, err := cfg.BuildOrder()
	if err != nil {
		return nil, err
	}
	return &Server{
		Runner:         pipeline.NewRunner(logger),
		Config:         cfg,
		Logger:         logger,
		MaxUploadBytes: DefaultMaxUploadBytes,
		order:          o,
	}, nil
}

// Routes returns the API handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(exposeRequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/sort", s.handleSort)
		r.Post("/split", s.handleSplit)
		r.Get("/rank", s.handleRank)
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// exposeRequestID echoes the request ID assigned by middleware.RequestID.
func exposeRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetReqID(r.Context()); id != "" {
			w.Header().Set(middleware.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observability.API().OnRequest(r.Context(), r.Method, route, ww.Status(), elapsed)

		s.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
