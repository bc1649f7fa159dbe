package dirsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"v2browse/internal/errors"
	"v2browse/internal/log"
	"v2browse/pkg/types"

	"github.com/gabriel-vasile/mimetype"
)

// Routes
const (
	ListRoute    = "/list-directory"
	StaticPrefix = "/static/"
	MetricsRoute = "/metrics"
	HealthRoute  = "/healthz"
)

// Server answers directory service requests from a Backend.
type Server struct {
	backend Backend
	logger  *log.Logger
	cors    bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCORS allows cross-origin GETs, for browser clients served elsewhere.
func WithCORS(enabled bool) Option {
	return func(s *Server) { s.cors = enabled }
}

// NewServer creates a server over b.
func NewServer(b Backend, opts ...Option) *Server {
	s := &Server{backend: b, logger: log.Default(), cors: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(ListRoute, s.instrument("list", http.HandlerFunc(s.handleList)))
	mux.Handle(StaticPrefix, s.instrument("static", http.HandlerFunc(s.handleStatic)))
	mux.Handle(MetricsRoute, MetricsHandler())
	mux.HandleFunc(HealthRoute, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.With(log.F("addr", addr), log.F("backend", s.backend.Name())).Info("Directory service listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("Shutting down directory service")
		return srv.Shutdown(shutdownCtx)
	}
}

// instrument records metrics and a debug log line for each request, and
// restricts the route to GET and HEAD.
func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if s.cors {
			rw.Header().Set("Access-Control-Allow-Origin", "*")
		}

		switch r.Method {
		case http.MethodGet, http.MethodHead:
			next.ServeHTTP(rw, r)
		case http.MethodOptions:
			rw.Header().Set("Allow", "GET, HEAD, OPTIONS")
			rw.WriteHeader(http.StatusNoContent)
		default:
			rw.Header().Set("Allow", "GET, HEAD, OPTIONS")
			http.Error(rw, "method not allowed", http.StatusMethodNotAllowed)
		}

		elapsed := time.Since(start)
		RecordHTTPRequest(r.Method, route, rw.statusCode, elapsed)
		s.logger.With(
			log.F("method", r.Method),
			log.F("path", r.URL.RequestURI()),
			log.F("status", rw.statusCode),
			log.F("duration", elapsed.String()),
		).Debug("Request served")
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	rel, err := CleanRequestPath(r.URL.Query().Get("path"))
	if err != nil {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}

	items, err := s.backend.List(r.Context(), rel)
	RecordBackendOperation(s.backend.Name(), "list", err)
	if err != nil {
		s.writeError(w, rel, err)
		return
	}
	if items == nil {
		items = types.Listing{}
	}
	writeJSON(w, items)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	rel, err := CleanRequestPath(strings.TrimPrefix(r.URL.Path, StaticPrefix))
	if err != nil {
		http.Error(w, "bad path", http.StatusBadRequest)
		return
	}

	data, err := s.backend.Read(r.Context(), rel)
	RecordBackendOperation(s.backend.Name(), "read", err)
	if err != nil {
		s.writeError(w, rel, err)
		return
	}
	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, rel string, err error) {
	switch {
	case isNotFound(err):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrBadPath):
		http.Error(w, "bad path", http.StatusBadRequest)
	case errors.Is(err, ErrNotDir):
		http.Error(w, "not a directory", http.StatusBadRequest)
	case errors.Is(err, ErrIsDir):
		http.Error(w, "is a directory", http.StatusBadRequest)
	default:
		s.logger.With(log.F("path", rel)).With(log.ErrorFields(err)...).Error("Backend failure")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
