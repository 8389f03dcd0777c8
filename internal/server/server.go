// Package server exposes the voice detection pipeline over HTTP.
//
// The API mirrors the detection service contract: POST /detect-voice takes
// base64-encoded audio and returns a classification verdict as JSON, with
// validation failures reported as {"detail": "..."} client errors.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adhith25/ai-voice-detector/internal/logging"
	"github.com/adhith25/ai-voice-detector/internal/metrics"
	"github.com/adhith25/ai-voice-detector/voice/decision"
	"github.com/adhith25/ai-voice-detector/voice/feature"
	"github.com/adhith25/ai-voice-detector/waveform"
)

const (
	// defaultAddr is where the service listens when no address is given.
	defaultAddr = "0.0.0.0:8000"

	// defaultReadHeaderTimeout prevents Slowloris attacks.
	defaultReadHeaderTimeout = 10 * time.Second

	// defaultReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	defaultReadTimeout = 15 * time.Second

	// defaultWriteTimeout is the maximum duration before timing out
	// writes of the response. Analysis of a long clip happens within
	// this budget.
	defaultWriteTimeout = 30 * time.Second

	// defaultMaxBodyBytes is the maximum allowed request body size (10 MB).
	defaultMaxBodyBytes int64 = 10 << 20
)

// Option configures a [Server].
type Option func(*Server)

// WithAddr sets the listen address for ListenAndServe. Default:
// 0.0.0.0:8000.
func WithAddr(addr string) Option {
	return func(s *Server) { s.addr = addr }
}

// WithLimits sets the clip validation bounds. Default:
// [waveform.DefaultLimits].
func WithLimits(l waveform.Limits) Option {
	return func(s *Server) { s.limits = l }
}

// WithLogger sets the request logger. Default: the process logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithReadTimeout sets the maximum duration for reading the entire
// request. Default: 15s.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) { s.readTimeout = d }
}

// WithWriteTimeout sets the maximum duration before timing out writes of
// the response. Default: 30s.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) { s.writeTimeout = d }
}

// WithMaxBodyBytes sets the maximum allowed request body size in bytes.
// Default: 10 MB.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// Server serves the voice detection API.
type Server struct {
	extractor *feature.Extractor
	engine    *decision.Engine
	limits    waveform.Limits
	logger    *slog.Logger
	registry  *prometheus.Registry

	addr         string
	readTimeout  time.Duration
	writeTimeout time.Duration
	maxBodyBytes int64

	httpSrv   *http.Server
	httpSrvMu sync.Mutex
}

// New returns a server classifying with the given extractor and engine.
func New(extractor *feature.Extractor, engine *decision.Engine, opts ...Option) *Server {
	s := &Server{
		extractor:    extractor,
		engine:       engine,
		limits:       waveform.DefaultLimits(),
		logger:       logging.Logger(),
		registry:     metrics.Registry(),
		addr:         defaultAddr,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /detect-voice", s.instrument("detect_voice", s.handleDetect))
	mux.HandleFunc("GET /{$}", s.instrument("root", s.handleRoot))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler(s.registry))
	return mux
}

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		ReadTimeout:       s.readTimeout,
		WriteTimeout:      s.writeTimeout,
	}

	s.httpSrvMu.Lock()
	s.httpSrv = srv
	s.httpSrvMu.Unlock()

	return srv.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.httpSrvMu.Lock()
	srv := s.httpSrv
	s.httpSrvMu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument tags each request with a UUID, logs it, and records the
// request metrics.
func (s *Server) instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next(rec, r)
		elapsed := time.Since(start)

		metrics.RecordRequest(endpoint, statusClass(rec.status), elapsed.Seconds())
		s.logger.Info("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed,
		)
	}
}

// statusClass buckets an HTTP status for the request counter.
func statusClass(status int) string {
	switch {
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	default:
		return "ok"
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Voice Classification API is running"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error response in the {"detail": "..."} shape the
// API contract uses for failures.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
