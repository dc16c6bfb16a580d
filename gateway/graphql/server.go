package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/fakebook/fakebook/auth"
	"github.com/fakebook/fakebook/config"
	"github.com/fakebook/fakebook/errors"
	"github.com/fakebook/fakebook/gateway"
	"github.com/fakebook/fakebook/metric"
)

// Server is the central HTTP server. It owns the mux and the listener,
// serves the graph query endpoint and playground, and lets other
// gateway components register their routes before startup.
type Server struct {
	config     *config.Config
	engine     *Engine
	gate       *auth.Gate
	metrics    *metric.Registry
	logger     *slog.Logger
	httpServer *http.Server
	mux        *http.ServeMux
	extra      []gateway.HTTPHandler

	// Lifecycle
	running  bool
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once // Ensures stopChan is closed exactly once
}

// NewServer creates the HTTP server. The extra handlers register their
// routes on the shared mux during Setup.
func NewServer(
	cfg *config.Config,
	engine *Engine,
	gate *auth.Gate,
	metrics *metric.Registry,
	logger *slog.Logger,
	extra ...gateway.HTTPHandler,
) (*Server, error) {
	if cfg == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Server", "NewServer",
			"config is required")
	}

	if engine == nil {
		return nil, errors.WrapFatal(fmt.Errorf("engine is nil"), "Server", "NewServer",
			"engine is required")
	}

	if gate == nil {
		return nil, errors.WrapFatal(fmt.Errorf("gate is nil"), "Server", "NewServer",
			"auth gate is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config:   cfg,
		engine:   engine,
		gate:     gate,
		metrics:  metrics,
		logger:   logger.With("component", "server"),
		mux:      http.NewServeMux(),
		extra:    extra,
		stopChan: make(chan struct{}),
	}, nil
}

// Setup configures the HTTP server and routes
func (s *Server) Setup() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mux.HandleFunc("GET /health", s.handleHealth)

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}

	gqlPath := s.config.Server.GraphQLPath
	s.mux.Handle("POST "+gqlPath,
		s.gate.Middleware(http.HandlerFunc(s.handleGraphQL)))

	if s.config.Server.EnablePlayground {
		s.mux.Handle("GET "+gqlPath, playground.Handler("Fakebook Playground", gqlPath))
		s.logger.Info("playground enabled",
			"url", fmt.Sprintf("http://%s%s", s.config.Server.BindAddress, gqlPath))
	}

	for _, h := range s.extra {
		h.RegisterHTTPHandlers("/", s.mux)
	}

	var handler http.Handler = s.mux
	handler = s.instrument(handler)
	if s.config.Server.EnableCORS {
		handler = s.corsMiddleware(handler)
	}

	s.httpServer = &http.Server{
		Addr:         s.config.Server.BindAddress,
		Handler:      handler,
		ReadTimeout:  s.config.Timeout(),
		WriteTimeout: s.config.Timeout(),
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("server configured",
		"address", s.config.Server.BindAddress,
		"graphql_path", gqlPath,
		"timeout", s.config.Timeout())

	return nil
}

// Start starts the HTTP server
// The ready channel is closed when the server is ready to accept connections
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.WrapFatal(errors.ErrAlreadyStarted, "Server", "Start", "server already running")
	}
	if s.httpServer == nil {
		s.mu.Unlock()
		return errors.WrapFatal(errors.ErrNotStarted, "Server", "Start", "Setup not called")
	}
	s.running = true
	server := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("server starting", "address", s.config.Server.BindAddress)

		// ListenAndServe blocks after binding the socket, so ready is
		// signalled immediately before the call
		if ready != nil {
			close(ready)
		}

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
			select {
			case errChan <- err:
			case <-ctx.Done():
			case <-s.stopChan:
			}
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("server context cancelled, shutting down")
		return s.Stop(30 * time.Second)

	case <-s.stopChan:
		s.logger.Info("server stop requested")
		return nil

	case err := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return errors.WrapFatal(err, "Server", "Start", "HTTP server failed")
	}
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil // Already stopped
	}
	server := s.httpServer
	s.mu.Unlock()

	s.logger.Info("server stopping")

	s.stopOnce.Do(func() {
		close(s.stopChan)
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shutdown server gracefully", "error", err)
		return errors.WrapFatal(err, "Server", "Stop", "graceful shutdown failed")
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// handleGraphQL decodes one graph query request and executes it.
// Transport-level failures are the only non-200 responses; execution
// errors travel in the response body per the graph error contract.
func (s *Server) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{
			Errors: gqlerror.List{gqlerror.Errorf("malformed request body: %v", err)},
		})
		return
	}

	resp := s.engine.Execute(r.Context(), &req)
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	running := s.running
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if !running {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument tags each request with an ID and records request metrics.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		surface := s.surfaceFor(r.URL.Path)
		if s.metrics != nil {
			s.metrics.Metrics.ObserveRequest(surface, strconv.Itoa(rec.status), duration)
		}

		s.logger.Debug("request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration)
	})
}

// surfaceFor buckets a request path into a metric surface label.
func (s *Server) surfaceFor(path string) string {
	switch {
	case path == s.config.Server.GraphQLPath:
		return "graphql"
	case strings.HasPrefix(path, "/rest") || path == "/login":
		return "rest"
	default:
		return "ops"
	}
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range s.config.Server.CORSOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin != "" {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			} else {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
