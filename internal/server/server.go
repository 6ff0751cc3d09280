package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"
	"time"

	"github.com/jonathan/profile-editor/internal/metrics"
	"github.com/jonathan/profile-editor/internal/server/ratelimit"
	"github.com/jonathan/profile-editor/internal/session"
	"github.com/jonathan/profile-editor/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	backend     storage.Backend
	sessions    *session.Manager
	metrics     *metrics.Metrics
	rateLimiter *ratelimit.Limiter
	views       *views
	verbose     bool
}

// Config holds server configuration
type Config struct {
	Port int
	// Verbose logs every request instead of only failed ones.
	Verbose bool
}

// Deps are the collaborators the server is built on.
type Deps struct {
	Backend     storage.Backend
	Sessions    *session.Manager
	Metrics     *metrics.Metrics
	RateLimiter *ratelimit.Limiter
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Backend == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("server requires a storage backend and a session manager")
	}

	v, err := newViews()
	if err != nil {
		return nil, err
	}

	s := &Server{
		backend:     deps.Backend,
		sessions:    deps.Sessions,
		metrics:     deps.Metrics,
		rateLimiter: deps.RateLimiter,
		views:       v,
		verbose:     cfg.Verbose,
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(nil)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)

	// List editing
	mux.HandleFunc("POST /lists/{kind}/{index}/edit", s.handleBeginEdit)
	mux.HandleFunc("POST /lists/{kind}/{index}/save", s.handleCommitEdit)
	mux.HandleFunc("POST /lists/cancel", s.handleCancelEdit)
	mux.HandleFunc("POST /reset", s.handleReset)

	// Contact form
	mux.HandleFunc("POST /contact", s.handleContact)

	// Ad-hoc field editors
	mux.HandleFunc("GET /fields/{field}/edit", s.handleFieldPrompt)
	mux.HandleFunc("POST /fields/{field}", s.handleFieldCommit)

	// JSON API
	mux.HandleFunc("GET /api/profile", s.handleGetProfile)
	mux.HandleFunc("GET /api/contact", s.handleGetContact)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRecover(s.withRateLimit(s.withLogging(mux))),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the server's root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled or the process receives SIGINT/SIGTERM, then shuts down
// gracefully and closes the storage backend.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.sessions.Run(gctx)
	})
	g.Go(func() error {
		return s.rateLimiter.Run(gctx, 5*time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if closeErr := s.backend.Close(); closeErr != nil {
		log.Printf("[storage] failed to close backend: %v", closeErr)
	}
	log.Println("Server stopped")
	return err
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if s.verbose || rec.status >= http.StatusInternalServerError {
			log.Printf("[%s] %s %d completed in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
		}
	})
}

// withRecover turns a handler panic into a 500 response
func (s *Server) withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				log.Printf("[server] panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rv, debug.Stack())
				s.errorResponse(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withRateLimit throttles form posts per client
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}
		if !allowed {
			retryAfter := max(int(info.RetryAfter.Seconds()), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			log.Printf("[rate-limit] %s %s throttled for %s", r.Method, r.URL.Path, extractClientID(r))
			s.errorResponse(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractClientID returns the client IP from RemoteAddr.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
