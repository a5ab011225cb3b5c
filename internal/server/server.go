// Package server exposes the edit engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/resume-forge/internal/coordinator"
	"github.com/jonathan/resume-forge/internal/router"
	"github.com/jonathan/resume-forge/internal/schemas"
	"github.com/jonathan/resume-forge/internal/server/ratelimit"
	"github.com/jonathan/resume-forge/internal/tools"
	"github.com/jonathan/resume-forge/internal/types"
)

const maxBodyBytes = 1 << 20

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	router      *router.Router
	coordinator *coordinator.Coordinator
	rateLimiter *ratelimit.Limiter
}

// Config holds server configuration
type Config struct {
	Port      int
	RateLimit *ratelimit.Config // nil loads the limits from the environment
	Metrics   http.Handler      // served on GET /metrics when set
}

// New creates a server around an already wired router and coordinator
func New(cfg Config, rt *router.Router, c *coordinator.Coordinator) *Server {
	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}

	s := &Server{
		router:      rt,
		coordinator: c,
		rateLimiter: ratelimit.NewLimiter(rl),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /tools", s.handleTools)
	mux.HandleFunc("GET /schema", s.handleSchema)
	mux.HandleFunc("GET /resume", s.handleGetResume)
	mux.HandleFunc("GET /resume/{section}", s.handleGetSection)
	mux.HandleFunc("POST /requests", s.handleRequest)
	mux.HandleFunc("POST /sections/{section}/{operation}", s.handleDispatch)
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // extraction calls the LLM
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled or the process is interrupted, then
// shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.rateLimiter.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Println("[server] stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients that exceed their bucket
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[server] %s %s %s completed in %v", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTools(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]any{
		"coordinator": []string{router.ToolGetResume, router.ToolGetSection},
		"tools":       tools.Catalog(),
	})
}

// handleSchema serves the JSON Schema that persisted documents must satisfy
func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, schemas.ResumeSchema()); err != nil {
		log.Printf("[server] error writing schema: %v", err)
	}
}

func (s *Server) handleGetResume(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, s.coordinator.GetResume())
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	view, err := s.coordinator.GetSection(r.PathValue("section"))
	if err != nil {
		errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, view)
}

// requestResponse is the body of POST /requests
type requestResponse struct {
	*router.Response
	Error string `json:"error,omitempty"`
}

// handleRequest runs a structured or free-text request through the router
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req types.EditRequest
	if err := decodeBody(w, r, &req); err != nil {
		errorResponse(w, err)
		return
	}

	resp, err := s.router.Handle(r.Context(), req)
	if resp == nil {
		resp = &router.Response{}
	}

	var ambiguous *router.AmbiguousError
	switch {
	case err == nil, errors.As(err, &ambiguous):
		// a clarification question is a normal reply
		jsonResponse(w, http.StatusOK, requestResponse{Response: resp})
	default:
		jsonResponse(w, HTTPStatus(err), requestResponse{Response: resp, Error: err.Error()})
	}
}

// dispatchResponse is the body of POST /sections/{section}/{operation}
type dispatchResponse struct {
	Message   string `json:"message"`
	Result    any    `json:"result,omitempty"`
	Committed bool   `json:"committed"`
	Error     string `json:"error,omitempty"`
}

// handleDispatch calls one section operation directly; the body is the
// argument object
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	args := map[string]any{}
	if err := decodeBody(w, r, &args); err != nil {
		errorResponse(w, err)
		return
	}

	result, err := s.coordinator.Dispatch(r.Context(), r.PathValue("section"), r.PathValue("operation"), args)
	body := dispatchResponse{}
	if result != nil {
		body.Result = result
		body.Message = result.Message()
		body.Committed = result.Outcome != nil && result.Outcome.Committed
	}
	if err != nil {
		body.Error = err.Error()
		if body.Message == "" {
			body.Message = err.Error()
		}
		if committedButUnsaved(err) {
			log.Printf("[server] %s/%s committed but not persisted", r.PathValue("section"), r.PathValue("operation"))
		}
		jsonResponse(w, HTTPStatus(err), body)
		return
	}
	jsonResponse(w, http.StatusOK, body)
}

// decodeBody reads a JSON body. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ErrBadRequest{Field: "body", Message: err.Error()}
	}
	return nil
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response with the status HTTPStatus picks
func errorResponse(w http.ResponseWriter, err error) {
	jsonResponse(w, HTTPStatus(err), map[string]string{"error": err.Error()})
}

// clientID identifies the caller by IP address
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[ratelimit] limit exceeded: limit=%d remaining=%d", info.Limit, info.Remaining)
	jsonResponse(w, http.StatusTooManyRequests, response)
}
