// Package server provides the HTTP REST API for the match engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/job-match/internal/config"
	"github.com/jonathan/job-match/internal/gap"
	"github.com/jonathan/job-match/internal/ranking"
	"github.com/jonathan/job-match/internal/schemas"
	"github.com/jonathan/job-match/internal/server/middleware"
	"github.com/jonathan/job-match/internal/server/ratelimit"
	"github.com/jonathan/job-match/internal/types"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies for the POST endpoints.
const maxBodyBytes = 5 << 20

// defaultPageSize is how many rows each store list call fetches while the
// ranking routes walk the full candidate or job set.
const defaultPageSize = 500

// ProfileStore supplies stored candidates and jobs and keeps computed matches.
// *db.DB implements it. The list methods page by ID: each call returns up to
// limit rows ordered by ID, strictly after the cursor.
type ProfileStore interface {
	GetCandidate(ctx context.Context, id string) (*types.Candidate, error)
	ListCandidates(ctx context.Context, after string, limit int) ([]types.Candidate, error)
	GetJob(ctx context.Context, jobID string) (*types.Job, error)
	ListOpenJobs(ctx context.Context, after string, limit int) ([]types.Job, error)
	SaveMatchResults(ctx context.Context, candidateID string, results []types.MatchResult) error
	ListMatchResults(ctx context.Context, candidateID string) ([]types.StoredMatch, error)
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       ProfileStore
	ranker      *ranking.Ranker
	analyzer    *gap.Analyzer
	schemas     *schemas.Registry
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	logger      *zap.Logger
	corsOrigin  string
	pageSize    int
}

// Config holds server dependencies and settings
type Config struct {
	Port       int
	CORSOrigin string

	// Store is optional; without it the stored-profile routes answer 503
	Store ProfileStore
	// PageSize is the store page size used while ranking; defaults to 500
	PageSize int
	Ranker   *ranking.Ranker
	Analyzer *gap.Analyzer
	// Schemas is optional; without it request bodies skip JSON Schema checks
	Schemas   *schemas.Registry
	RateLimit *ratelimit.Config

	// JWT enables the employer view when its secret is set
	JWT            *config.JWTConfig
	EmployerEmails []string

	Logger *zap.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Ranker == nil {
		return nil, fmt.Errorf("server requires a ranker")
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = gap.NewAnalyzer(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "*"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	s := &Server{
		store:       cfg.Store,
		ranker:      cfg.Ranker,
		analyzer:    cfg.Analyzer,
		schemas:     cfg.Schemas,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		logger:      cfg.Logger,
		corsOrigin:  cfg.CORSOrigin,
		pageSize:    cfg.PageSize,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Match engine
	mux.HandleFunc("POST /api/match/candidate-to-jobs", s.handleMatchCandidateToJobs)
	mux.HandleFunc("GET /api/match/engine/weights", s.handleWeights)

	// Stored profiles
	mux.HandleFunc("GET /api/candidates/{id}/matches", s.handleCandidateMatches)
	mux.HandleFunc("GET /api/candidates/{id}/matches/history", s.handleCandidateMatchHistory)

	// Employer view, only when tokens can be validated
	if cfg.JWT != nil && cfg.JWT.Enabled() {
		s.jwtService = NewJWTService(cfg.JWT)
		employerOnly := chain(
			middleware.AuthMiddleware(s.jwtService.AsTokenValidator(), s.denyRequest),
			middleware.RequireEmail(cfg.EmployerEmails, s.denyRequest),
		)
		mux.Handle("GET /api/jobs/{id}/candidates", employerOnly(http.HandlerFunc(s.handleJobCandidates)))
	} else {
		s.logger.Warn("JWT secret not configured, employer view disabled")
	}

	// Skills gap analysis
	mux.HandleFunc("POST /analyze", s.handleAnalyze)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

func chain(mws ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		return h
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)

		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "store": "disabled"}
	if s.store != nil {
		resp["store"] = "ok"
		if err := s.store.Ping(r.Context()); err != nil {
			s.logger.Warn("store ping failed", zap.Error(err))
			resp["status"] = "degraded"
			resp["store"] = "unreachable"
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
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
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("path", r.URL.Path),
		zap.String("client", s.extractClientID(r)),
		zap.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
