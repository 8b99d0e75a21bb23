// Package http exposes the REST API of the finance tracker.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/advice"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/auth"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/core"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/middleware/ratelimit"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/middleware/security"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/middleware/trace"
	"github.com/adityadinkarpatil684/personal-finance-tracker/internal/services"
)

// CategoryStore is the read-only category surface the API serves.
type CategoryStore interface {
	Categories(ctx context.Context) ([]core.Category, error)
	CategoriesByType(ctx context.Context, t core.CategoryType) ([]core.Category, error)
}

// Deps collects everything the server needs.
type Deps struct {
	Auth         *auth.Service
	Tokens       *auth.TokenIssuer
	Transactions *services.TransactionService
	Analytics    *services.AnalyticsService
	Advisor      *advice.Service
	Categories   CategoryStore

	RateLimitPerMinute int
}

type Server struct {
	http.Server

	auth         *auth.Service
	transactions *services.TransactionService
	analytics    *services.AnalyticsService
	advisor      *advice.Service
	categories   CategoryStore

	limiter  *ratelimit.Limiter
	detector *security.Detector

	// Analytics responses are cached per user; mutations bump the user's
	// version so stale entries are never served.
	overviewCache    *lruCache[core.AnalyticsOverview]
	versionMu        sync.Mutex
	ledgerVersions   map[int64]int64
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           nil, // set below, after middleware wrapping
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		auth:             deps.Auth,
		transactions:     deps.Transactions,
		analytics:        deps.Analytics,
		advisor:          deps.Advisor,
		categories:       deps.Categories,
		limiter:          ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		detector:         security.NewDetector(),
		overviewCache:    newLRUCache[core.AnalyticsOverview](200, 5*time.Minute),
		ledgerVersions:   make(map[int64]int64),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	requireAuth := auth.Middleware(deps.Tokens, func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
	})

	// Public routes
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	// Authenticated routes
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(s.handleMe)))
	mux.Handle("GET /api/transactions", requireAuth(http.HandlerFunc(s.handleListTransactions)))
	mux.Handle("POST /api/transactions", requireAuth(http.HandlerFunc(s.handleCreateTransaction)))
	mux.Handle("PUT /api/transactions/{id}", requireAuth(http.HandlerFunc(s.handleUpdateTransaction)))
	mux.Handle("DELETE /api/transactions/{id}", requireAuth(http.HandlerFunc(s.handleDeleteTransaction)))
	mux.Handle("GET /api/transactions/analytics", requireAuth(http.HandlerFunc(s.handleAnalytics)))
	mux.Handle("GET /api/categories", requireAuth(http.HandlerFunc(s.handleCategories)))
	mux.Handle("GET /api/categories/{type}", requireAuth(http.HandlerFunc(s.handleCategoriesByType)))
	mux.Handle("GET /api/ai/advice", requireAuth(http.HandlerFunc(s.handleAdvice)))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondMessage(w, http.StatusNotFound, "Route not found")
	})

	// Outermost first: hardening headers, then tracing, then rate limiting.
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(s.detector.ExtractClientIP)
	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		respondMessage(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
	})

	var handler http.Handler = mux
	handler = s.flagSuspicious(handler)
	handler = limited(handler)
	handler = tracer.Middleware(handler)
	handler = headers.Middleware(handler)
	s.Server.Handler = handler

	return s
}

// flagSuspicious logs probe-looking requests; they are still served so the
// detector never breaks legitimate edge cases.
func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.DetectSuspiciousRequest(r) {
			slog.WarnContext(r.Context(), "Suspicious request",
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", s.detector.ExtractClientIP(r))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.overviewCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// overviewCacheKey folds the user's ledger version into the key, so writes
// invalidate without scanning the cache.
func (s *Server) overviewCacheKey(userID int64, year, month int) string {
	s.versionMu.Lock()
	version := s.ledgerVersions[userID]
	s.versionMu.Unlock()
	return fmt.Sprintf("%d:%d:%d:%d", userID, version, year, month)
}

func (s *Server) bumpLedgerVersion(userID int64) {
	s.versionMu.Lock()
	s.ledgerVersions[userID]++
	s.versionMu.Unlock()
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, envelope{
		"success":   true,
		"message":   "Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
