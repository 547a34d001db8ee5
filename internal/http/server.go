package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"spendwise/internal/aggregate"
	"spendwise/internal/cache"
	"spendwise/internal/log"
	"spendwise/internal/services"
)

const (
	reportCacheSize = 64
	reportCacheTTL  = 5 * time.Minute
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the API serves.
type Deps struct {
	Transactions *services.TransactionService
	Ingestion    *services.IngestionService
	Reports      *services.ReportService
	Store        Pinger
	Logger       *log.Logger

	// Location interprets the "date" query parameter. Nil means UTC.
	Location *time.Location
}

type Server struct {
	http.Server
	deps        Deps
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	reportCache  *cache.LRUCache[aggregate.Report]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.New(log.Config{Handler: slog.Default().Handler(), Component: log.ComponentHTTP})
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		deps:         deps,
		rateLimiter:  newRateLimiter(60, time.Minute),
		metrics:      &securityMetrics{},
		reportCache:  cache.NewLRUCache[aggregate.Report](reportCacheSize, reportCacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// derived reports are stale after any write
	if deps.Ingestion != nil {
		deps.Ingestion.OnChange(s.reportCache.Purge)
	}
	if deps.Transactions != nil {
		deps.Transactions.OnChange(s.reportCache.Purge)
	}

	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(log.Middleware(s.deps.Logger))
	r.Use(log.RequestIDMiddleware(func(r *http.Request) string {
		return middleware.GetReqID(r.Context())
	}))
	r.Use(s.withSecurityHeaders)

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.withRateLimit)

		r.Get("/transactions", s.handleListTransactions)
		r.Get("/transactions/{id}", s.handleGetTransaction)
		r.Patch("/transactions/{id}/category", s.handleSetCategory)

		r.Post("/ingest", s.handleIngest)
		r.Post("/categorize", s.handleCategorize)

		r.Get("/summary", s.handleSummary)
		r.Get("/budget/rolling", s.handleRollingBudget)
		r.Get("/budget/month", s.handleMonthBudget)
		r.Get("/categories", s.handleCategories)
		r.Get("/months", s.handleMonths)
		r.Get("/report", s.handleReport)
	})

	return r
}

func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Store.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
