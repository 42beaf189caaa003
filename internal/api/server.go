package api

import (
	"net/http"
	"time"

	"github.com/futig/realty-advisor/internal/api/docs"
	listingapi "github.com/futig/realty-advisor/internal/api/listing"
	"github.com/futig/realty-advisor/internal/api/middleware"
	predictionapi "github.com/futig/realty-advisor/internal/api/prediction"
	queryapi "github.com/futig/realty-advisor/internal/api/query"
	"github.com/futig/realty-advisor/internal/entity"
	"github.com/futig/realty-advisor/internal/metrics"
	"github.com/futig/realty-advisor/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ReadinessChecker reports whether the corpus has been indexed
type ReadinessChecker interface {
	Ready() bool
}

type Handlers struct {
	Query      *queryapi.Handler
	Prediction *predictionapi.Handler
	Listing    *listingapi.Handler
}

type RouterConfig struct {
	MaxConcurrent  int
	RequestTimeout time.Duration
	// QueryLimiter throttles /query; nil disables it
	QueryLimiter *rate.Limiter
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(
	handlers Handlers,
	cfg RouterConfig,
	readiness ReadinessChecker,
	m *metrics.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(middleware.Metrics(m))     // Count requests
	r.Use(middleware.CORS)           // Handle CORS
	if cfg.MaxConcurrent > 0 {
		r.Use(chimiddleware.Throttle(cfg.MaxConcurrent)) // Bound in-flight requests
	}
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout)) // Default timeout
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"Hello": "World"})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if readiness != nil && !readiness.Ready() {
			response.Error(w, http.StatusServiceUnavailable, entity.ErrNotInitialized.Error())
			return
		}
		response.Success(w, map[string]string{"status": "healthy"})
	})

	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	var queryLimit func(http.Handler) http.Handler
	if cfg.QueryLimiter != nil {
		queryLimit = middleware.RateLimit(cfg.QueryLimiter)
	}
	queryapi.RegisterRoutes(r, handlers.Query, queryLimit)
	predictionapi.RegisterRoutes(r, handlers.Prediction)
	listingapi.RegisterRoutes(r, handlers.Listing)

	return r
}
