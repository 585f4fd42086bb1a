package rest

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bizmate/automation/internal/api/rest/handlers"
	customMiddleware "github.com/bizmate/automation/internal/api/rest/middleware"
	"github.com/bizmate/automation/pkg/logger"
	"github.com/bizmate/automation/pkg/metrics"
)

// Router holds the HTTP router and dependencies
type Router struct {
	router   *chi.Mux
	logger   *logger.Logger
	handlers *handlers.Handlers
	metrics  *metrics.Metrics
	limiter  *customMiddleware.RateLimiter
}

// NewRouter creates a new HTTP router
func NewRouter(log *logger.Logger, h *handlers.Handlers, m *metrics.Metrics, limiter *customMiddleware.RateLimiter) *Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(customMiddleware.Metrics(m))

	// CORS - configure allowed origins from environment
	allowedOrigins := []string{"http://localhost:3000"}
	if originsEnv := os.Getenv("ALLOWED_ORIGINS"); originsEnv != "" {
		allowedOrigins = strings.Split(originsEnv, ",")
		for i := range allowedOrigins {
			allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Link", "X-Request-ID"},
		MaxAge:         300,
	}))

	return &Router{
		router:   r,
		logger:   log,
		handlers: h,
		metrics:  m,
		limiter:  limiter,
	}
}

// SetupRoutes configures all API routes
func (r *Router) SetupRoutes() {
	// Prometheus metrics endpoint
	r.router.Handle("/metrics", promhttp.Handler())

	// Health endpoints
	r.router.Get("/health", r.handlers.Health.Health)
	r.router.Get("/ready", r.handlers.Health.Ready)

	// API v1
	r.router.Route("/api/v1", func(router chi.Router) {
		if r.limiter != nil {
			router.Use(customMiddleware.RateLimit(r.limiter))
		}

		router.Post("/events", r.handlers.Event.CreateEvent)

		router.Route("/rules", func(router chi.Router) {
			router.Get("/", r.handlers.Rule.List)
			router.Post("/", r.handlers.Rule.Create)
			router.Get("/{id}", r.handlers.Rule.Get)
			router.Put("/{id}", r.handlers.Rule.Update)
			router.Delete("/{id}", r.handlers.Rule.Delete)
		})

		router.Get("/stats", r.handlers.Stats.Get)
	})
}

// Handler returns the underlying http.Handler
func (r *Router) Handler() http.Handler {
	return r.router
}
