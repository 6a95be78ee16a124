// Package router assembles the chi router: middleware stack, API routes,
// probes and fallback handlers.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/hapkiduki/freight-go/internal/application/dto"
	"github.com/hapkiduki/freight-go/internal/application/port"
	"github.com/hapkiduki/freight-go/internal/interfaces/http/handler"
	"github.com/hapkiduki/freight-go/internal/interfaces/http/middleware"
)

// Config holds the transport settings of the router.
type Config struct {
	Version            string
	CORSAllowedOrigins []string
	RequestTimeout     time.Duration
	MaxRequestSize     int64

	// RateLimit is applied per client IP when non-nil.
	RateLimit *middleware.RateLimiterConfig
}

// New builds the HTTP handler of the API.
//
// Parameters:
//   - cfg: transport settings
//   - log: request and error logger
//   - shipments: shipment, tracking and measurement handlers
//   - health: liveness and readiness probes
//
// Returns:
//   - http.Handler: the router
func New(cfg Config, log port.Logger, shipments *handler.ShipmentHandler, health *handler.HealthHandler) http.Handler {
	r := chi.NewRouter()

	// ============================================================================
	// Middleware stack
	// ============================================================================
	// Order matters! Middleware is executed in the order added.

	// 1. Real IP extraction (for rate limiting and logging)
	r.Use(middleware.RealIP)

	// 2. Request ID generation/propagation
	r.Use(middleware.RequestID)

	// 3. Logging (after Request ID so it's included in logs)
	r.Use(middleware.Logger(log))

	// 4. Panic recovery
	r.Use(middleware.Recoverer(log))

	// 5. Request timeout
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	// 6. CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-API-Version", "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 7. Rate limiting
	if cfg.RateLimit != nil {
		r.Use(middleware.RateLimiter(*cfg.RateLimit))
	}

	// 8. Security headers
	r.Use(middleware.SecureHeaders)

	// 9. API version header
	r.Use(middleware.APIVersion(cfg.Version))

	// ============================================================================
	// Routes
	// ============================================================================

	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestSize))
		r.Use(middleware.ContentTypeJSON)
		shipments.Routes(r)
	})

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	return r
}

// notFoundHandler handles 404 responses.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, dto.NewErrorResponse[any](dto.CodeNotFound, "The requested resource was not found"))
}

// methodNotAllowedHandler handles 405 responses.
func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, dto.NewErrorResponse[any]("METHOD_NOT_ALLOWED", "The requested method is not allowed for this resource"))
}
