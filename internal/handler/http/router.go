package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopforge/notification-service/internal/service"
	"github.com/shopforge/notification-service/pkg/health"
	"github.com/shopforge/notification-service/pkg/middleware"
)

// NewRouter creates a chi router with all notification service routes registered.
func NewRouter(
	notificationService *service.NotificationService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	pprofCIDRs []string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("notification"))
	r.Use(middleware.Tracing("notification"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, pprofCIDRs, logger)

	// Dispatch API endpoints
	notificationHandler := NewNotificationHandler(notificationService, logger)

	r.Route("/api/v1/notifications", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/dispatch", notificationHandler.Dispatch)
		r.Get("/", notificationHandler.ListDispatches)
		r.Get("/{id}", notificationHandler.GetDispatch)
		r.Post("/{id}/resend", notificationHandler.Resend)
	})

	return r
}

// ContentTypeJSON sets the response content type for the API subtree.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
