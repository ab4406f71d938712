package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/boddenberg/whichcard-bfa-go/internal/infra/observability"
	"github.com/boddenberg/whichcard-bfa-go/internal/port"
	"github.com/boddenberg/whichcard-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Config holds the HTTP-layer settings.
type Config struct {
	ConsentCookieName string
	AllowedOrigins    []string
	SecureCookies     bool
}

// Services bundles what the routes call into. Health maps a backend name
// to its checker for /healthz.
type Services struct {
	Recommender *service.Recommender
	Settings    *service.SettingsService
	Usage       *service.UsageLogger
	Health      map[string]port.HealthChecker
	Metrics     *observability.Metrics
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, cfg Config, logger *zap.Logger) http.Handler {
	if cfg.ConsentCookieName == "" {
		cfg.ConsentCookieName = "whichcard_consent"
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.Health, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(svc.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		// Catalogue
		r.Get("/categories", categoriesHandler())
		r.Get("/cards", cardsHandler())
		r.Get("/settings/defaults", defaultSettingsHandler(svc.Settings))

		// Routes that read the profile token
		r.Group(func(r chi.Router) {
			r.Use(ProfileTokenMiddleware(logger))

			r.Post("/evaluate", evaluateHandler(svc, cfg, logger))

			r.Get("/settings", getSettingsHandler(svc.Settings, logger))
			r.Put("/settings", putSettingsHandler(svc.Settings, logger))
			r.Delete("/settings", deleteSettingsHandler(svc.Settings, logger))
		})

		// Consent & usage logging
		r.Get("/consent", getConsentHandler(cfg))
		r.Post("/consent", setConsentHandler(cfg, logger))
		r.Delete("/consent", clearConsentHandler(cfg))
		r.Post("/log-card-request", logCardRequestHandler(svc.Usage, cfg, logger))

		// Metrics
		r.Get("/metrics/usage", usageMetricsHandler(svc.Metrics))
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func healthzHandler(checks map[string]port.HealthChecker, logger *zap.Logger) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "whichcard-api", Status: "healthy", LastChecked: now},
		}

		for _, name := range names {
			status, detail := "healthy", ""
			if err := checks[name].Ping(r.Context()); err != nil {
				status, detail = "degraded", err.Error()
				logger.Warn("healthz: backend unreachable", zap.String("backend", name), zap.Error(err))
			}
			services = append(services, domain.ServiceHealth{
				Name: name, Status: status, Detail: detail, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func usageMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetUsageSnapshot())
	}
}
