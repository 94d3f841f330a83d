package server

import (
	"context"
	"net/http"
	"time"

	"github.com/NYTimes/gziphandler"
	"github.com/go-chi/chi/v5"
	"github.com/ulule/limiter/v3"

	"hrperf/internal/domain/auth"
	"hrperf/internal/domain/employee"
	"hrperf/internal/domain/performance"
	"hrperf/internal/platform/config"
	"hrperf/internal/platform/metrics"
	"hrperf/internal/transport/http/api"
	authhandler "hrperf/internal/transport/http/handlers/auth"
	employeehandler "hrperf/internal/transport/http/handlers/employees"
	performancehandler "hrperf/internal/transport/http/handlers/performance"
	"hrperf/internal/transport/http/middleware"
)

func newRouter(
	cfg config.Config,
	store Backend,
	gate *middleware.Gate,
	rateStore limiter.Store,
	proxies middleware.ProxyTrust,
	employees *employee.Service,
	reviews *performance.Service,
	tokens *auth.TokenService,
) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Handle("/metrics", metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(rateStore, cfg.RateLimitPerMinute, time.Minute, proxies))
		r.Use(middleware.SensitiveRateLimit(rateStore, cfg.RateLimitPerMinute, time.Minute, proxies))

		middleware.Mount(r, gate, authhandler.NewHandler(employees, tokens).Routes())
		middleware.Mount(r, gate, employeehandler.NewHandler(employees).Routes())
		middleware.Mount(r, gate, performancehandler.NewHandler(reviews).Routes())

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			api.Fail(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed", middleware.GetRequestID(r.Context()))
		})
	})

	router.Mount("/", dashboardHandler{staticPath: cfg.FrontendDir})

	return gziphandler.GzipHandler(router)
}
