package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"emi-genie/internal/api/handler"
	mw "emi-genie/internal/api/middleware"
	"emi-genie/internal/config"
	"emi-genie/internal/domain/dispatch"
	"emi-genie/internal/domain/registry"
	"emi-genie/internal/domain/report"
)

func SetupRouter(registryService registry.Service, dispatchService dispatch.Service, reportService report.Service, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupAuthRoutes(router, cfg, logger)
	setupRegistryRoutes(router, registryService, dispatchService, cfg, logger)
	setupDispatchRoutes(router, dispatchService, cfg, logger)
	setupReportRoutes(router, reportService, cfg, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupAuthRoutes(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})
}

func setupRegistryRoutes(router *chi.Mux, svc registry.Service, dispatchSvc dispatch.Service, cfg *config.Config, logger *slog.Logger) {
	customerHandler := handler.NewCustomerHandler(svc, logger)
	loanHandler := handler.NewLoanHandler(svc, logger)
	dispatchHandler := handler.NewDispatchHandler(dispatchSvc, logger)

	router.Route("/customers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", customerHandler.CreateCustomer)
	})

	router.Route("/intake", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", customerHandler.Intake)
	})

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", loanHandler.CreateLoan)
		r.Get("/", loanHandler.ListLoans)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", loanHandler.GetLoan)
			r.Post("/paid", loanHandler.MarkPaid)
			r.Post("/reschedule", loanHandler.Reschedule)
			r.Get("/events", loanHandler.ListLoanEvents)
			r.Post("/call", dispatchHandler.Call)
			r.Post("/payment-link", dispatchHandler.PaymentLink)
		})
	})

	router.Route("/events", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/", loanHandler.ListAllEvents)
	})
}

func setupDispatchRoutes(router *chi.Mux, svc dispatch.Service, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewDispatchHandler(svc, logger)
	router.Route("/dispatch", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/overdue", h.DispatchOverdue)
		r.Post("/predue", h.DispatchPreDue)
	})
}

func setupReportRoutes(router *chi.Mux, svc report.Service, cfg *config.Config, logger *slog.Logger) {
	h := handler.NewReportHandler(svc, logger)
	router.Route("/reports", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/status-counts", h.StatusCounts)
		r.Get("/conversion", h.Conversion)
	})
}
