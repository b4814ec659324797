package rest

import (
	"encoding/json"
	"net/http"

	"gdpdash/application/dashboard"
	"gdpdash/application/queries"
	querybus "gdpdash/application/queries/bus"
	"gdpdash/interfaces/http/rest/handlers"
	"gdpdash/interfaces/http/rest/middleware"
	apperrors "gdpdash/pkg/errors"
	"gdpdash/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options tunes the router
type Options struct {
	EnableCORS     bool
	AllowedOrigins []string
	// Debug adds stack traces to error responses
	Debug bool
	// RenderRateLimit caps PNG renders per client per minute; zero disables it
	RenderRateLimit int
}

// Router creates and configures the HTTP router
type Router struct {
	queryBus   *querybus.QueryBus
	controller *dashboard.Controller
	metrics    *observability.Collector
	logger     *zap.Logger
	opts       Options
}

// NewRouter creates a new router instance. metrics may be nil, which disables
// /metrics and request instrumentation.
func NewRouter(
	queryBus *querybus.QueryBus,
	controller *dashboard.Controller,
	metrics *observability.Collector,
	logger *zap.Logger,
	opts Options,
) *Router {
	return &Router{
		queryBus:   queryBus,
		controller: controller,
		metrics:    metrics,
		logger:     logger,
		opts:       opts,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}
	router.Use(versionMiddleware)

	if rt.opts.EnableCORS {
		origins := rt.opts.AllowedOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	errorHandler := apperrors.NewErrorHandler(rt.logger, rt.opts.Debug)

	router.Route("/api/v1", func(r chi.Router) {
		datasetHandler := handlers.NewDatasetHandler(rt.queryBus, errorHandler, rt.logger)
		r.Get("/dataset", datasetHandler.GetSummary)
		r.Get("/countries", datasetHandler.ListCountries)
		r.Get("/countries/{code}/series", datasetHandler.GetCountrySeries)
		r.Get("/years/{year}", datasetHandler.GetYearColumn)

		r.Route("/charts", func(r chi.Router) {
			chartHandler := handlers.NewChartHandler(rt.queryBus, errorHandler, rt.logger)
			r.Get("/map", chartHandler.GetMap)
			r.Get("/histogram", chartHandler.GetHistogram)
			r.Get("/trend", chartHandler.GetTrend)

			r.Group(func(r chi.Router) {
				if rt.opts.RenderRateLimit > 0 {
					r.Use(middleware.RateLimit(rt.opts.RenderRateLimit, errorHandler))
				}
				r.Get("/histogram.png", chartHandler.GetHistogramPNG)
				r.Get("/trend.png", chartHandler.GetTrendPNG)
			})
		})

		dashboardHandler := handlers.NewDashboardHandler(rt.controller, errorHandler, rt.logger)
		r.Get("/dashboard", dashboardHandler.GetLayout)
		r.Route("/events", func(r chi.Router) {
			r.Post("/year-changed", dashboardHandler.YearChanged)
			r.Post("/map-clicked", dashboardHandler.MapClicked)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the table answers a summary query
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	result, err := rt.queryBus.Ask(req.Context(), queries.GetDatasetSummaryQuery{})
	if err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}

	summary := result.(*queries.DatasetSummary)
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ready",
		"countries": summary.Countries,
		"year_min":  summary.YearMin,
		"year_max":  summary.YearMax,
	})
}

// versionMiddleware adds API version headers to all responses
func versionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-API-Version", "v1")
		w.Header().Set("X-API-Latest", "v1")
		next.ServeHTTP(w, r)
	})
}
