package di

import (
	"context"
	"fmt"

	"gdpdash/application/dashboard"
	querybus "gdpdash/application/queries/bus"
	queries_handlers "gdpdash/application/queries/handlers"
	"gdpdash/domain/charts"
	"gdpdash/domain/dataset"
	"gdpdash/infrastructure/config"
	apperrors "gdpdash/pkg/errors"
	"gdpdash/pkg/observability"

	"go.uber.org/zap"
)

const serviceName = "gdpdash"

// Version is stamped at build time with -ldflags "-X gdpdash/infrastructure/di.Version=..."
var Version = "dev"

// ProvideLogLevel creates the level shared by the logger and the config watcher
func ProvideLogLevel(cfg *config.Config) (zap.AtomicLevel, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return zap.AtomicLevel{}, err
	}
	return zap.NewAtomicLevelAt(lvl), nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config, level zap.AtomicLevel) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.IsProduction() || cfg.IsLambda {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(loggerFields(cfg)...), nil
}

// loggerFields tags every entry with the service and, on Lambda, the function name
func loggerFields(cfg *config.Config) []zap.Field {
	fields := []zap.Field{zap.String("service", serviceName)}
	if cfg.IsLambda && cfg.LambdaFunctionName != "" {
		fields = append(fields, zap.String("function", cfg.LambdaFunctionName))
	}
	return fields
}

// ProvideMetrics creates the Prometheus collector
func ProvideMetrics() *observability.Collector {
	return observability.NewCollector(serviceName)
}

// ProvideTracing creates the tracer provider; the cleanup flushes pending spans
func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.EnableTracing,
		ServiceName: serviceName,
		Version:     Version,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideTable loads the GDP table and checks the configured default country
func ProvideTable(cfg *config.Config, metrics *observability.Collector, logger *zap.Logger) (*dataset.Table, error) {
	table, err := dataset.Load(cfg.DataPath, dataset.WithSheet(cfg.DataSheet))
	if err != nil {
		logger.Error("Failed to load dataset",
			zap.String("path", cfg.DataPath),
			zap.Error(err),
		)
		return nil, err
	}

	if !table.Has(cfg.DefaultCountry) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("default country %s", cfg.DefaultCountry))
	}

	metrics.SetDataset(table.Len(), len(table.Years()))
	logger.Info("Dataset loaded",
		zap.String("path", cfg.DataPath),
		zap.Int("countries", table.Len()),
		zap.Int("year_min", table.YearMin()),
		zap.Int("year_max", table.YearMax()),
	)
	return table, nil
}

// ProvideInMemoryCache creates the chart cache; the cleanup stops its sweeper
func ProvideInMemoryCache(metrics *observability.Collector) (*InMemoryCache, func()) {
	cache := NewInMemoryCache(metrics)
	return cache, cache.Close
}

// ProvideQueryBus creates a query bus with registered handlers. Middlewares run
// tracing, then metrics, then the cache.
func ProvideQueryBus(
	cfg *config.Config,
	table *dataset.Table,
	cache *InMemoryCache,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	var common []querybus.Middleware
	if cfg.EnableTracing {
		common = append(common, querybus.NewTracingMiddleware(serviceName))
	}
	if cfg.EnableMetrics {
		common = append(common, querybus.NewMetricsMiddleware(metrics))
	}

	chartMiddlewares := append([]querybus.Middleware{}, common...)
	if cfg.EnableCache && cfg.CacheTTLSeconds > 0 {
		chartMiddlewares = append(chartMiddlewares, querybus.NewCachingMiddleware(cache, cfg.CacheTTLSeconds, cloneResult))
	}

	queryBus := querybus.NewQueryBus()
	err := queries_handlers.Register(queryBus, queries_handlers.Registration{
		Table:              table,
		DefaultCountry:     cfg.DefaultCountry,
		Logger:             logger,
		ChartMiddlewares:   chartMiddlewares,
		DatasetMiddlewares: common,
	})
	if err != nil {
		return nil, err
	}
	return queryBus, nil
}

// cloneResult gives every caller its own copy of a cached chart specification.
func cloneResult(v interface{}) interface{} {
	if spec, ok := v.(charts.Spec); ok {
		return spec.CloneSpec()
	}
	return v
}

// ProvideController creates the dashboard controller
func ProvideController(table *dataset.Table, queryBus *querybus.QueryBus, logger *zap.Logger) *dashboard.Controller {
	return dashboard.NewController(queryBus, table.YearMin(), table.YearMax(), logger)
}
