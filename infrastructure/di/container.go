package di

import (
	"gdpdash/application/dashboard"
	querybus "gdpdash/application/queries/bus"
	"gdpdash/domain/dataset"
	"gdpdash/infrastructure/config"
	"gdpdash/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	LogLevel   zap.AtomicLevel
	Logger     *zap.Logger
	Metrics    *observability.Collector
	Tracing    *observability.TracerProvider
	Table      *dataset.Table
	Cache      *InMemoryCache
	QueryBus   *querybus.QueryBus
	Controller *dashboard.Controller
}
