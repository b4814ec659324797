package handlers

import (
	"fmt"

	"gdpdash/application/queries"
	"gdpdash/application/queries/bus"

	"go.uber.org/zap"
)

// Registration carries what the handlers need. ChartMiddlewares wrap the chart
// builders and DatasetMiddlewares wrap the table lookups; either may be empty.
type Registration struct {
	Table              Table
	DefaultCountry     string
	Logger             *zap.Logger
	ChartMiddlewares   []bus.Middleware
	DatasetMiddlewares []bus.Middleware
}

// Register wires every query handler into b.
func Register(b *bus.QueryBus, reg Registration) error {
	logger := reg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	datasetHandler := NewDatasetHandler(reg.Table, reg.DefaultCountry)

	entries := []struct {
		query       bus.Query
		handler     bus.QueryHandler
		middlewares []bus.Middleware
	}{
		{queries.GetMapSpecQuery{}, NewGetMapSpecHandler(reg.Table, logger), reg.ChartMiddlewares},
		{queries.GetHistogramSpecQuery{}, NewGetHistogramSpecHandler(reg.Table, logger), reg.ChartMiddlewares},
		{queries.GetTrendSpecQuery{}, NewGetTrendSpecHandler(reg.Table, reg.DefaultCountry, logger), reg.ChartMiddlewares},
		{queries.GetDatasetSummaryQuery{}, datasetHandler, reg.DatasetMiddlewares},
		{queries.ListCountriesQuery{}, datasetHandler, reg.DatasetMiddlewares},
		{queries.GetCountrySeriesQuery{}, datasetHandler, reg.DatasetMiddlewares},
		{queries.GetYearColumnQuery{}, datasetHandler, reg.DatasetMiddlewares},
	}

	for _, e := range entries {
		if err := b.Register(e.query, e.handler, e.middlewares...); err != nil {
			return fmt.Errorf("register %T: %w", e.query, err)
		}
	}
	return nil
}
