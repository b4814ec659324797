package handlers

import (
	"context"
	"fmt"

	"gdpdash/application/queries"
	"gdpdash/application/queries/bus"
	"gdpdash/domain/charts"
	"gdpdash/domain/dataset"
	apperrors "gdpdash/pkg/errors"

	"go.uber.org/zap"
)

// Table is the read surface of the GDP table the handlers use.
type Table interface {
	charts.Dataset
	Len() int
	YearColumn(year int) (map[string]dataset.Value, error)
}

func unexpected(q bus.Query) error {
	return apperrors.NewInternalError(fmt.Sprintf("unexpected query type %T", q))
}

// GetMapSpecHandler builds choropleth specifications
type GetMapSpecHandler struct {
	table  Table
	logger *zap.Logger
}

// NewGetMapSpecHandler creates a new map spec handler
func NewGetMapSpecHandler(table Table, logger *zap.Logger) *GetMapSpecHandler {
	return &GetMapSpecHandler{table: table, logger: logger}
}

// Handle executes the map spec query
func (h *GetMapSpecHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetMapSpecQuery)
	if !ok {
		return nil, unexpected(q)
	}

	spec, err := charts.BuildMapSpec(h.table, query.Year, query.ColorMode)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Map spec built",
		zap.Int("year", query.Year),
		zap.Int("mode", query.ColorMode),
		zap.Int("countries", len(spec.Data.Locations)),
	)
	return spec, nil
}

// GetHistogramSpecHandler builds histogram specifications
type GetHistogramSpecHandler struct {
	table  Table
	logger *zap.Logger
}

// NewGetHistogramSpecHandler creates a new histogram spec handler
func NewGetHistogramSpecHandler(table Table, logger *zap.Logger) *GetHistogramSpecHandler {
	return &GetHistogramSpecHandler{table: table, logger: logger}
}

// Handle executes the histogram spec query
func (h *GetHistogramSpecHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetHistogramSpecQuery)
	if !ok {
		return nil, unexpected(q)
	}

	spec, err := charts.BuildHistogramSpec(h.table, query.YearA, query.YearB)
	if err != nil {
		if apperrors.IsDataError(err) {
			h.logger.Warn("Histogram data violates transform preconditions",
				zap.Int("yearA", query.YearA),
				zap.Int("yearB", query.YearB),
				zap.Error(err),
			)
		}
		return nil, err
	}

	h.logger.Debug("Histogram spec built",
		zap.Int("yearA", query.YearA),
		zap.Int("yearB", query.YearB),
	)
	return spec, nil
}

// GetTrendSpecHandler builds line chart specifications
type GetTrendSpecHandler struct {
	table          Table
	defaultCountry string
	logger         *zap.Logger
}

// NewGetTrendSpecHandler creates a new trend spec handler. defaultCountry is charted
// when the query carries no code.
func NewGetTrendSpecHandler(table Table, defaultCountry string, logger *zap.Logger) *GetTrendSpecHandler {
	return &GetTrendSpecHandler{table: table, defaultCountry: defaultCountry, logger: logger}
}

// Handle executes the trend spec query
func (h *GetTrendSpecHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	query, ok := q.(queries.GetTrendSpecQuery)
	if !ok {
		return nil, unexpected(q)
	}

	spec, err := charts.BuildTrendSpec(h.table, queries.NormalizeCountryCode(query.Code), h.defaultCountry)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("Trend spec built",
		zap.String("requested", query.Code),
		zap.String("country", spec.Data.Code),
	)
	return spec, nil
}
