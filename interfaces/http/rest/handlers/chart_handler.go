package handlers

import (
	"bytes"
	"net/http"

	"gdpdash/application/queries"
	querybus "gdpdash/application/queries/bus"
	"gdpdash/domain/charts"
	apperrors "gdpdash/pkg/errors"
	"gdpdash/pkg/render"

	"go.uber.org/zap"
)

// ChartHandler serves chart specifications
type ChartHandler struct {
	queryBus *querybus.QueryBus
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewChartHandler creates a new chart handler
func NewChartHandler(queryBus *querybus.QueryBus, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *ChartHandler {
	return &ChartHandler{
		queryBus: queryBus,
		errors:   errorHandler,
		logger:   logger,
	}
}

// GetMap handles GET /charts/map?year=&mode=
func (h *ChartHandler) GetMap(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year")
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	mode, err := optionalIntParam(r, "mode", charts.ModeDiverging)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetMapSpecQuery{Year: year, ColorMode: mode})
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// GetHistogram handles GET /charts/histogram?year_a=&year_b=
func (h *ChartHandler) GetHistogram(w http.ResponseWriter, r *http.Request) {
	spec, err := h.histogram(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, spec)
}

// GetHistogramPNG handles GET /charts/histogram.png?year_a=&year_b=
func (h *ChartHandler) GetHistogramPNG(w http.ResponseWriter, r *http.Request) {
	spec, err := h.histogram(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.HistogramPNG(&buf, spec, render.DefaultWidth, render.DefaultHeight); err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to render histogram").WithCause(err))
		return
	}
	h.writePNG(w, buf.Bytes())
}

// GetTrend handles GET /charts/trend?code=
func (h *ChartHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	spec, err := h.trend(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, spec)
}

// GetTrendPNG handles GET /charts/trend.png?code=
func (h *ChartHandler) GetTrendPNG(w http.ResponseWriter, r *http.Request) {
	spec, err := h.trend(r)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.TrendPNG(&buf, spec, render.DefaultWidth, render.DefaultHeight); err != nil {
		h.errors.Handle(w, r, apperrors.NewInternalError("failed to render trend").WithCause(err))
		return
	}
	h.writePNG(w, buf.Bytes())
}

func (h *ChartHandler) histogram(r *http.Request) (*charts.HistogramSpec, error) {
	yearA, err := intParam(r, "year_a")
	if err != nil {
		return nil, err
	}
	yearB, err := intParam(r, "year_b")
	if err != nil {
		return nil, err
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetHistogramSpecQuery{YearA: yearA, YearB: yearB})
	if err != nil {
		return nil, err
	}
	return result.(*charts.HistogramSpec), nil
}

func (h *ChartHandler) trend(r *http.Request) (*charts.LineSpec, error) {
	code := queries.NormalizeCountryCode(r.URL.Query().Get("code"))

	result, err := h.queryBus.Ask(r.Context(), queries.GetTrendSpecQuery{Code: code})
	if err != nil {
		return nil, err
	}
	return result.(*charts.LineSpec), nil
}

func (h *ChartHandler) writePNG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("Failed to write image", zap.Error(err))
	}
}
