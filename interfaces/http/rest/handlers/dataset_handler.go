package handlers

import (
	"net/http"

	"gdpdash/application/queries"
	querybus "gdpdash/application/queries/bus"
	apperrors "gdpdash/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DatasetHandler serves raw table lookups
type DatasetHandler struct {
	queryBus *querybus.QueryBus
	errors   *apperrors.ErrorHandler
	logger   *zap.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(queryBus *querybus.QueryBus, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *DatasetHandler {
	return &DatasetHandler{
		queryBus: queryBus,
		errors:   errorHandler,
		logger:   logger,
	}
}

// GetSummary handles GET /dataset
func (h *DatasetHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetDatasetSummaryQuery{})
}

// ListCountries handles GET /countries
func (h *DatasetHandler) ListCountries(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListCountriesQuery{})
}

// GetCountrySeries handles GET /countries/{code}/series
func (h *DatasetHandler) GetCountrySeries(w http.ResponseWriter, r *http.Request) {
	code := queries.NormalizeCountryCode(chi.URLParam(r, "code"))
	h.ask(w, r, queries.GetCountrySeriesQuery{Code: code})
}

// GetYearColumn handles GET /years/{year}
func (h *DatasetHandler) GetYearColumn(w http.ResponseWriter, r *http.Request) {
	year, err := parseInt("year", chi.URLParam(r, "year"))
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.ask(w, r, queries.GetYearColumnQuery{Year: year})
}

func (h *DatasetHandler) ask(w http.ResponseWriter, r *http.Request, q querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), q)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, result)
}
