package handlers

import (
	"net/http"

	"gdpdash/application/dashboard"
	apperrors "gdpdash/pkg/errors"

	"go.uber.org/zap"
)

// UpdatesResponse wraps the component updates produced by an event
type UpdatesResponse struct {
	Updates []dashboard.Update `json:"updates"`
}

// DashboardHandler exposes the page layout and forwards page events to the controller
type DashboardHandler struct {
	controller *dashboard.Controller
	errors     *apperrors.ErrorHandler
	logger     *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(controller *dashboard.Controller, errorHandler *apperrors.ErrorHandler, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		controller: controller,
		errors:     errorHandler,
		logger:     logger,
	}
}

// GetLayout handles GET /dashboard
func (h *DashboardHandler) GetLayout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, h.controller.Layout())
}

// YearChanged handles POST /events/year-changed
func (h *DashboardHandler) YearChanged(w http.ResponseWriter, r *http.Request) {
	var ev dashboard.YearChangedEvent
	if err := decodeJSON(r, &ev); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	updates, err := h.controller.OnYearChanged(r.Context(), ev)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, UpdatesResponse{Updates: updates})
}

// MapClicked handles POST /events/map-clicked
func (h *DashboardHandler) MapClicked(w http.ResponseWriter, r *http.Request) {
	var ev dashboard.MapClickedEvent
	if err := decodeJSON(r, &ev); err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	updates, err := h.controller.OnMapClicked(r.Context(), ev)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, UpdatesResponse{Updates: updates})
}
