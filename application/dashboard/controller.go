// Package dashboard binds the page's sliders and maps to the chart queries.
package dashboard

import (
	"context"
	"fmt"
	"strconv"

	"gdpdash/application/queries"
	"gdpdash/application/queries/bus"
	"gdpdash/domain/charts"
	apperrors "gdpdash/pkg/errors"
	"gdpdash/pkg/utils"

	"go.uber.org/zap"
)

// Asker dispatches queries; *bus.QueryBus satisfies it.
type Asker interface {
	Ask(ctx context.Context, query bus.Query) (interface{}, error)
}

// UpdateKind tells the page how to apply an update.
type UpdateKind string

const (
	UpdateLabel  UpdateKind = "label"
	UpdateFigure UpdateKind = "figure"
)

// UpdateError is shown in place of a figure that could not be built from the data.
type UpdateError struct {
	Type    apperrors.ErrorType `json:"type"`
	Message string              `json:"message"`
}

// Update replaces the content of one page component.
type Update struct {
	Target string       `json:"target"`
	Kind   UpdateKind   `json:"kind"`
	Text   string       `json:"text,omitempty"`
	Figure charts.Spec  `json:"figure,omitempty"`
	Error  *UpdateError `json:"error,omitempty"`
}

// YearChangedEvent is emitted when a slider moves. Sliders carries the current
// value of the other sliders; missing entries fall back to their defaults.
type YearChangedEvent struct {
	SliderID string         `json:"slider_id" validate:"required"`
	Year     int            `json:"year"`
	Sliders  map[string]int `json:"sliders,omitempty"`
}

// Validate validates the event
func (e YearChangedEvent) Validate() error {
	return utils.ValidateStruct(e)
}

// MapClickedEvent is emitted when a country is clicked. An empty code selects
// the default country.
type MapClickedEvent struct {
	MapID       string `json:"map_id" validate:"required"`
	CountryCode string `json:"country_code,omitempty" validate:"omitempty,max=16,alphanum"`
}

// Validate validates the event
func (e MapClickedEvent) Validate() error {
	return utils.ValidateStruct(e)
}

type yearHandler func(ctx context.Context, ev YearChangedEvent) ([]Update, error)
type clickHandler func(ctx context.Context, ev MapClickedEvent) ([]Update, error)

// Controller turns page events into component updates. It holds no mutable state;
// every event carries what is needed to answer it.
type Controller struct {
	queries Asker
	layout  Layout
	onYear  map[string]yearHandler
	onClick map[string]clickHandler
	logger  *zap.Logger
}

// NewController creates a controller for a table spanning [yearMin, yearMax].
func NewController(queries Asker, yearMin, yearMax int, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		queries: queries,
		layout:  NewLayout(yearMin, yearMax),
		logger:  logger,
	}

	main, _ := c.layout.Slider(SliderMain)
	compare, _ := c.layout.Slider(SliderCompare)
	target, _ := c.layout.Slider(SliderTarget)

	c.onYear = map[string]yearHandler{
		SliderMain:    c.sliderHandler(main, false),
		SliderCompare: c.sliderHandler(compare, true),
		SliderTarget:  c.sliderHandler(target, true),
	}
	c.onClick = map[string]clickHandler{
		GraphMain: c.trend,
	}
	return c
}

// Layout returns the page description.
func (c *Controller) Layout() Layout {
	return c.layout
}

// OnYearChanged answers a slider move with the label, map and, for the comparison
// sliders, histogram updates.
func (c *Controller) OnYearChanged(ctx context.Context, ev YearChangedEvent) ([]Update, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	h, ok := c.onYear[ev.SliderID]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown slider %q", ev.SliderID))
	}
	return h(ctx, ev)
}

// OnMapClicked answers a click on a bound map with the trend update.
func (c *Controller) OnMapClicked(ctx context.Context, ev MapClickedEvent) ([]Update, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	h, ok := c.onClick[ev.MapID]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("map %q has no click binding", ev.MapID))
	}
	return h(ctx, ev)
}

func (c *Controller) sliderHandler(s Slider, withHistogram bool) yearHandler {
	return func(ctx context.Context, ev YearChangedEvent) ([]Update, error) {
		updates := []Update{{Target: s.LabelID, Kind: UpdateLabel, Text: strconv.Itoa(ev.Year)}}

		mapUpdate, err := c.figure(ctx, s.MapID, queries.GetMapSpecQuery{Year: ev.Year, ColorMode: s.Mode})
		if err != nil {
			return nil, err
		}
		updates = append(updates, mapUpdate)

		if withHistogram {
			yearA := c.sliderValue(SliderCompare, ev)
			yearB := c.sliderValue(SliderTarget, ev)
			histUpdate, err := c.figure(ctx, GraphHistogram, queries.GetHistogramSpecQuery{YearA: yearA, YearB: yearB})
			if err != nil {
				return nil, err
			}
			updates = append(updates, histUpdate)
		}

		c.logger.Debug("Year changed",
			zap.String("slider", ev.SliderID),
			zap.Int("year", ev.Year),
			zap.Int("updates", len(updates)),
		)
		return updates, nil
	}
}

func (c *Controller) trend(ctx context.Context, ev MapClickedEvent) ([]Update, error) {
	u, err := c.figure(ctx, GraphTrend, queries.GetTrendSpecQuery{Code: queries.NormalizeCountryCode(ev.CountryCode)})
	if err != nil {
		return nil, err
	}
	return []Update{u}, nil
}

// sliderValue resolves a slider's current year: the event's own slider wins, then the
// reported state, then the layout default.
func (c *Controller) sliderValue(id string, ev YearChangedEvent) int {
	if ev.SliderID == id {
		return ev.Year
	}
	if v, ok := ev.Sliders[id]; ok {
		return v
	}
	s, _ := c.layout.Slider(id)
	return s.Default
}

// figure runs a chart query. Data errors become a visible fallback on the target
// instead of failing the whole event.
func (c *Controller) figure(ctx context.Context, target string, q bus.Query) (Update, error) {
	res, err := c.queries.Ask(ctx, q)
	if err != nil {
		if apperrors.IsDataError(err) {
			appErr := apperrors.GetAppError(err)
			c.logger.Warn("Figure replaced by fallback",
				zap.String("target", target),
				zap.Error(err),
			)
			return Update{
				Target: target,
				Kind:   UpdateFigure,
				Error:  &UpdateError{Type: appErr.Type, Message: appErr.Message},
			}, nil
		}
		return Update{}, err
	}

	spec, ok := res.(charts.Spec)
	if !ok {
		return Update{}, apperrors.NewInternalError(fmt.Sprintf("query %T returned %T", q, res))
	}
	return Update{Target: target, Kind: UpdateFigure, Figure: spec}, nil
}
