package dashboard

import (
	"context"
	"testing"

	"gdpdash/application/queries/bus"
	"gdpdash/application/queries/handlers"
	"gdpdash/domain/charts"
	"gdpdash/domain/dataset"
	apperrors "gdpdash/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 1962 has a single reported value, so its distribution is degenerate.
func setupController(t *testing.T) *Controller {
	t.Helper()
	table, err := dataset.NewTable(1961, 3, []dataset.Row{
		{Code: "ABC", Name: "Landia", Values: []dataset.Value{dataset.Some(100), dataset.None(), dataset.Some(400)}},
		{Code: "PHL", Name: "Philippines", Values: []dataset.Value{dataset.Some(50), dataset.Some(60), dataset.Some(70)}},
	})
	require.NoError(t, err)

	b := bus.NewQueryBus()
	require.NoError(t, handlers.Register(b, handlers.Registration{
		Table:          table,
		DefaultCountry: "PHL",
		Logger:         zap.NewNop(),
	}))
	return NewController(b, table.YearMin(), table.YearMax(), zap.NewNop())
}

func TestNewLayout(t *testing.T) {
	layout := NewLayout(1961, 2017)

	require.Len(t, layout.Sliders, 3)
	main, ok := layout.Slider(SliderMain)
	require.True(t, ok)
	assert.Equal(t, "year-slider-value", main.LabelID)
	assert.Equal(t, 2017, main.Default)
	assert.Equal(t, GraphMain, main.MapID)
	assert.Equal(t, charts.ModeDiverging, main.Mode)
	assert.Equal(t, map[int]string{1970: "1970", 1980: "1980", 1990: "1990", 2000: "2000", 2010: "2010"}, main.Marks)

	compare, _ := layout.Slider(SliderCompare)
	assert.Equal(t, "year-slider-value-2", compare.LabelID)
	assert.Equal(t, 1961, compare.Default)
	assert.Equal(t, charts.ModeSequential, compare.Mode)

	target, _ := layout.Slider(SliderTarget)
	assert.Equal(t, "year-slider-value-3", target.LabelID)
	assert.Equal(t, GraphTarget, target.MapID)

	_, ok = layout.Slider("nope")
	assert.False(t, ok)

	last := layout.Bindings[len(layout.Bindings)-1]
	assert.Equal(t, Binding{Event: "map-clicked", Source: GraphMain, Targets: []string{GraphTrend}}, last)
}

func TestNewLayout_ClampsDefaults(t *testing.T) {
	layout := NewLayout(1961, 1963)
	main, _ := layout.Slider(SliderMain)
	assert.Equal(t, 1963, main.Default)
	assert.Empty(t, main.Marks)
}

func TestOnYearChanged_MainSlider(t *testing.T) {
	c := setupController(t)

	updates, err := c.OnYearChanged(context.Background(), YearChangedEvent{SliderID: SliderMain, Year: 1962})
	require.NoError(t, err)
	require.Len(t, updates, 2)

	assert.Equal(t, Update{Target: "year-slider-value", Kind: UpdateLabel, Text: "1962"}, updates[0])
	assert.Equal(t, GraphMain, updates[1].Target)
	spec, ok := updates[1].Figure.(*charts.ChoroplethSpec)
	require.True(t, ok)
	assert.Equal(t, 1962, spec.Year)
	assert.Equal(t, "diverging", spec.Data.ColorScale.Name)
}

func TestOnYearChanged_ComparisonSliders(t *testing.T) {
	c := setupController(t)

	updates, err := c.OnYearChanged(context.Background(), YearChangedEvent{
		SliderID: SliderCompare,
		Year:     1961,
		Sliders:  map[string]int{SliderTarget: 1963},
	})
	require.NoError(t, err)
	require.Len(t, updates, 3)

	assert.Equal(t, "year-slider-value-2", updates[0].Target)
	assert.Equal(t, GraphCompare, updates[1].Target)
	assert.Equal(t, "sequential", updates[1].Figure.(*charts.ChoroplethSpec).Data.ColorScale.Name)

	assert.Equal(t, GraphHistogram, updates[2].Target)
	hist, ok := updates[2].Figure.(*charts.HistogramSpec)
	require.True(t, ok)
	assert.Equal(t, 1963, hist.Traces[0].Year)
	assert.Equal(t, 1961, hist.Traces[1].Year)
}

func TestOnYearChanged_OtherSliderFallsBackToDefault(t *testing.T) {
	c := setupController(t)

	updates, err := c.OnYearChanged(context.Background(), YearChangedEvent{SliderID: SliderTarget, Year: 1963})
	require.NoError(t, err)
	require.Len(t, updates, 3)

	hist := updates[2].Figure.(*charts.HistogramSpec)
	assert.Equal(t, 1963, hist.Traces[0].Year)
	assert.Equal(t, 1961, hist.Traces[1].Year)
}

func TestOnYearChanged_DegenerateHistogramFallsBack(t *testing.T) {
	c := setupController(t)

	updates, err := c.OnYearChanged(context.Background(), YearChangedEvent{SliderID: SliderCompare, Year: 1962})
	require.NoError(t, err)
	require.Len(t, updates, 3)

	assert.NotNil(t, updates[1].Figure)
	assert.Nil(t, updates[1].Error)

	assert.Nil(t, updates[2].Figure)
	require.NotNil(t, updates[2].Error)
	assert.Equal(t, apperrors.ErrorTypeDegenerateDistribution, updates[2].Error.Type)
}

func TestOnYearChanged_Errors(t *testing.T) {
	c := setupController(t)
	ctx := context.Background()

	_, err := c.OnYearChanged(ctx, YearChangedEvent{SliderID: SliderMain, Year: 1990})
	assert.True(t, apperrors.IsRange(err))

	_, err = c.OnYearChanged(ctx, YearChangedEvent{SliderID: "year-slider-9", Year: 1962})
	assert.True(t, apperrors.IsValidation(err))

	_, err = c.OnYearChanged(ctx, YearChangedEvent{Year: 1962})
	assert.True(t, apperrors.IsValidation(err))

	_, err = c.OnYearChanged(ctx, YearChangedEvent{SliderID: SliderMain})
	assert.True(t, apperrors.IsRange(err), "year 0 is out of range like any other year")
}

func TestOnMapClicked(t *testing.T) {
	c := setupController(t)
	ctx := context.Background()

	updates, err := c.OnMapClicked(ctx, MapClickedEvent{MapID: GraphMain, CountryCode: "ABC"})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, GraphTrend, updates[0].Target)
	line := updates[0].Figure.(*charts.LineSpec)
	assert.Equal(t, "Landia GDP per capita trend", line.Layout.Title)
	assert.False(t, line.Data.Y[1].Valid)

	updates, err = c.OnMapClicked(ctx, MapClickedEvent{MapID: GraphMain})
	require.NoError(t, err)
	assert.Equal(t, "PHL", updates[0].Figure.(*charts.LineSpec).Data.Code)

	updates, err = c.OnMapClicked(ctx, MapClickedEvent{MapID: GraphMain, CountryCode: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "ABC", updates[0].Figure.(*charts.LineSpec).Data.Code)
}

func TestOnMapClicked_Errors(t *testing.T) {
	c := setupController(t)
	ctx := context.Background()

	_, err := c.OnMapClicked(ctx, MapClickedEvent{MapID: GraphCompare, CountryCode: "ABC"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = c.OnMapClicked(ctx, MapClickedEvent{MapID: GraphMain, CountryCode: "NOPE"})
	assert.True(t, apperrors.IsNotFound(err))
}
