package handlers

import (
	"context"
	"testing"

	"gdpdash/application/queries"
	"gdpdash/application/queries/bus"
	"gdpdash/domain/charts"
	"gdpdash/domain/dataset"
	apperrors "gdpdash/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupBus(t *testing.T) *bus.QueryBus {
	t.Helper()
	table, err := dataset.NewTable(1961, 3, []dataset.Row{
		{Code: "ABC", Name: "Landia", Values: []dataset.Value{dataset.Some(100), dataset.None(), dataset.Some(400)}},
		{Code: "PHL", Name: "Philippines", Values: []dataset.Value{dataset.Some(50), dataset.Some(60), dataset.Some(70)}},
	})
	require.NoError(t, err)

	b := bus.NewQueryBus()
	require.NoError(t, Register(b, Registration{
		Table:          table,
		DefaultCountry: "PHL",
		Logger:         zap.NewNop(),
	}))
	return b
}

func TestRegister_ChartQueries(t *testing.T) {
	ctx := context.Background()
	b := setupBus(t)

	res, err := b.Ask(ctx, queries.GetMapSpecQuery{Year: 1961, ColorMode: 1})
	require.NoError(t, err)
	mapSpec := res.(*charts.ChoroplethSpec)
	assert.Equal(t, "sequential", mapSpec.Data.ColorScale.Name)

	res, err = b.Ask(ctx, queries.GetHistogramSpecQuery{YearA: 1961, YearB: 1963})
	require.NoError(t, err)
	hist := res.(*charts.HistogramSpec)
	assert.Equal(t, 1963, hist.Traces[0].Year)

	res, err = b.Ask(ctx, queries.GetTrendSpecQuery{})
	require.NoError(t, err)
	assert.Equal(t, "Philippines GDP per capita trend", res.(*charts.LineSpec).Layout.Title)
}

func TestRegister_ErrorsKeepTheirType(t *testing.T) {
	ctx := context.Background()
	b := setupBus(t)

	_, err := b.Ask(ctx, queries.GetMapSpecQuery{Year: 1990})
	assert.True(t, apperrors.IsRange(err))

	_, err = b.Ask(ctx, queries.GetMapSpecQuery{Year: 1961, ColorMode: 3})
	assert.True(t, apperrors.IsInvalidMode(err))

	_, err = b.Ask(ctx, queries.GetTrendSpecQuery{Code: "NOPE"})
	assert.True(t, apperrors.IsNotFound(err))

	_, err = b.Ask(ctx, queries.GetMapSpecQuery{})
	assert.True(t, apperrors.IsRange(err), "year 0 is out of range like any other year")

	_, err = b.Ask(ctx, queries.GetHistogramSpecQuery{YearA: 0, YearB: 1961})
	assert.True(t, apperrors.IsRange(err))

	_, err = b.Ask(ctx, queries.GetTrendSpecQuery{Code: "A B"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestRegister_DatasetQueries(t *testing.T) {
	ctx := context.Background()
	b := setupBus(t)

	res, err := b.Ask(ctx, queries.GetDatasetSummaryQuery{})
	require.NoError(t, err)
	assert.Equal(t, &queries.DatasetSummary{YearMin: 1961, YearMax: 1963, Countries: 2, DefaultCountry: "PHL"}, res)

	res, err = b.Ask(ctx, queries.ListCountriesQuery{})
	require.NoError(t, err)
	assert.Len(t, res.(*queries.ListCountriesResult).Countries, 2)

	res, err = b.Ask(ctx, queries.GetCountrySeriesQuery{Code: "ABC"})
	require.NoError(t, err)
	series := res.(*queries.CountrySeriesResult)
	assert.Equal(t, "Landia", series.Name)
	assert.False(t, series.Series[1].Value.Valid)

	res, err = b.Ask(ctx, queries.GetYearColumnQuery{Year: 1962})
	require.NoError(t, err)
	assert.Equal(t, dataset.Some(60), res.(*queries.YearColumnResult).Values["PHL"])

	_, err = b.Ask(ctx, queries.GetYearColumnQuery{Year: 2000})
	assert.True(t, apperrors.IsRange(err))

	_, err = b.Ask(ctx, queries.GetYearColumnQuery{})
	assert.True(t, apperrors.IsRange(err))

	res, err = b.Ask(ctx, queries.GetCountrySeriesQuery{Code: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "ABC", res.(*queries.CountrySeriesResult).Code)
}

func TestHandlers_RejectForeignQuery(t *testing.T) {
	h := NewGetMapSpecHandler(nil, zap.NewNop())
	_, err := h.Handle(context.Background(), queries.GetTrendSpecQuery{})
	assert.Error(t, err)
}
