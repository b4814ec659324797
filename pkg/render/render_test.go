package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"

	"gdpdash/domain/charts"
	"gdpdash/domain/dataset"
)

func fixture(t *testing.T) *dataset.Table {
	t.Helper()
	table, err := dataset.NewTable(1961, 3, []dataset.Row{
		{Code: "ABC", Name: "Landia", Values: []dataset.Value{dataset.Some(100), dataset.None(), dataset.Some(400)}},
		{Code: "PHL", Name: "Philippines", Values: []dataset.Value{dataset.Some(50), dataset.Some(60), dataset.Some(70)}},
		{Code: "XYZ", Name: "Otherland", Values: []dataset.Value{dataset.Some(2000), dataset.Some(2500), dataset.Some(3000)}},
	})
	require.NoError(t, err)
	return table
}

func TestHistogramPNG(t *testing.T) {
	spec, err := charts.BuildHistogramSpec(fixture(t), 1961, 1963)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, HistogramPNG(&buf, spec, 4*vg.Inch, 3*vg.Inch))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestHistogramPNG_DefaultSize(t *testing.T) {
	spec, err := charts.BuildHistogramSpec(fixture(t), 1961, 1961)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, HistogramPNG(&buf, spec, 0, 0))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, cfg.Height)
}

func TestTrendPNG_WithGap(t *testing.T) {
	spec, err := charts.BuildTrendSpec(fixture(t), "ABC", "PHL")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, TrendPNG(&buf, spec, 4*vg.Inch, 3*vg.Inch))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}
