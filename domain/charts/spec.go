// Package charts turns the GDP table into declarative chart specifications. Every
// builder is a pure function of its arguments: same table, same inputs, same spec.
package charts

import (
	"gdpdash/domain/dataset"
)

// Kind discriminates the chart specification variants.
type Kind string

const (
	KindChoropleth Kind = "choropleth"
	KindHistogram  Kind = "histogram"
	KindLine       Kind = "line"
)

// Spec is implemented by ChoroplethSpec, HistogramSpec and LineSpec.
type Spec interface {
	SpecKind() Kind
	// CloneSpec returns a deep copy the caller may own.
	CloneSpec() Spec
}

// Dataset is the read-only view of the GDP table the builders need.
type Dataset interface {
	YearMin() int
	YearMax() int
	Years() []int
	Codes() []string
	Countries() []dataset.Country
	CountryName(code string) (string, error)
	Series(code string) ([]dataset.YearValue, error)
	ValuesForYear(year int) ([]dataset.Value, error)
}

// Axis carries an axis title.
type Axis struct {
	Title string `json:"title"`
}

// ChoroplethSpec describes a world map coloured by GDP per capita.
type ChoroplethSpec struct {
	Type   Kind           `json:"type"`
	Year   int            `json:"year"`
	Mode   int            `json:"mode"`
	Data   ChoroplethData `json:"data"`
	Layout MapLayout      `json:"layout"`
}

// ChoroplethData is the per-country payload. Locations, Z and Text are aligned.
type ChoroplethData struct {
	Locations      []string        `json:"locations"`
	Z              []dataset.Value `json:"z"`
	Text           []string        `json:"text"`
	ColorScale     ColorScale      `json:"colorscale"`
	AutoColorScale bool            `json:"autocolorscale"`
	ReverseScale   bool            `json:"reversescale"`
	// NoDataColor is what a renderer must paint entries whose Z is null.
	NoDataColor string   `json:"nodatacolor"`
	Marker      Marker   `json:"marker"`
	ColorBar    ColorBar `json:"colorbar"`
}

// Marker styles country outlines.
type Marker struct {
	Line MarkerLine `json:"line"`
}

// MarkerLine is an outline colour and width.
type MarkerLine struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// ColorBar places the colour legend.
type ColorBar struct {
	AutoTick      bool    `json:"autotick"`
	TickPrefix    string  `json:"tickprefix"`
	LenMode       string  `json:"lenmode"`
	Len           float64 `json:"len"`
	ThicknessMode string  `json:"thicknessmode"`
	Thickness     int     `json:"thickness"`
	XAnchor       string  `json:"xanchor"`
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
}

// MapLayout is the title and geographic frame of a map.
type MapLayout struct {
	Title string `json:"title"`
	Geo   Geo    `json:"geo"`
}

// Geo holds projection metadata.
type Geo struct {
	ShowFrame      bool       `json:"showframe"`
	ShowCoastlines bool       `json:"showcoastlines"`
	Projection     Projection `json:"projection"`
	ShowOcean      bool       `json:"showocean"`
	OceanColor     string     `json:"oceancolor"`
}

// Projection names a map projection.
type Projection struct {
	Type string `json:"type"`
}

// SpecKind implements Spec.
func (s *ChoroplethSpec) SpecKind() Kind { return KindChoropleth }

// CloneSpec implements Spec.
func (s *ChoroplethSpec) CloneSpec() Spec {
	c := *s
	c.Data.Locations = append([]string(nil), s.Data.Locations...)
	c.Data.Z = append([]dataset.Value(nil), s.Data.Z...)
	c.Data.Text = append([]string(nil), s.Data.Text...)
	c.Data.ColorScale = s.Data.ColorScale.clone()
	return &c
}

// HistogramSpec overlays the distributions of two years.
type HistogramSpec struct {
	Type   Kind             `json:"type"`
	Traces []HistogramTrace `json:"traces"`
	Layout HistogramLayout  `json:"layout"`
}

// HistogramTrace is one year's min-max scaled, log-transformed series.
// X and Codes are aligned; Counts has one entry per bin of XBins.
type HistogramTrace struct {
	Name    string    `json:"name"`
	Year    int       `json:"year"`
	X       []float64 `json:"x"`
	Codes   []string  `json:"codes"`
	Opacity float64   `json:"opacity"`
	XBins   XBins     `json:"xbins"`
	Counts  []int     `json:"counts"`
}

// XBins is a fixed binning grid.
type XBins struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Size  float64 `json:"size"`
}

// HistogramLayout is the title, axes and bar mode of a histogram.
type HistogramLayout struct {
	Title   string `json:"title"`
	XAxis   Axis   `json:"xaxis"`
	YAxis   Axis   `json:"yaxis"`
	BarMode string `json:"barmode"`
}

// SpecKind implements Spec.
func (s *HistogramSpec) SpecKind() Kind { return KindHistogram }

// CloneSpec implements Spec.
func (s *HistogramSpec) CloneSpec() Spec {
	c := *s
	c.Traces = make([]HistogramTrace, len(s.Traces))
	for i, tr := range s.Traces {
		tr.X = append([]float64(nil), tr.X...)
		tr.Codes = append([]string(nil), tr.Codes...)
		tr.Counts = append([]int(nil), tr.Counts...)
		c.Traces[i] = tr
	}
	return &c
}

// LineSpec is one country's GDP per capita over every year in range.
type LineSpec struct {
	Type   Kind       `json:"type"`
	Data   LineTrace  `json:"data"`
	Layout LineLayout `json:"layout"`
}

// LineTrace has one Y per X. Missing years stay in place as null.
type LineTrace struct {
	Code string          `json:"code"`
	Name string          `json:"name"`
	X    []int           `json:"x"`
	Y    []dataset.Value `json:"y"`
}

// LineLayout is the title and axes of a line chart.
type LineLayout struct {
	Title string `json:"title"`
	XAxis Axis   `json:"xaxis"`
	YAxis Axis   `json:"yaxis"`
}

// SpecKind implements Spec.
func (s *LineSpec) SpecKind() Kind { return KindLine }

// CloneSpec implements Spec.
func (s *LineSpec) CloneSpec() Spec {
	c := *s
	c.Data.X = append([]int(nil), s.Data.X...)
	c.Data.Y = append([]dataset.Value(nil), s.Data.Y...)
	return &c
}
