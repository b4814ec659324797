package dashboard

import (
	"strconv"

	"gdpdash/domain/charts"
)

// Component ids shared with the page.
const (
	SliderMain    = "year-slider"
	SliderCompare = "year-slider-2"
	SliderTarget  = "year-slider-3"

	GraphMain      = "world-map"
	GraphCompare   = "world-map-2"
	GraphTarget    = "world-map-3"
	GraphHistogram = "histogram"
	GraphTrend     = "country-gdp-graph"
)

const (
	markFrom = 1970
	markTo   = 2010
	markStep = 10
)

// Slider describes one year slider and the map it drives.
type Slider struct {
	ID      string         `json:"id"`
	LabelID string         `json:"label_id"`
	Min     int            `json:"min"`
	Max     int            `json:"max"`
	Step    int            `json:"step"`
	Default int            `json:"default"`
	Marks   map[int]string `json:"marks"`
	MapID   string         `json:"map_id"`
	Mode    int            `json:"mode"`
}

// Graph is a figure placeholder on the page.
type Graph struct {
	ID   string      `json:"id"`
	Kind charts.Kind `json:"kind"`
}

// Binding lists the components an event source updates.
type Binding struct {
	Event   string   `json:"event"`
	Source  string   `json:"source"`
	Targets []string `json:"targets"`
}

// Layout is the static description of the dashboard page.
type Layout struct {
	Title    string    `json:"title"`
	Sliders  []Slider  `json:"sliders"`
	Graphs   []Graph   `json:"graphs"`
	Bindings []Binding `json:"bindings"`
}

// Slider returns the slider with the given id.
func (l Layout) Slider(id string) (Slider, bool) {
	for _, s := range l.Sliders {
		if s.ID == id {
			return s, true
		}
	}
	return Slider{}, false
}

// NewLayout builds the page layout for a table spanning [yearMin, yearMax].
func NewLayout(yearMin, yearMax int) Layout {
	slider := func(id, mapID string, def, mode int) Slider {
		return Slider{
			ID:      id,
			LabelID: id[:len("year-slider")] + "-value" + id[len("year-slider"):],
			Min:     yearMin,
			Max:     yearMax,
			Step:    1,
			Default: clamp(def, yearMin, yearMax),
			Marks:   marks(yearMin, yearMax),
			MapID:   mapID,
			Mode:    mode,
		}
	}

	sliders := []Slider{
		slider(SliderMain, GraphMain, 2017, charts.ModeDiverging),
		slider(SliderCompare, GraphCompare, 1961, charts.ModeSequential),
		slider(SliderTarget, GraphTarget, 2017, charts.ModeSequential),
	}

	bindings := make([]Binding, 0, len(sliders)+1)
	for _, s := range sliders {
		targets := []string{s.LabelID, s.MapID}
		if s.ID != SliderMain {
			targets = append(targets, GraphHistogram)
		}
		bindings = append(bindings, Binding{Event: "year-changed", Source: s.ID, Targets: targets})
	}
	bindings = append(bindings, Binding{Event: "map-clicked", Source: GraphMain, Targets: []string{GraphTrend}})

	return Layout{
		Title:   "GDP per capita",
		Sliders: sliders,
		Graphs: []Graph{
			{ID: GraphMain, Kind: charts.KindChoropleth},
			{ID: GraphTrend, Kind: charts.KindLine},
			{ID: GraphCompare, Kind: charts.KindChoropleth},
			{ID: GraphTarget, Kind: charts.KindChoropleth},
			{ID: GraphHistogram, Kind: charts.KindHistogram},
		},
		Bindings: bindings,
	}
}

func marks(yearMin, yearMax int) map[int]string {
	m := make(map[int]string)
	for y := markFrom; y <= markTo; y += markStep {
		if y >= yearMin && y <= yearMax {
			m[y] = strconv.Itoa(y)
		}
	}
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
