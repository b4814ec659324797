package charts

import (
	"fmt"

	"gdpdash/domain/dataset"
	apperrors "gdpdash/pkg/errors"
)

const (
	sourceCitation = `Source: <a href="http://databank.worldbank.org/data/source/world-development-indicators#">Worldbank</a>`
	noDataColor    = "rgb(220, 220, 220)"
	outlineColor   = "rgb(180, 180, 180)"
	oceanColor     = "#0eb3ef"
)

// MapTitle is the title of the map for year.
func MapTitle(year int) string {
	return fmt.Sprintf("GDP per capita (%d)<br>%s", year, sourceCitation)
}

// BuildMapSpec builds the choropleth for year using the colour preset selected by
// colorMode. Every country in the table gets exactly one entry, in table order;
// countries without data for year carry a null Z.
func BuildMapSpec(table Dataset, year, colorMode int) (*ChoroplethSpec, error) {
	if year < table.YearMin() || year > table.YearMax() {
		return nil, apperrors.NewRangeError(year, table.YearMin(), table.YearMax())
	}
	scale, err := ColorScaleFor(colorMode)
	if err != nil {
		return nil, err
	}

	values, err := table.ValuesForYear(year)
	if err != nil {
		return nil, err
	}
	countries := table.Countries()

	data := ChoroplethData{
		Locations:      make([]string, len(countries)),
		Z:              make([]dataset.Value, len(countries)),
		Text:           make([]string, len(countries)),
		ColorScale:     scale,
		AutoColorScale: false,
		ReverseScale:   true,
		NoDataColor:    noDataColor,
		Marker:         Marker{Line: MarkerLine{Color: outlineColor, Width: 0.9}},
		ColorBar: ColorBar{
			AutoTick:      false,
			TickPrefix:    "$",
			LenMode:       "fraction",
			Len:           0.8,
			ThicknessMode: "pixels",
			Thickness:     15,
			XAnchor:       "right",
			X:             0,
			Y:             0.5,
		},
	}
	for i, c := range countries {
		data.Locations[i] = c.Code
		data.Text[i] = c.Name
		data.Z[i] = values[i]
	}

	return &ChoroplethSpec{
		Type: KindChoropleth,
		Year: year,
		Mode: colorMode,
		Data: data,
		Layout: MapLayout{
			Title: MapTitle(year),
			Geo: Geo{
				ShowFrame:      true,
				ShowCoastlines: false,
				Projection:     Projection{Type: "mercator"},
				ShowOcean:      true,
				OceanColor:     oceanColor,
			},
		},
	}, nil
}
