package charts

import (
	"gdpdash/domain/dataset"
)

// DefaultCountry is the country charted before any map click. PHL is the fallback
// unless the service is configured with another code.
const DefaultCountry = "PHL"

// TrendTitle is the title of the trend chart for a country name.
func TrendTitle(name string) string {
	return name + " GDP per capita trend"
}

// BuildTrendSpec charts code over every year in range. An empty code resolves to
// fallback, or to DefaultCountry when fallback is empty too. Years without data keep
// their slot with a null Y.
func BuildTrendSpec(table Dataset, code, fallback string) (*LineSpec, error) {
	if code == "" {
		code = fallback
	}
	if code == "" {
		code = DefaultCountry
	}

	name, err := table.CountryName(code)
	if err != nil {
		return nil, err
	}
	series, err := table.Series(code)
	if err != nil {
		return nil, err
	}

	trace := LineTrace{
		Code: code,
		Name: name,
		X:    make([]int, len(series)),
		Y:    make([]dataset.Value, len(series)),
	}
	for i, p := range series {
		trace.X[i] = p.Year
		trace.Y[i] = p.Value
	}

	return &LineSpec{
		Type: KindLine,
		Data: trace,
		Layout: LineLayout{
			Title: TrendTitle(name),
			XAxis: Axis{Title: "year"},
			YAxis: Axis{Title: "GDP per capita (USD)"},
		},
	}, nil
}
