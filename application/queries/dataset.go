package queries

import (
	"gdpdash/domain/dataset"
	"gdpdash/pkg/utils"
)

// GetDatasetSummaryQuery asks for the year range and size of the loaded table.
type GetDatasetSummaryQuery struct{}

// Validate validates the query
func (q GetDatasetSummaryQuery) Validate() error { return nil }

// DatasetSummary describes the loaded table.
type DatasetSummary struct {
	YearMin        int    `json:"year_min"`
	YearMax        int    `json:"year_max"`
	Countries      int    `json:"countries"`
	DefaultCountry string `json:"default_country"`
}

// ListCountriesQuery asks for every country in file order.
type ListCountriesQuery struct{}

// Validate validates the query
func (q ListCountriesQuery) Validate() error { return nil }

// ListCountriesResult is the country list.
type ListCountriesResult struct {
	Countries []dataset.Country `json:"countries"`
}

// GetCountrySeriesQuery asks for the raw per-year values of one country.
type GetCountrySeriesQuery struct {
	Code string `json:"code" validate:"required,max=16,alphanum"`
}

// Validate validates the query
func (q GetCountrySeriesQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// CountrySeriesResult is one country's values, ascending by year.
type CountrySeriesResult struct {
	Code   string              `json:"code"`
	Name   string              `json:"name"`
	Series []dataset.YearValue `json:"series"`
}

// GetYearColumnQuery asks for every country's value in one year.
type GetYearColumnQuery struct {
	Year int `json:"year"`
}

// Validate validates the query
func (q GetYearColumnQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// YearColumnResult maps country code to value for one year.
type YearColumnResult struct {
	Year   int                      `json:"year"`
	Values map[string]dataset.Value `json:"values"`
}
