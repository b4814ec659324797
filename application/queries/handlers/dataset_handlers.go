package handlers

import (
	"context"

	"gdpdash/application/queries"
	"gdpdash/application/queries/bus"
)

// DatasetHandler answers the plain table lookups
type DatasetHandler struct {
	table          Table
	defaultCountry string
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(table Table, defaultCountry string) *DatasetHandler {
	return &DatasetHandler{table: table, defaultCountry: defaultCountry}
}

// Handle executes GetDatasetSummaryQuery, ListCountriesQuery, GetCountrySeriesQuery
// and GetYearColumnQuery.
func (h *DatasetHandler) Handle(ctx context.Context, q bus.Query) (interface{}, error) {
	switch query := q.(type) {
	case queries.GetDatasetSummaryQuery:
		return &queries.DatasetSummary{
			YearMin:        h.table.YearMin(),
			YearMax:        h.table.YearMax(),
			Countries:      h.table.Len(),
			DefaultCountry: h.defaultCountry,
		}, nil

	case queries.ListCountriesQuery:
		return &queries.ListCountriesResult{Countries: h.table.Countries()}, nil

	case queries.GetCountrySeriesQuery:
		code := queries.NormalizeCountryCode(query.Code)
		name, err := h.table.CountryName(code)
		if err != nil {
			return nil, err
		}
		series, err := h.table.Series(code)
		if err != nil {
			return nil, err
		}
		return &queries.CountrySeriesResult{Code: code, Name: name, Series: series}, nil

	case queries.GetYearColumnQuery:
		col, err := h.table.YearColumn(query.Year)
		if err != nil {
			return nil, err
		}
		return &queries.YearColumnResult{Year: query.Year, Values: col}, nil

	default:
		return nil, unexpected(q)
	}
}
