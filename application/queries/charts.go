package queries

import (
	"strings"

	"gdpdash/pkg/utils"
)

// NormalizeCountryCode trims and upper-cases a country code as typed or clicked.
func NormalizeCountryCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// GetMapSpecQuery asks for the choropleth of one year.
type GetMapSpecQuery struct {
	Year      int `json:"year"`
	ColorMode int `json:"mode"`
}

// Validate validates the query
func (q GetMapSpecQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetHistogramSpecQuery asks for the overlaid distributions of two years.
type GetHistogramSpecQuery struct {
	YearA int `json:"year_a"`
	YearB int `json:"year_b"`
}

// Validate validates the query
func (q GetHistogramSpecQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetTrendSpecQuery asks for one country's trend. An empty code means the
// configured default country.
type GetTrendSpecQuery struct {
	Code string `json:"code,omitempty" validate:"omitempty,max=16,alphanum"`
}

// Validate validates the query
func (q GetTrendSpecQuery) Validate() error {
	return utils.ValidateStruct(q)
}
