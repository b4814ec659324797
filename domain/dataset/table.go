// Package dataset holds the GDP per capita table: one row per country, one nullable
// value per year in a contiguous range. A Table is built once and never mutated, so it
// can be shared by any number of goroutines without locking.
package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	apperrors "gdpdash/pkg/errors"
)

// Value is a GDP per capita figure that may be missing for a year.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a present value.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// None returns a missing value.
func None() Value { return Value{} }

// Ptr returns nil for a missing value and a fresh pointer otherwise.
func (v Value) Ptr() *float64 {
	if !v.Valid {
		return nil
	}
	f := v.V
	return &f
}

// MarshalJSON encodes missing values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.V)
}

// YearValue pairs a year with its value.
type YearValue struct {
	Year  int   `json:"year"`
	Value Value `json:"value"`
}

// Country is a code and display name.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Row is the input shape used to build a Table. Values[i] belongs to year YearMin+i.
type Row struct {
	Code   string
	Name   string
	Values []Value
}

// Table is the immutable, code-indexed GDP table.
type Table struct {
	yearMin int
	yearMax int
	codes   []string
	names   []string
	values  [][]Value
	index   map[string]int
}

// NewTable validates rows against the table invariants and builds a Table.
// Every row must carry exactly yearCount values.
func NewTable(yearMin, yearCount int, rows []Row) (*Table, error) {
	if yearCount <= 0 {
		return nil, apperrors.NewSchemaError("table has no year columns")
	}

	t := &Table{
		yearMin: yearMin,
		yearMax: yearMin + yearCount - 1,
		codes:   make([]string, 0, len(rows)),
		names:   make([]string, 0, len(rows)),
		values:  make([][]Value, 0, len(rows)),
		index:   make(map[string]int, len(rows)),
	}

	for i, row := range rows {
		code := strings.TrimSpace(row.Code)
		if code == "" {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("row %d has an empty country code", i+1))
		}
		if _, dup := t.index[code]; dup {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("duplicate country code %q", code))
		}
		if len(row.Values) != yearCount {
			return nil, apperrors.NewSchemaError(
				fmt.Sprintf("country %q has %d values, expected %d", code, len(row.Values), yearCount))
		}

		vals := make([]Value, yearCount)
		for j, v := range row.Values {
			if v.Valid && (v.V < 0 || math.IsNaN(v.V) || math.IsInf(v.V, 0)) {
				return nil, apperrors.NewSchemaError(
					fmt.Sprintf("country %q has invalid value %v for %d", code, v.V, yearMin+j))
			}
			vals[j] = v
		}

		t.index[code] = len(t.codes)
		t.codes = append(t.codes, code)
		t.names = append(t.names, row.Name)
		t.values = append(t.values, vals)
	}

	return t, nil
}

// YearMin returns the first year in the table.
func (t *Table) YearMin() int { return t.yearMin }

// YearMax returns the last year in the table.
func (t *Table) YearMax() int { return t.yearMax }

// Len returns the number of countries.
func (t *Table) Len() int { return len(t.codes) }

// Years returns every year in range, ascending.
func (t *Table) Years() []int {
	years := make([]int, 0, t.yearMax-t.yearMin+1)
	for y := t.yearMin; y <= t.yearMax; y++ {
		years = append(years, y)
	}
	return years
}

// InRange reports whether year has a column.
func (t *Table) InRange(year int) bool {
	return year >= t.yearMin && year <= t.yearMax
}

// Has reports whether code is present.
func (t *Table) Has(code string) bool {
	_, ok := t.index[code]
	return ok
}

// Codes returns the country codes in file order.
func (t *Table) Codes() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}

// Countries returns code and name for every row in file order.
func (t *Table) Countries() []Country {
	out := make([]Country, len(t.codes))
	for i, code := range t.codes {
		out[i] = Country{Code: code, Name: t.names[i]}
	}
	return out
}

// CountryName returns the display name for code.
func (t *Table) CountryName(code string) (string, error) {
	i, ok := t.index[code]
	if !ok {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("country %q", code))
	}
	return t.names[i], nil
}

// Series returns one entry per year for code, ascending by year.
func (t *Table) Series(code string) ([]YearValue, error) {
	i, ok := t.index[code]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("country %q", code))
	}
	out := make([]YearValue, len(t.values[i]))
	for j, v := range t.values[i] {
		out[j] = YearValue{Year: t.yearMin + j, Value: v}
	}
	return out, nil
}

// YearColumn maps every country code to its value for year.
func (t *Table) YearColumn(year int) (map[string]Value, error) {
	if !t.InRange(year) {
		return nil, apperrors.NewRangeError(year, t.yearMin, t.yearMax)
	}
	j := year - t.yearMin
	out := make(map[string]Value, len(t.codes))
	for i, code := range t.codes {
		out[code] = t.values[i][j]
	}
	return out, nil
}

// ValuesForYear returns the values for year aligned with Codes().
func (t *Table) ValuesForYear(year int) ([]Value, error) {
	if !t.InRange(year) {
		return nil, apperrors.NewRangeError(year, t.yearMin, t.yearMax)
	}
	j := year - t.yearMin
	out := make([]Value, len(t.codes))
	for i := range t.codes {
		out[i] = t.values[i][j]
	}
	return out, nil
}
