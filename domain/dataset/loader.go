package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "gdpdash/pkg/errors"

	"github.com/xuri/excelize/v2"
)

// Column headers the loader looks for.
const (
	CodeColumn = "Country Code"
	NameColumn = "Country Name"
)

var missingLiterals = map[string]bool{
	"":     true,
	"NaN":  true,
	"nan":  true,
	"NA":   true,
	"null": true,
	"NULL": true,
}

// LoadOptions tunes Load.
type LoadOptions struct {
	// Sheet selects the worksheet of an .xlsx file. Empty means the first sheet.
	Sheet string
}

// LoadOption configures LoadOptions.
type LoadOption func(*LoadOptions)

// WithSheet selects the worksheet read from an .xlsx file.
func WithSheet(name string) LoadOption {
	return func(o *LoadOptions) { o.Sheet = name }
}

// Load reads the table at path. The format follows the file extension: .xlsx is read
// as a workbook, anything else as CSV.
func Load(path string, opts ...LoadOption) (*Table, error) {
	var o LoadOptions
	for _, opt := range opts {
		opt(&o)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return loadXLSX(path, o.Sheet)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, apperrors.NewDataLoadError(path, "cannot open file").WithCause(err)
		}
		defer f.Close()
		return LoadCSV(f, path)
	}
}

// LoadCSV parses CSV records from r. source names the input in error messages.
func LoadCSV(r io.Reader, source string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewDataLoadError(source, "unreadable CSV").WithCause(err)
	}
	return fromRecords(source, records)
}

func loadXLSX(path, sheet string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, "cannot open workbook").WithCause(err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewDataLoadError(path, "workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, apperrors.NewDataLoadError(path, fmt.Sprintf("cannot read sheet %q", sheet)).WithCause(err)
	}
	return fromRecords(path, rows)
}

// header describes where the interesting columns sit in a record.
type header struct {
	code     int
	name     int
	yearMin  int
	yearCols []int
}

func parseHeader(source string, rec []string) (header, error) {
	h := header{code: -1, name: -1}
	type yc struct{ year, col int }
	var years []yc

	for i, cell := range rec {
		cell = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
		switch cell {
		case CodeColumn:
			h.code = i
			continue
		case NameColumn:
			h.name = i
			continue
		}
		if y, err := strconv.Atoi(cell); err == nil && y >= 1000 && y <= 9999 {
			years = append(years, yc{year: y, col: i})
		}
	}

	if h.code < 0 {
		return h, apperrors.NewDataLoadError(source, fmt.Sprintf("missing %q column", CodeColumn))
	}
	if h.name < 0 {
		return h, apperrors.NewDataLoadError(source, fmt.Sprintf("missing %q column", NameColumn))
	}
	if len(years) == 0 {
		return h, apperrors.NewSchemaError(fmt.Sprintf("%s: no year columns", source))
	}

	h.yearMin = years[0].year
	for i, y := range years {
		if y.year != h.yearMin+i {
			return h, apperrors.NewSchemaError(
				fmt.Sprintf("%s: year columns are not contiguous at %d", source, y.year))
		}
		h.yearCols = append(h.yearCols, y.col)
	}
	return h, nil
}

func fromRecords(source string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, apperrors.NewDataLoadError(source, "file is empty")
	}

	h, err := parseHeader(source, records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		line := n + 2
		row := Row{
			Code:   cellAt(rec, h.code),
			Name:   strings.TrimSpace(cellAt(rec, h.name)),
			Values: make([]Value, len(h.yearCols)),
		}
		for j, col := range h.yearCols {
			v, err := parseValue(cellAt(rec, col))
			if err != nil {
				return nil, apperrors.NewDataLoadError(source,
					fmt.Sprintf("line %d, year %d: %v", line, h.yearMin+j, err))
			}
			row.Values[j] = v
		}
		rows = append(rows, row)
	}

	return NewTable(h.yearMin, len(h.yearCols), rows)
}

func parseValue(cell string) (Value, error) {
	cell = strings.TrimSpace(cell)
	if missingLiterals[cell] {
		return None(), nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return None(), fmt.Errorf("not a number: %q", cell)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return None(), fmt.Errorf("not a finite number: %q", cell)
	}
	return Some(f), nil
}

func cellAt(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
