package charts

import (
	"fmt"
	"math"
	"strconv"

	apperrors "gdpdash/pkg/errors"

	"gonum.org/v1/gonum/floats"
)

// BinWidth is the width of every histogram bin on the [0,1] scale.
const BinWidth = 0.085

const (
	histogramTitle   = "GDP per capita histogram"
	histogramXTitle  = "Min-Max-Scaled Log-Transformed GDP per capita"
	histogramYTitle  = "Number of countries"
	histogramOpacity = 0.5
)

// BinCount is the number of BinWidth bins needed to cover [0,1].
var BinCount = int(math.Ceil(1 / BinWidth))

// NormalizedSeries is one year's log-transformed, min-max scaled values with the
// countries they came from. Countries without data for the year are left out.
type NormalizedSeries struct {
	Year   int
	Codes  []string
	Values []float64
}

// NormalizeYear drops missing values for year, takes the natural log of the rest
// and rescales them to [0,1] using that year's own minimum and maximum.
func NormalizeYear(table Dataset, year int) (NormalizedSeries, error) {
	if year < table.YearMin() || year > table.YearMax() {
		return NormalizedSeries{}, apperrors.NewRangeError(year, table.YearMin(), table.YearMax())
	}
	values, err := table.ValuesForYear(year)
	if err != nil {
		return NormalizedSeries{}, err
	}
	codes := table.Codes()

	out := NormalizedSeries{Year: year}
	for i, v := range values {
		if !v.Valid {
			continue
		}
		if v.V <= 0 {
			return NormalizedSeries{}, apperrors.NewDomainError(
				fmt.Sprintf("GDP per capita of %s in %d is %v; log needs a positive value", codes[i], year, v.V)).
				WithDetails(map[string]interface{}{"country": codes[i], "year": year, "value": v.V})
		}
		out.Codes = append(out.Codes, codes[i])
		out.Values = append(out.Values, math.Log(v.V))
	}

	if len(out.Values) == 0 {
		return NormalizedSeries{}, apperrors.NewDegenerateDistributionError(
			fmt.Sprintf("no country has data for %d", year))
	}
	lo, hi := floats.Min(out.Values), floats.Max(out.Values)
	if lo == hi {
		return NormalizedSeries{}, apperrors.NewDegenerateDistributionError(
			fmt.Sprintf("every country has the same GDP per capita in %d", year)).
			WithDetails(map[string]interface{}{"year": year, "countries": len(out.Values)})
	}

	span := hi - lo
	for i, v := range out.Values {
		out.Values[i] = (v - lo) / span
	}
	return out, nil
}

// Bin counts values into BinCount bins of BinWidth starting at 0. A value of
// exactly 1 falls in the last bin.
func Bin(values []float64) []int {
	counts := make([]int, BinCount)
	for _, v := range values {
		i := int(v / BinWidth)
		if i < 0 {
			i = 0
		}
		if i >= BinCount {
			i = BinCount - 1
		}
		counts[i]++
	}
	return counts
}

// BuildHistogramSpec overlays the normalised distributions of yearA and yearB.
// yearB's trace is always first and yearA's second so the paint order is stable.
func BuildHistogramSpec(table Dataset, yearA, yearB int) (*HistogramSpec, error) {
	for _, y := range []int{yearA, yearB} {
		if y < table.YearMin() || y > table.YearMax() {
			return nil, apperrors.NewRangeError(y, table.YearMin(), table.YearMax())
		}
	}

	a, err := NormalizeYear(table, yearA)
	if err != nil {
		return nil, err
	}
	b, err := NormalizeYear(table, yearB)
	if err != nil {
		return nil, err
	}

	return &HistogramSpec{
		Type:   KindHistogram,
		Traces: []HistogramTrace{histogramTrace(b), histogramTrace(a)},
		Layout: HistogramLayout{
			Title:   histogramTitle,
			XAxis:   Axis{Title: histogramXTitle},
			YAxis:   Axis{Title: histogramYTitle},
			BarMode: "overlay",
		},
	}, nil
}

func histogramTrace(s NormalizedSeries) HistogramTrace {
	return HistogramTrace{
		Name:    strconv.Itoa(s.Year),
		Year:    s.Year,
		X:       s.Values,
		Codes:   s.Codes,
		Opacity: histogramOpacity,
		XBins: XBins{
			Start: 0,
			End:   float64(BinCount) * BinWidth,
			Size:  BinWidth,
		},
		Counts: Bin(s.Values),
	}
}
