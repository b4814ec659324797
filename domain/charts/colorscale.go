package charts

import (
	"math"

	apperrors "gdpdash/pkg/errors"
)

// Colour modes accepted by BuildMapSpec.
const (
	ModeDiverging  = 0
	ModeSequential = 1
)

// ColorStop maps a threshold fraction in [0,1] to a colour.
type ColorStop struct {
	Threshold float64 `json:"threshold"`
	Color     string  `json:"color"`
}

// ColorScale is a named, ordered list of stops with increasing thresholds.
type ColorScale struct {
	Name  string      `json:"name"`
	Stops []ColorStop `json:"stops"`
}

func (c ColorScale) clone() ColorScale {
	c.Stops = append([]ColorStop(nil), c.Stops...)
	return c
}

// diverging spreads hues widely over the top of the range, where the richest
// countries sit.
var diverging = ColorScale{
	Name: "diverging",
	Stops: []ColorStop{
		{0, "rgb(103, 11, 99)"},
		{0.66, "rgb(91, 11, 239)"},
		{0.78, "rgb(11, 55, 239)"},
		{0.86, "rgb(11, 95, 239)"},
		{0.92, "rgb(232, 239, 11)"},
		{0.96, "rgb(239, 209, 11)"},
		{0.99, "rgb(239, 103, 11)"},
		{1, "rgb(239, 11, 11)"},
	},
}

// sequential is a single purple gradient with log-spaced thresholds.
var sequential = ColorScale{
	Name: "sequential",
	Stops: []ColorStop{
		{logStop(5), "rgb(103, 11, 99)"},
		{logStop(4), "rgb(145, 40, 140)"},
		{logStop(3), "rgb(168, 60, 163)"},
		{logStop(2), "rgb(206, 101, 201)"},
		{logStop(1), "rgb(221, 135, 218)"},
		{1, "rgb(232, 185, 230)"},
	},
}

// logStop returns 1 - 10^(k/5)/10.
func logStop(k int) float64 {
	return 1 - math.Pow(10, float64(k)/5)/10
}

// ColorScaleFor returns a copy of the preset selected by mode.
func ColorScaleFor(mode int) (ColorScale, error) {
	switch mode {
	case ModeDiverging:
		return diverging.clone(), nil
	case ModeSequential:
		return sequential.clone(), nil
	default:
		return ColorScale{}, apperrors.NewInvalidModeError(mode)
	}
}
