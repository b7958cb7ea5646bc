package raster

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Scale is the value domain of a confidence grid.
type Scale uint8

const (
	// ScaleUnknown means the scale was not declared and must be detected.
	ScaleUnknown Scale = iota
	// ScaleUnit means values are fractions in [0, 1].
	ScaleUnit
	// ScalePercent means values are percentages in [0, 100].
	ScalePercent
)

// UnitScaleMax is the largest observed maximum still read as unit scale.
// Values a little above 1 come from resampling overshoot.
const UnitScaleMax = 1.05

// Band boundaries in the canonical percent domain.
const (
	MediumConfidenceMin = 80.0
	HighConfidenceMin   = 90.0
)

func (s Scale) String() string {
	switch s {
	case ScaleUnit:
		return "unit"
	case ScalePercent:
		return "percent"
	default:
		return "unknown"
	}
}

// ParseScale parses "unit", "percent" or "" (unknown).
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "unknown":
		return ScaleUnknown, nil
	case "unit", "fraction":
		return ScaleUnit, nil
	case "percent", "pct":
		return ScalePercent, nil
	}
	return ScaleUnknown, fmt.Errorf("raster: unknown confidence scale %q", s)
}

// MarshalJSON encodes the scale by name.
func (s Scale) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Factor is the multiplier that maps a value of this scale to percent.
func (s Scale) Factor() float64 {
	if s == ScaleUnit {
		return 100
	}
	return 1
}

// DetectScale guesses the scale of a grid from its maximum value. This is the
// only place the heuristic lives; a grid that declares its scale skips it.
func DetectScale(max float64) Scale {
	if max > 0 && max <= UnitScaleMax {
		return ScaleUnit
	}
	return ScalePercent
}

// ConfidenceGrid holds per-pixel classification confidence. Values <= 0 are
// background/nodata.
type ConfidenceGrid struct {
	Grid[float64]
	// Scale is the declared value domain. ScaleUnknown triggers detection.
	Scale Scale
}

// NewConfidenceGrid wraps g with the declared scale.
func NewConfidenceGrid(g *Grid[float64], scale Scale) *ConfidenceGrid {
	return &ConfidenceGrid{Grid: *g, Scale: scale}
}

// ConfidenceFromRows builds a confidence grid from rows.
func ConfidenceFromRows(rows [][]float64, scale Scale) (*ConfidenceGrid, error) {
	g, err := GridFromRows(rows)
	if err != nil {
		return nil, err
	}
	return NewConfidenceGrid(g, scale), nil
}

// Max returns the largest cell value, or 0 for a grid without positive cells.
func (c *ConfidenceGrid) Max() float64 {
	var max float64
	for _, v := range c.Cells {
		if v > max {
			max = v
		}
	}
	return max
}

// ResolveScale returns the declared scale, detecting it when unknown.
func (c *ConfidenceGrid) ResolveScale() Scale {
	if c.Scale != ScaleUnknown {
		return c.Scale
	}
	return DetectScale(c.Max())
}

// Band is a confidence band.
type Band uint8

const (
	NoBand Band = iota
	LowBand
	MediumBand
	HighBand
)

// Bands lists the real bands in ascending order.
var Bands = []Band{LowBand, MediumBand, HighBand}

func (b Band) String() string {
	switch b {
	case LowBand:
		return "low"
	case MediumBand:
		return "medium"
	case HighBand:
		return "high"
	default:
		return "none"
	}
}

// BandOf classifies a percent-domain confidence value. Values <= 0 and NaN
// have no band, matching NodataPolicy.ValidConfidence.
func BandOf(pct float64) Band {
	switch {
	case math.IsNaN(pct) || pct <= 0:
		return NoBand
	case pct < MediumConfidenceMin:
		return LowBand
	case pct < HighConfidenceMin:
		return MediumBand
	default:
		return HighBand
	}
}
