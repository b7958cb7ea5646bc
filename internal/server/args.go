package server

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// paramError marks a tool call rejected before any analysis ran.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

func isParamError(err error) bool {
	var pe *paramError
	return errors.As(err, &pe)
}

// source checks that a tool got exactly one of its two input forms.
func source(catalogGiven, inlineGiven bool, catalogName, inlineName string) error {
	switch {
	case catalogGiven && inlineGiven:
		return invalidParams("give either %s or %s, not both", catalogName, inlineName)
	case !catalogGiven && !inlineGiven:
		return invalidParams("%s or %s is required", catalogName, inlineName)
	}
	return nil
}

// pairGiven reports whether a year pair was supplied, rejecting half pairs.
func pairGiven(start, end *int) (bool, error) {
	if (start == nil) != (end == nil) {
		return false, invalidParams("start_year and end_year must be given together")
	}
	return start != nil, nil
}

// pixelSizeArg rejects an explicit pixel size that is not positive. An
// omitted size is fine and means the configured one.
func pixelSizeArg(size *float64) error {
	if size != nil && *size <= 0 {
		return invalidParams("pixel_size must be positive, got %v", *size)
	}
	return nil
}

// classGridArg converts inline rows of class or change values.
func classGridArg(name string, rows [][]float64) (*raster.Grid[uint16], error) {
	cells := make([][]uint16, len(rows))
	for y, row := range rows {
		cells[y] = make([]uint16, len(row))
		for x, v := range row {
			if v != math.Trunc(v) || v < 0 || v > math.MaxUint16 {
				return nil, invalidParams("%s[%d][%d]: %v is not a class value", name, y, x, v)
			}
			cells[y][x] = uint16(v)
		}
	}
	g, err := raster.GridFromRows(cells)
	if err != nil {
		return nil, &paramError{err: fmt.Errorf("%s: %w", name, err)}
	}
	return g, nil
}

// confidenceArg converts inline confidence rows read with scale.
func confidenceArg(rows [][]float64, scale string) (*raster.ConfidenceGrid, error) {
	sc, err := raster.ParseScale(scale)
	if err != nil {
		return nil, &paramError{err: err}
	}
	c, err := raster.ConfidenceFromRows(rows, sc)
	if err != nil {
		return nil, &paramError{err: fmt.Errorf("confidence: %w", err)}
	}
	return c, nil
}
