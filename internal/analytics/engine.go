package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// DefaultPixelSize is the ground size of one pixel edge in meters.
const DefaultPixelSize = 10.0

var (
	// ErrNoData is returned when a summary has no valid pixels to describe.
	ErrNoData = errors.New("analytics: no valid pixels")

	// ErrInvalidPixelSize is returned for non-positive or non-finite pixel sizes.
	ErrInvalidPixelSize = errors.New("analytics: invalid pixel size")
)

// Engine computes statistics over class, change and confidence grids.
//
// An Engine holds only immutable configuration, so one value can serve any
// number of concurrent callers. No method mutates its input grids.
type Engine struct {
	reg    *landcover.Registry
	nodata raster.NodataPolicy
}

// NewEngine returns an engine for the given registry and nodata policy.
func NewEngine(reg *landcover.Registry, nodata raster.NodataPolicy) *Engine {
	return &Engine{reg: reg, nodata: nodata}
}

// Default returns an engine over the default registry and nodata policy.
func Default() *Engine {
	return NewEngine(landcover.Default(), raster.DefaultNodata)
}

// Registry returns the class registry used by the engine.
func (e *Engine) Registry() *landcover.Registry { return e.reg }

// Nodata returns the nodata policy used by the engine.
func (e *Engine) Nodata() raster.NodataPolicy { return e.nodata }

// PixelAreaHa converts a pixel edge in meters to hectares per pixel.
func PixelAreaHa(pixelSize float64) (float64, error) {
	if pixelSize <= 0 || math.IsNaN(pixelSize) || math.IsInf(pixelSize, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPixelSize, pixelSize)
	}
	return pixelSize * pixelSize / 10000, nil
}

// checkClassCell returns an UnknownClassError when a valid cell has no
// registered class.
func (e *Engine) checkClassCell(op string, g *raster.ClassGrid, i int) (int, error) {
	v := g.Cells[i]
	idx := e.reg.IndexOf(v)
	if idx < 0 {
		return -1, &landcover.UnknownClassError{Op: op, Value: v, X: i % g.Width, Y: i / g.Width}
	}
	return idx, nil
}

func validate[T raster.Cell](op, name string, g *raster.Grid[T]) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%s: %s grid: %w", op, name, err)
	}
	return nil
}

func round(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}

// truncate drops the fractional part of a non-negative value, absorbing the
// representation error left by scale conversion (0.29*100 = 28.999...).
func truncate(x float64) int {
	return int(math.Floor(x + 1e-9))
}
