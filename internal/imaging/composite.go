package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Composite draws overlay on top of base with source-over alpha
// compositing on non-premultiplied colors, the way a browser stacks two
// map layers.
//
// Both images must have the same size; map layers always come from rasters
// of one extent, so a mismatch means the caller paired the wrong grids.
func Composite(base, overlay image.Image) (*image.NRGBA, error) {
	bb, ob := base.Bounds(), overlay.Bounds()
	if bb.Dx() != ob.Dx() || bb.Dy() != ob.Dy() {
		return nil, fmt.Errorf("composite: base is %dx%d, overlay is %dx%d",
			bb.Dx(), bb.Dy(), ob.Dx(), ob.Dy())
	}
	return imaging.Overlay(base, overlay, bb.Min, 1.0), nil
}
