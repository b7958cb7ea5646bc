package imaging

import (
	"image"
	"image/color"

	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// Overlay colors. Consumers match on these values, so they are part of the
// map contract and must stay fixed.
var (
	// ChangeColor marks changed pixels on change maps.
	ChangeColor = color.NRGBA{R: 220, G: 38, B: 38, A: 180}

	// LowConfidenceColor marks confidence in (0, 80).
	LowConfidenceColor = color.NRGBA{R: 239, G: 68, B: 68, A: 180}

	// MediumConfidenceColor marks confidence in [80, 90).
	MediumConfidenceColor = color.NRGBA{R: 245, G: 158, B: 11, A: 180}

	// HighConfidenceColor marks confidence of 90 and above.
	HighConfidenceColor = color.NRGBA{R: 34, G: 197, B: 94, A: 180}
)

// BandColor returns the overlay color of a confidence band. NoBand is
// fully transparent.
func BandColor(b raster.Band) color.NRGBA {
	switch b {
	case raster.LowBand:
		return LowConfidenceColor
	case raster.MediumBand:
		return MediumConfidenceColor
	case raster.HighBand:
		return HighConfidenceColor
	}
	return color.NRGBA{}
}

// ColorizeClasses paints each registered class in its palette color.
// Background and unregistered values stay fully transparent.
func ColorizeClasses(reg *landcover.Registry, g *raster.ClassGrid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))

	palette := make([]color.RGBA, reg.Len())
	for i, c := range reg.Classes() {
		palette[i] = c.Color
	}

	for i, v := range g.Cells {
		idx := reg.IndexOf(v)
		if idx < 0 {
			continue
		}
		c := palette[idx]
		setPix(img, i, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	return img
}

// ColorizeChange paints every changed pixel in ChangeColor.
func ColorizeChange(g *raster.ChangeGrid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, v := range g.Cells {
		if v != 0 {
			setPix(img, i, ChangeColor)
		}
	}
	return img
}

// ColorizeConfidence paints each pixel in the color of its confidence band.
//
// Values are first brought to percent using the grid's declared scale, or
// the detected one when undeclared. Values <= 0 stay transparent.
func ColorizeConfidence(c *raster.ConfidenceGrid) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.Width, c.Height))
	factor := c.ResolveScale().Factor()

	for i, v := range c.Cells {
		if b := raster.BandOf(v * factor); b != raster.NoBand {
			setPix(img, i, BandColor(b))
		}
	}
	return img
}

// setPix writes c at cell index i. Images built here have Stride == 4*width,
// so the cell index maps straight onto Pix.
func setPix(img *image.NRGBA, i int, c color.NRGBA) {
	p := img.Pix[i*4 : i*4+4 : i*4+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}
