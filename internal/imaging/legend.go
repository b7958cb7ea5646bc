package imaging

import (
	"image/color"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// Legend entry kinds.
const (
	LegendClass      = "class"
	LegendChange     = "change"
	LegendConfidence = "confidence"
)

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // 0-360 degrees
	S int `json:"s"` // 0-100 percent
	L int `json:"l"` // 0-100 percent
}

// RGBAColor holds straight-alpha 8-bit components.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// LegendEntry describes one symbol drawn on a map layer.
type LegendEntry struct {
	Kind  string    `json:"kind"`
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Hex   string    `json:"hex"`
	RGBA  RGBAColor `json:"rgba"`
	HSL   HSLColor  `json:"hsl"`
}

// Legend lists the symbols of every map layer: registry classes in order,
// the change marker, then the confidence bands from low to high.
func Legend(reg *landcover.Registry) []LegendEntry {
	classes := reg.Classes()
	entries := make([]LegendEntry, 0, len(classes)+1+len(raster.Bands))

	for _, c := range classes {
		nc := color.NRGBA{R: c.Color.R, G: c.Color.G, B: c.Color.B, A: 255}
		entries = append(entries, newLegendEntry(LegendClass, strconv.Itoa(int(c.Class)), c.Label, nc))
	}

	entries = append(entries, newLegendEntry(LegendChange, "changed", "Changed", ChangeColor))

	labels := map[raster.Band]string{
		raster.LowBand:    "Low (<80%)",
		raster.MediumBand: "Medium (80-90%)",
		raster.HighBand:   "High (>=90%)",
	}
	for _, b := range raster.Bands {
		entries = append(entries, newLegendEntry(LegendConfidence, b.String(), labels[b], BandColor(b)))
	}
	return entries
}

func newLegendEntry(kind, key, label string, c color.NRGBA) LegendEntry {
	cf := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return LegendEntry{
		Kind:  kind,
		Key:   key,
		Label: label,
		Hex:   cf.Hex(),
		RGBA:  RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}
