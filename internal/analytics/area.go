package analytics

import (
	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// ClassArea is the area covered by one class.
type ClassArea struct {
	Class      landcover.Class `json:"class_id"`
	ClassName  string          `json:"class_name"`
	PixelCount int             `json:"pixel_count"`
	AreaHa     float64         `json:"area_ha"`
	Percentage float64         `json:"percentage"`
}

// AreaStats summarizes the class composition of one class grid.
type AreaStats struct {
	TotalAreaHa float64     `json:"total_area_ha"`
	ValidPixels int         `json:"valid_pixels"`
	TotalPixels int         `json:"total_pixels"`
	PixelSizeM  float64     `json:"pixel_size_m"`
	Stats       []ClassArea `json:"stats"`
}

// AreaStats computes per-class area and share of the valid area.
//
// A grid without valid pixels yields a zero-area result with no class rows.
// A valid cell holding an unregistered class id fails with
// landcover.ErrUnknownClass, so the class counts always add up to
// ValidPixels.
func (e *Engine) AreaStats(g *raster.ClassGrid, pixelSize float64) (*AreaStats, error) {
	const op = "area stats"
	if err := validate(op, "class", g); err != nil {
		return nil, err
	}
	pixelArea, err := PixelAreaHa(pixelSize)
	if err != nil {
		return nil, err
	}

	counts := make([]int, e.reg.Len())
	valid := 0
	for i, v := range g.Cells {
		if !e.nodata.ValidClass(v) {
			continue
		}
		idx, err := e.checkClassCell(op, g, i)
		if err != nil {
			return nil, err
		}
		counts[idx]++
		valid++
	}

	result := &AreaStats{
		ValidPixels: valid,
		TotalPixels: g.Len(),
		PixelSizeM:  pixelSize,
		Stats:       []ClassArea{},
	}
	if valid == 0 {
		return result, nil
	}

	result.TotalAreaHa = round(float64(valid)*pixelArea, 2)
	for i, c := range e.reg.Classes() {
		result.Stats = append(result.Stats, ClassArea{
			Class:      c.Class,
			ClassName:  c.Label,
			PixelCount: counts[i],
			AreaHa:     round(float64(counts[i])*pixelArea, 2),
			Percentage: round(float64(counts[i])/float64(valid)*100, 2),
		})
	}
	return result, nil
}
