package analytics

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// All confidence figures below are reported in percent, whatever the scale
// of the input grid; Scale records how the input was read.

// ConfidenceSummary describes the distribution of valid confidence values.
type ConfidenceSummary struct {
	Min             int          `json:"min"`
	Max             int          `json:"max"`
	Mean            float64      `json:"mean"`
	Median          int          `json:"median"`
	ValidPixels     int          `json:"valid_pixels"`
	TotalPixels     int          `json:"total_pixels"`
	CoveragePercent float64      `json:"coverage_percent"`
	Scale           raster.Scale `json:"scale"`
}

// PartitionStats is the mean confidence over one subset of pixels.
// MeanConfidence is nil when the subset is empty.
type PartitionStats struct {
	MeanConfidence *float64 `json:"mean_confidence"`
	PixelCount     int      `json:"pixel_count"`
}

// ClassConfidence is the mean confidence of one class.
type ClassConfidence struct {
	Class     landcover.Class `json:"class_id"`
	ClassName string          `json:"class_name"`
	PartitionStats
}

// ConfidenceByClass holds per-class confidence in registry order.
type ConfidenceByClass struct {
	Scale   raster.Scale      `json:"scale"`
	Classes []ClassConfidence `json:"classes"`
}

// ConfidenceByChange splits confidence into changed and unchanged pixels.
type ConfidenceByChange struct {
	Scale     raster.Scale   `json:"scale"`
	Changed   PartitionStats `json:"changed"`
	Unchanged PartitionStats `json:"unchanged"`
}

// BandCount is the share of valid pixels falling in one confidence band.
type BandCount struct {
	Band       string  `json:"band"`
	MinPercent float64 `json:"min_percent"`
	PixelCount int     `json:"pixel_count"`
	Percentage float64 `json:"percentage"`
}

// ConfidenceBands counts valid pixels per confidence band.
type ConfidenceBands struct {
	Scale       raster.Scale `json:"scale"`
	ValidPixels int          `json:"valid_pixels"`
	Bands       []BandCount  `json:"bands"`
}

// partition accumulates a running sum for one pixel subset.
type partition struct {
	sum   float64
	count int
}

func (p *partition) add(v float64) {
	p.sum += v
	p.count++
}

func (p partition) stats() PartitionStats {
	s := PartitionStats{PixelCount: p.count}
	if p.count > 0 {
		mean := round(p.sum/float64(p.count), 2)
		s.MeanConfidence = &mean
	}
	return s
}

// ConfidenceSummary computes min, max, mean, median and coverage of the valid
// confidence pixels. It returns ErrNoData when no pixel is valid.
func (e *Engine) ConfidenceSummary(conf *raster.ConfidenceGrid) (*ConfidenceSummary, error) {
	const op = "confidence summary"
	if err := validate(op, "confidence", &conf.Grid); err != nil {
		return nil, err
	}
	scale := conf.ResolveScale()
	factor := scale.Factor()

	values := make([]float64, 0, conf.Len())
	for _, v := range conf.Cells {
		if e.nodata.ValidConfidence(v) {
			values = append(values, v*factor)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoData)
	}

	sort.Float64s(values)
	return &ConfidenceSummary{
		Min:             truncate(values[0]),
		Max:             truncate(values[len(values)-1]),
		Mean:            round(stat.Mean(values, nil), 2),
		Median:          truncate(median(values)),
		ValidPixels:     len(values),
		TotalPixels:     conf.Len(),
		CoveragePercent: round(float64(len(values))/float64(conf.Len())*100, 2),
		Scale:           scale,
	}, nil
}

// median of sorted values; even counts average the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// ConfidenceByClass computes mean confidence for every registered class.
// A pixel counts when its confidence is valid and its class is not nodata.
func (e *Engine) ConfidenceByClass(classes *raster.ClassGrid, conf *raster.ConfidenceGrid) (*ConfidenceByClass, error) {
	const op = "confidence by class"
	if err := validate(op, "class", classes); err != nil {
		return nil, err
	}
	if err := validate(op, "confidence", &conf.Grid); err != nil {
		return nil, err
	}
	if err := raster.CheckShape(op, "class", classes, "confidence", conf); err != nil {
		return nil, err
	}
	scale := conf.ResolveScale()
	factor := scale.Factor()

	parts := make([]partition, e.reg.Len())
	for i, v := range conf.Cells {
		c := classes.Cells[i]
		if !e.nodata.ValidConfidence(v) || !e.nodata.ValidClass(c) {
			continue
		}
		if idx := e.reg.IndexOf(c); idx >= 0 {
			parts[idx].add(v * factor)
		}
	}

	result := &ConfidenceByClass{Scale: scale, Classes: make([]ClassConfidence, 0, len(parts))}
	for i, c := range e.reg.Classes() {
		result.Classes = append(result.Classes, ClassConfidence{
			Class:          c.Class,
			ClassName:      c.Label,
			PartitionStats: parts[i].stats(),
		})
	}
	return result, nil
}

// ConfidenceByChange computes mean confidence of changed and unchanged pixels.
func (e *Engine) ConfidenceByChange(change *raster.ChangeGrid, conf *raster.ConfidenceGrid) (*ConfidenceByChange, error) {
	const op = "confidence by change"
	if err := validate(op, "change", change); err != nil {
		return nil, err
	}
	if err := validate(op, "confidence", &conf.Grid); err != nil {
		return nil, err
	}
	if err := raster.CheckShape(op, "change", change, "confidence", conf); err != nil {
		return nil, err
	}
	scale := conf.ResolveScale()
	factor := scale.Factor()

	var changed, unchanged partition
	for i, v := range conf.Cells {
		if !e.nodata.ValidConfidence(v) {
			continue
		}
		if e.nodata.Changed(change.Cells[i]) {
			changed.add(v * factor)
		} else {
			unchanged.add(v * factor)
		}
	}

	return &ConfidenceByChange{
		Scale:     scale,
		Changed:   changed.stats(),
		Unchanged: unchanged.stats(),
	}, nil
}

// ConfidenceBands counts valid pixels in the low, medium and high bands used
// by confidence maps.
func (e *Engine) ConfidenceBands(conf *raster.ConfidenceGrid) (*ConfidenceBands, error) {
	const op = "confidence bands"
	if err := validate(op, "confidence", &conf.Grid); err != nil {
		return nil, err
	}
	scale := conf.ResolveScale()
	factor := scale.Factor()

	var counts [4]int
	valid := 0
	for _, v := range conf.Cells {
		if !e.nodata.ValidConfidence(v) {
			continue
		}
		counts[raster.BandOf(v*factor)]++
		valid++
	}

	result := &ConfidenceBands{Scale: scale, ValidPixels: valid, Bands: make([]BandCount, 0, len(raster.Bands))}
	for _, b := range raster.Bands {
		bc := BandCount{Band: b.String(), MinPercent: bandMin(b), PixelCount: counts[b]}
		if valid > 0 {
			bc.Percentage = round(float64(counts[b])/float64(valid)*100, 2)
		}
		result.Bands = append(result.Bands, bc)
	}
	return result, nil
}

func bandMin(b raster.Band) float64 {
	switch b {
	case raster.MediumBand:
		return raster.MediumConfidenceMin
	case raster.HighBand:
		return raster.HighConfidenceMin
	}
	return 0
}
