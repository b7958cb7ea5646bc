package service

import (
	"context"
	"image"

	"github.com/ironsheep/landcover-analytics/internal/analytics"
)

// YearAreaStats is the area breakdown of one survey year.
type YearAreaStats struct {
	Year int `json:"year"`
	*analytics.AreaStats
}

// ChangeReport is the transition matrix between two survey years.
type ChangeReport struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
	*analytics.TransitionResult
}

// YearConfidence is the confidence summary of one year.
type YearConfidence struct {
	Year int `json:"year"`
	*analytics.ConfidenceSummary
}

// YearConfidenceByClass is the per-class confidence of one year.
type YearConfidenceByClass struct {
	Year int `json:"year"`
	*analytics.ConfidenceByClass
}

// ChangeConfidence is the changed/unchanged confidence split of a year
// pair, measured on the end year's confidence raster.
type ChangeConfidence struct {
	StartYear int `json:"start_year"`
	EndYear   int `json:"end_year"`
	*analytics.ConfidenceByChange
}

// YearConfidenceBands is the band distribution of one year.
type YearConfidenceBands struct {
	Year int `json:"year"`
	*analytics.ConfidenceBands
}

// LULCStats computes the area breakdown of year.
func (s *Service) LULCStats(ctx context.Context, year int, pixelSize *float64) (*YearAreaStats, error) {
	g, err := s.LULC(ctx, year)
	if err != nil {
		return nil, err
	}
	stats, err := s.AreaStats(ctx, g, pixelSize)
	if err != nil {
		return nil, err
	}
	return &YearAreaStats{Year: year, AreaStats: stats}, nil
}

// ChangeStats computes the transition matrix from start to end. The change
// pair must be in the catalog; the matrix itself is built from the two
// land-cover rasters.
func (s *Service) ChangeStats(ctx context.Context, start, end int, pixelSize *float64) (*ChangeReport, error) {
	if _, err := s.catalog.ChangePath(start, end); err != nil {
		return nil, err
	}
	older, err := s.LULC(ctx, start)
	if err != nil {
		return nil, err
	}
	newer, err := s.LULC(ctx, end)
	if err != nil {
		return nil, err
	}
	tr, err := s.Transitions(ctx, older, newer, pixelSize)
	if err != nil {
		return nil, err
	}
	return &ChangeReport{StartYear: start, EndYear: end, TransitionResult: tr}, nil
}

// YearConfidenceSummary summarizes the confidence raster of year.
func (s *Service) YearConfidenceSummary(ctx context.Context, year int) (*YearConfidence, error) {
	conf, err := s.Confidence(ctx, year)
	if err != nil {
		return nil, err
	}
	sum, err := s.ConfidenceSummary(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &YearConfidence{Year: year, ConfidenceSummary: sum}, nil
}

// YearConfidenceByClass computes per-class confidence of year.
func (s *Service) YearConfidenceByClass(ctx context.Context, year int) (*YearConfidenceByClass, error) {
	conf, err := s.Confidence(ctx, year)
	if err != nil {
		return nil, err
	}
	classes, err := s.LULC(ctx, year)
	if err != nil {
		return nil, err
	}
	res, err := s.ConfidenceByClass(ctx, classes, conf)
	if err != nil {
		return nil, err
	}
	return &YearConfidenceByClass{Year: year, ConfidenceByClass: res}, nil
}

// ChangeConfidenceStats splits the end year's confidence by the change
// raster of start to end.
func (s *Service) ChangeConfidenceStats(ctx context.Context, start, end int) (*ChangeConfidence, error) {
	change, err := s.Change(ctx, start, end)
	if err != nil {
		return nil, err
	}
	conf, err := s.Confidence(ctx, end)
	if err != nil {
		return nil, err
	}
	res, err := s.ConfidenceByChange(ctx, change, conf)
	if err != nil {
		return nil, err
	}
	return &ChangeConfidence{StartYear: start, EndYear: end, ConfidenceByChange: res}, nil
}

// YearConfidenceBands counts band membership of year.
func (s *Service) YearConfidenceBands(ctx context.Context, year int) (*YearConfidenceBands, error) {
	conf, err := s.Confidence(ctx, year)
	if err != nil {
		return nil, err
	}
	res, err := s.ConfidenceBands(ctx, conf)
	if err != nil {
		return nil, err
	}
	return &YearConfidenceBands{Year: year, ConfidenceBands: res}, nil
}

// LULCMap colorizes the land-cover raster of year.
func (s *Service) LULCMap(ctx context.Context, year int) (image.Image, error) {
	g, err := s.LULC(ctx, year)
	if err != nil {
		return nil, err
	}
	img, err := s.ClassMap(ctx, g)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// YearChangeMap colorizes the change raster of start to end.
func (s *Service) YearChangeMap(ctx context.Context, start, end int) (image.Image, error) {
	g, err := s.Change(ctx, start, end)
	if err != nil {
		return nil, err
	}
	img, err := s.ChangeMap(ctx, g)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// YearConfidenceMap colorizes the confidence raster of year.
func (s *Service) YearConfidenceMap(ctx context.Context, year int) (image.Image, error) {
	conf, err := s.Confidence(ctx, year)
	if err != nil {
		return nil, err
	}
	img, err := s.ConfidenceMap(ctx, conf)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// YearCompositeMap draws the change of start to end over the end year's
// land cover.
func (s *Service) YearCompositeMap(ctx context.Context, start, end int) (image.Image, error) {
	change, err := s.Change(ctx, start, end)
	if err != nil {
		return nil, err
	}
	classes, err := s.LULC(ctx, end)
	if err != nil {
		return nil, err
	}
	img, err := s.CompositeMap(ctx, classes, change)
	if err != nil {
		return nil, err
	}
	return img, nil
}
