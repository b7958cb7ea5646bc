package service

import (
	"context"
	"fmt"
	"image"

	"github.com/ironsheep/landcover-analytics/internal/analytics"
	"github.com/ironsheep/landcover-analytics/internal/imaging"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// Operation names used in metrics and logs.
const (
	OpAreaStats          = "area_stats"
	OpTransitions        = "transition_matrix"
	OpConfidenceSummary  = "confidence_summary"
	OpConfidenceByClass  = "confidence_by_class"
	OpConfidenceByChange = "confidence_by_change"
	OpConfidenceBands    = "confidence_bands"
	OpMapClasses         = "map_lulc"
	OpMapChange          = "map_change"
	OpMapConfidence      = "map_confidence"
	OpMapComposite       = "map_composite"
)

// AreaStats computes per-class area of g. A nil pixelSize uses the
// configured one; an explicit value is validated by the engine.
func (s *Service) AreaStats(ctx context.Context, g *raster.ClassGrid, pixelSize *float64) (*analytics.AreaStats, error) {
	var out *analytics.AreaStats
	err := s.observe(ctx, OpAreaStats, g.Len(), func() (err error) {
		out, err = s.engine.AreaStats(g, s.resolvePixelSize(pixelSize))
		return err
	})
	return out, err
}

// Transitions computes the transition matrix from older to newer.
func (s *Service) Transitions(ctx context.Context, older, newer *raster.ClassGrid, pixelSize *float64) (*analytics.TransitionResult, error) {
	var out *analytics.TransitionResult
	err := s.observe(ctx, OpTransitions, older.Len(), func() (err error) {
		out, err = s.engine.Transitions(older, newer, s.resolvePixelSize(pixelSize))
		return err
	})
	return out, err
}

// ConfidenceSummary describes the valid confidence values of conf.
func (s *Service) ConfidenceSummary(ctx context.Context, conf *raster.ConfidenceGrid) (*analytics.ConfidenceSummary, error) {
	var out *analytics.ConfidenceSummary
	err := s.observe(ctx, OpConfidenceSummary, conf.Len(), func() (err error) {
		out, err = s.engine.ConfidenceSummary(conf)
		return err
	})
	return out, err
}

// ConfidenceByClass computes mean confidence per class.
func (s *Service) ConfidenceByClass(ctx context.Context, classes *raster.ClassGrid, conf *raster.ConfidenceGrid) (*analytics.ConfidenceByClass, error) {
	var out *analytics.ConfidenceByClass
	err := s.observe(ctx, OpConfidenceByClass, conf.Len(), func() (err error) {
		out, err = s.engine.ConfidenceByClass(classes, conf)
		return err
	})
	return out, err
}

// ConfidenceByChange computes mean confidence of changed and unchanged pixels.
func (s *Service) ConfidenceByChange(ctx context.Context, change *raster.ChangeGrid, conf *raster.ConfidenceGrid) (*analytics.ConfidenceByChange, error) {
	var out *analytics.ConfidenceByChange
	err := s.observe(ctx, OpConfidenceByChange, conf.Len(), func() (err error) {
		out, err = s.engine.ConfidenceByChange(change, conf)
		return err
	})
	return out, err
}

// ConfidenceBands counts valid pixels per confidence band.
func (s *Service) ConfidenceBands(ctx context.Context, conf *raster.ConfidenceGrid) (*analytics.ConfidenceBands, error) {
	var out *analytics.ConfidenceBands
	err := s.observe(ctx, OpConfidenceBands, conf.Len(), func() (err error) {
		out, err = s.engine.ConfidenceBands(conf)
		return err
	})
	return out, err
}

// ClassMap colorizes a class grid.
func (s *Service) ClassMap(ctx context.Context, g *raster.ClassGrid) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := s.observe(ctx, OpMapClasses, g.Len(), func() error {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("lulc map: %w", err)
		}
		out = imaging.ColorizeClasses(s.engine.Registry(), g)
		return nil
	})
	return out, err
}

// ChangeMap colorizes a change grid.
func (s *Service) ChangeMap(ctx context.Context, g *raster.ChangeGrid) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := s.observe(ctx, OpMapChange, g.Len(), func() error {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("change map: %w", err)
		}
		out = imaging.ColorizeChange(g)
		return nil
	})
	return out, err
}

// ConfidenceMap colorizes a confidence grid by band.
func (s *Service) ConfidenceMap(ctx context.Context, conf *raster.ConfidenceGrid) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := s.observe(ctx, OpMapConfidence, conf.Len(), func() error {
		if err := conf.Validate(); err != nil {
			return fmt.Errorf("confidence map: %w", err)
		}
		out = imaging.ColorizeConfidence(conf)
		return nil
	})
	return out, err
}

// CompositeMap draws the change layer over the class layer.
func (s *Service) CompositeMap(ctx context.Context, classes *raster.ClassGrid, change *raster.ChangeGrid) (*image.NRGBA, error) {
	var out *image.NRGBA
	err := s.observe(ctx, OpMapComposite, classes.Len(), func() error {
		if err := classes.Validate(); err != nil {
			return fmt.Errorf("composite map: classes: %w", err)
		}
		if err := change.Validate(); err != nil {
			return fmt.Errorf("composite map: change: %w", err)
		}
		if err := raster.CheckShape("composite map", "classes", classes, "change", change); err != nil {
			return err
		}
		var err error
		out, err = imaging.Composite(
			imaging.ColorizeClasses(s.engine.Registry(), classes),
			imaging.ColorizeChange(change),
		)
		return err
	})
	return out, err
}

// Preview fits img into maxDim (the configured limit when 0) and encodes it
// as base64 PNG.
func (s *Service) Preview(img image.Image, maxDim int) (*imaging.PreviewResult, error) {
	if maxDim < 0 {
		return nil, fmt.Errorf("%w: max_dim must be non-negative, got %d", ErrInvalidArgument, maxDim)
	}
	if maxDim == 0 {
		maxDim = s.maxDim
	}
	return imaging.NewPreviewResult(img, maxDim)
}

// PNG fits img into maxDim (the configured limit when 0) and encodes it.
func (s *Service) PNG(img image.Image, maxDim int) ([]byte, error) {
	if maxDim < 0 {
		return nil, fmt.Errorf("%w: max_dim must be non-negative, got %d", ErrInvalidArgument, maxDim)
	}
	if maxDim == 0 {
		maxDim = s.maxDim
	}
	return imaging.EncodePNG(imaging.Fit(img, maxDim))
}
