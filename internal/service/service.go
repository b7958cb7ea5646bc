// Package service runs land-cover analyses against the raster catalog.
//
// Both transports go through a Service: it resolves years to files, keeps
// decoded rasters in a cache, runs the analytics engine, and records metrics
// and logs for every operation. Analysis methods take grids, so the same
// code path serves catalog rasters and grids supplied inline by a client.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ironsheep/landcover-analytics/internal/analytics"
	"github.com/ironsheep/landcover-analytics/internal/catalog"
	"github.com/ironsheep/landcover-analytics/internal/config"
	"github.com/ironsheep/landcover-analytics/internal/imaging"
	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/logging"
	"github.com/ironsheep/landcover-analytics/internal/metrics"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

const component = "service"

// Options configures a Service. Nil Logger and Metrics disable them.
type Options struct {
	Catalog   *catalog.Catalog
	Cache     *raster.Cache
	Engine    *analytics.Engine
	Logger    *logging.Logger
	Metrics   *metrics.Collector
	PixelSize float64
	Scale     raster.Scale
	Bounds    config.Bounds
	MaxDim    int
}

// Service is safe for concurrent use.
type Service struct {
	catalog   *catalog.Catalog
	cache     *raster.Cache
	engine    *analytics.Engine
	log       *logging.Logger
	metrics   *metrics.Collector
	pixelSize float64
	scale     raster.Scale
	bounds    config.Bounds
	maxDim    int
}

// New creates a service from opts.
func New(opts Options) *Service {
	s := &Service{
		catalog:   opts.Catalog,
		cache:     opts.Cache,
		engine:    opts.Engine,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		pixelSize: opts.PixelSize,
		scale:     opts.Scale,
		bounds:    opts.Bounds,
		maxDim:    opts.MaxDim,
	}
	if s.engine == nil {
		s.engine = analytics.Default()
	}
	if s.cache == nil {
		s.cache = raster.NewCache(raster.NewLoader(s.engine.Nodata()))
	}
	if s.catalog == nil {
		s.catalog = catalog.New(catalog.Layout{})
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	if s.pixelSize == 0 {
		s.pixelSize = analytics.DefaultPixelSize
	}
	return s
}

// FromConfig wires a service for cfg.
func FromConfig(cfg *config.Config, log *logging.Logger, m *metrics.Collector) *Service {
	engine := analytics.Default()
	loader := raster.NewLoader(engine.Nodata())
	loader.Nodata = cfg.RasterNodata

	return New(Options{
		Catalog:   catalog.New(cfg.Layout()),
		Cache:     raster.NewCache(loader),
		Engine:    engine,
		Logger:    log,
		Metrics:   m,
		PixelSize: cfg.PixelSize,
		Scale:     cfg.Scale(),
		Bounds:    cfg.MapBounds,
		MaxDim:    cfg.MaxPreviewDim,
	})
}

// Registry returns the class registry of the engine.
func (s *Service) Registry() *landcover.Registry { return s.engine.Registry() }

// Catalog returns the available years and pairs.
func (s *Service) Catalog() catalog.Listing { return s.catalog.List() }

// Bounds returns the study-area bounds.
func (s *Service) Bounds() config.Bounds { return s.bounds }

// MaxPreviewDim returns the configured preview size limit.
func (s *Service) MaxPreviewDim() int { return s.maxDim }

// DefaultScale returns the configured confidence scale.
func (s *Service) DefaultScale() raster.Scale { return s.scale }

// Legend returns the legend of every map layer.
func (s *Service) Legend() []imaging.LegendEntry { return imaging.Legend(s.engine.Registry()) }

// LULC returns the class grid of year.
func (s *Service) LULC(ctx context.Context, year int) (*raster.ClassGrid, error) {
	path, err := s.catalog.LULCPath(year)
	if err != nil {
		return nil, err
	}
	return load(ctx, s, path, s.cache.Class, "lulc %d", year)
}

// Change returns the change grid between start and end.
func (s *Service) Change(ctx context.Context, start, end int) (*raster.ChangeGrid, error) {
	path, err := s.catalog.ChangePath(start, end)
	if err != nil {
		return nil, err
	}
	return load(ctx, s, path, s.cache.Change, "change %d-%d", start, end)
}

// Confidence returns the confidence grid of year, read with the configured
// scale.
func (s *Service) Confidence(ctx context.Context, year int) (*raster.ConfidenceGrid, error) {
	path, err := s.catalog.ConfidencePath(year)
	if err != nil {
		return nil, err
	}
	get := func(p string) (*raster.ConfidenceGrid, error) { return s.cache.Confidence(p, s.scale) }
	return load(ctx, s, path, get, "confidence %d", year)
}

func load[G any](ctx context.Context, s *Service, path string, get func(string) (*G, error), format string, args ...interface{}) (*G, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	g, err := get(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
	}
	if s.metrics != nil {
		s.metrics.SetCacheEntries(s.cache.Len())
	}
	s.log.Debug(component, "raster ready", logging.Fields{
		"path":        path,
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return g, nil
}

// ClearCache drops every decoded raster.
func (s *Service) ClearCache() {
	s.cache.Clear()
	if s.metrics != nil {
		s.metrics.SetCacheEntries(0)
	}
}

// observe runs fn as operation op over a grid of pixels cells, recording
// metrics and logging failures once.
func (s *Service) observe(ctx context.Context, op string, pixels int, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var timer *metrics.Timer
	if s.metrics != nil {
		timer = s.metrics.NewTimer(s.metrics.OperationDuration.WithLabelValues(op))
	}

	err := fn()

	status := "ok"
	if err != nil {
		status = string(KindOf(err))
	}
	if s.metrics != nil {
		timer.ObserveDuration()
		s.metrics.RecordOperation(op, status, pixels)
	}

	if err != nil {
		fields := logging.Fields{"operation": op, "kind": status, "pixels": pixels}
		if KindOf(err) == KindInternal {
			s.log.Error(component, "operation failed", err, fields)
		} else {
			fields["error"] = err.Error()
			s.log.Warn(component, "operation rejected", fields)
		}
	}
	return err
}

// resolvePixelSize returns the configured size when none was given. An
// explicit zero is passed through so the engine rejects it.
func (s *Service) resolvePixelSize(pixelSize *float64) float64 {
	if pixelSize == nil {
		return s.pixelSize
	}
	return *pixelSize
}
