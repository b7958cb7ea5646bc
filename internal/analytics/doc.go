// Package analytics computes land-cover statistics over in-memory rasters.
//
// The Engine offers four groups of operations:
//   - AreaStats: per-class area and percentage of one class grid
//   - Transitions: class-to-class change matrix between two class grids
//   - ConfidenceSummary, ConfidenceByClass, ConfidenceByChange: aggregate
//     classification confidence, optionally partitioned by class or change
//   - ConfidenceBands: pixel counts per confidence band
//
// # Nodata
//
// Which cells carry data is decided by the engine's raster.NodataPolicy and
// nowhere else. Class grids use 0 as background, confidence values <= 0 are
// background, and change grids treat 0 as unchanged.
//
// # Rounding
//
// Areas, percentages and means are rounded to 2 decimals and the row-normalized
// transition percentages to 1 decimal, so results serialize to JSON without
// further formatting. Confidence min, max and median are whole percents.
//
// # Errors
//
// Grids combined in one call must share dimensions (raster.ErrShapeMismatch).
// Area and transition statistics need a label for every valid pixel and fail
// with landcover.ErrUnknownClass otherwise. An empty confidence grid makes
// ConfidenceSummary return ErrNoData; every other operation reports empty
// partitions as zero counts with a nil mean instead of failing.
package analytics
