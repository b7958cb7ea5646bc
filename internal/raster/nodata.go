package raster

// NodataPolicy decides which cells carry data. Every engine takes one policy
// value instead of restating "0 means background" on its own.
type NodataPolicy struct {
	// Class is the class-grid value meaning "no classification".
	Class uint16
	// ConfidenceFloor is the largest confidence value treated as nodata.
	ConfidenceFloor float64
}

// DefaultNodata treats class 0 and confidence <= 0 as nodata.
var DefaultNodata = NodataPolicy{Class: 0, ConfidenceFloor: 0}

// ValidClass reports whether a class-grid cell carries a classification.
func (p NodataPolicy) ValidClass(v uint16) bool { return v != p.Class }

// ValidConfidence reports whether a confidence cell carries a measurement.
func (p NodataPolicy) ValidConfidence(v float64) bool { return v > p.ConfidenceFloor }

// Changed reports whether a change-grid cell marks a change.
func (p NodataPolicy) Changed(v uint16) bool { return v != 0 }
