package service

import (
	"errors"
	"os"

	"github.com/ironsheep/landcover-analytics/internal/analytics"
	"github.com/ironsheep/landcover-analytics/internal/catalog"
	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// ErrInvalidArgument is returned for request parameters outside their domain.
var ErrInvalidArgument = errors.New("invalid argument")

// Kind classifies an error for transports.
type Kind string

const (
	KindPrecondition Kind = "precondition"
	KindNotAvailable Kind = "not_available"
	KindNoData       Kind = "no_data"
	KindInternal     Kind = "internal"
)

// KindOf maps err to the kind transports report.
func KindOf(err error) Kind {
	switch {
	case errors.Is(err, raster.ErrShapeMismatch),
		errors.Is(err, raster.ErrEmptyGrid),
		errors.Is(err, raster.ErrRaggedRows),
		errors.Is(err, landcover.ErrUnknownClass),
		errors.Is(err, analytics.ErrInvalidPixelSize),
		errors.Is(err, ErrInvalidArgument):
		return KindPrecondition
	case errors.Is(err, catalog.ErrNotAvailable),
		errors.Is(err, os.ErrNotExist):
		return KindNotAvailable
	case errors.Is(err, analytics.ErrNoData):
		return KindNoData
	}
	return KindInternal
}
