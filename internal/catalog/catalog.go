// Package catalog resolves survey years and year pairs to raster files.
package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNotAvailable is returned for years or year pairs without data.
var ErrNotAvailable = errors.New("catalog: data not available")

// Layer names.
const (
	LayerLULC       = "lulc"
	LayerChange     = "change"
	LayerConfidence = "confidence"
)

// Pair is a start/end year combination of a change raster.
type Pair struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (p Pair) String() string {
	return fmt.Sprintf("%d-%d", p.Start, p.End)
}

// NotAvailableError reports a request for a layer the catalog does not hold.
type NotAvailableError struct {
	Layer     string
	Key       string
	Available []string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("%s data not available for %s (available: %s)",
		e.Layer, e.Key, strings.Join(e.Available, ", "))
}

func (e *NotAvailableError) Unwrap() error { return ErrNotAvailable }

// Layout describes where rasters live on disk.
type Layout struct {
	DataDir         string
	Region          string
	LULCYears       []int
	ChangePairs     []Pair
	ConfidenceFiles map[int]string
}

// Catalog maps years and pairs to file paths. It is immutable after New.
type Catalog struct {
	dir        string
	region     string
	lulc       map[int]bool
	change     map[Pair]bool
	confidence map[int]string

	lulcYears       []int
	changePairs     []Pair
	confidenceYears []int
}

// New builds a catalog from layout. Years are reported in ascending order
// and change pairs in configuration order.
func New(layout Layout) *Catalog {
	c := &Catalog{
		dir:        layout.DataDir,
		region:     layout.Region,
		lulc:       make(map[int]bool, len(layout.LULCYears)),
		change:     make(map[Pair]bool, len(layout.ChangePairs)),
		confidence: make(map[int]string, len(layout.ConfidenceFiles)),
	}

	for _, y := range layout.LULCYears {
		if !c.lulc[y] {
			c.lulc[y] = true
			c.lulcYears = append(c.lulcYears, y)
		}
	}
	sort.Ints(c.lulcYears)

	for _, p := range layout.ChangePairs {
		if !c.change[p] {
			c.change[p] = true
			c.changePairs = append(c.changePairs, p)
		}
	}

	for y, name := range layout.ConfidenceFiles {
		c.confidence[y] = name
		c.confidenceYears = append(c.confidenceYears, y)
	}
	sort.Ints(c.confidenceYears)

	return c
}

// LULCPath returns the land-cover raster of year.
func (c *Catalog) LULCPath(year int) (string, error) {
	if !c.lulc[year] {
		return "", &NotAvailableError{Layer: LayerLULC, Key: strconv.Itoa(year), Available: yearStrings(c.lulcYears)}
	}
	name := fmt.Sprintf("%s_LULC_%d.tif", c.region, year)
	return filepath.Join(c.dir, LayerLULC, name), nil
}

// ChangePath returns the change raster between start and end.
func (c *Catalog) ChangePath(start, end int) (string, error) {
	p := Pair{Start: start, End: end}
	if !c.change[p] {
		avail := make([]string, len(c.changePairs))
		for i, cp := range c.changePairs {
			avail[i] = cp.String()
		}
		return "", &NotAvailableError{Layer: LayerChange, Key: p.String(), Available: avail}
	}
	name := fmt.Sprintf("%s_LULC_Change_%d_%d.tif", c.region, start, end)
	return filepath.Join(c.dir, LayerChange, name), nil
}

// ConfidencePath returns the confidence raster of year.
func (c *Catalog) ConfidencePath(year int) (string, error) {
	name, ok := c.confidence[year]
	if !ok {
		return "", &NotAvailableError{Layer: LayerConfidence, Key: strconv.Itoa(year), Available: yearStrings(c.confidenceYears)}
	}
	return filepath.Join(c.dir, LayerConfidence, name), nil
}

// Listing summarizes what the catalog holds.
type Listing struct {
	LULCYears       []int  `json:"lulc_years"`
	ChangePairs     []Pair `json:"change_pairs"`
	ConfidenceYears []int  `json:"confidence_years"`
}

// List returns copies of the available years and pairs.
func (c *Catalog) List() Listing {
	return Listing{
		LULCYears:       append([]int{}, c.lulcYears...),
		ChangePairs:     append([]Pair{}, c.changePairs...),
		ConfidenceYears: append([]int{}, c.confidenceYears...),
	}
}

func yearStrings(years []int) []string {
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = strconv.Itoa(y)
	}
	return out
}
