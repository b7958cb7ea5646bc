package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/png" // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ErrUnsupportedRaster is returned for files that are not single-band rasters.
var ErrUnsupportedRaster = errors.New("raster: unsupported raster format")

// Loader decodes single-band raster files into grids.
//
// Gray, Gray16 and Paletted images are supported; the gray level (or palette
// index) becomes the cell value. A non-negative Nodata is rewritten to the
// policy's nodata value on load so engines only see one sentinel.
type Loader struct {
	// Nodata is the on-disk nodata value, or -1 when the files declare none.
	Nodata int
	Policy NodataPolicy
}

// NewLoader returns a loader for files without a declared nodata value.
func NewLoader(policy NodataPolicy) *Loader {
	return &Loader{Nodata: -1, Policy: policy}
}

// LoadClass decodes a class raster.
func (l *Loader) LoadClass(path string) (*ClassGrid, error) {
	g, err := l.load(path)
	if err != nil {
		return nil, err
	}
	if l.Nodata >= 0 {
		for i, v := range g.Cells {
			if int(v) == l.Nodata {
				g.Cells[i] = l.Policy.Class
			}
		}
	}
	return g, nil
}

// LoadChange decodes a change raster. Nodata cells read as unchanged.
func (l *Loader) LoadChange(path string) (*ChangeGrid, error) {
	g, err := l.load(path)
	if err != nil {
		return nil, err
	}
	if l.Nodata > 0 {
		for i, v := range g.Cells {
			if int(v) == l.Nodata {
				g.Cells[i] = 0
			}
		}
	}
	return g, nil
}

// LoadConfidence decodes a confidence raster with the given declared scale.
func (l *Loader) LoadConfidence(path string, scale Scale) (*ConfidenceGrid, error) {
	g, err := l.load(path)
	if err != nil {
		return nil, err
	}
	cg := &ConfidenceGrid{
		Grid:  Grid[float64]{Width: g.Width, Height: g.Height, Cells: make([]float64, len(g.Cells))},
		Scale: scale,
	}
	for i, v := range g.Cells {
		if l.Nodata >= 0 && int(v) == l.Nodata {
			cg.Cells[i] = l.Policy.ConfidenceFloor
			continue
		}
		cg.Cells[i] = float64(v)
	}
	return cg, nil
}

func (l *Loader) load(path string) (*Grid[uint16], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode raster %s: %w", path, err)
	}
	g, err := gridFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func gridFromImage(img image.Image) (*Grid[uint16], error) {
	b := img.Bounds()
	g, err := NewGrid[uint16](b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < g.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x, v := range src.Pix[off : off+g.Width] {
				g.Cells[y*g.Width+x] = uint16(v)
			}
		}
	case *image.Gray16:
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				g.Cells[y*g.Width+x] = src.Gray16At(x+b.Min.X, y+b.Min.Y).Y
			}
		}
	case *image.Paletted:
		for y := 0; y < g.Height; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x, v := range src.Pix[off : off+g.Width] {
				g.Cells[y*g.Width+x] = uint16(v)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedRaster, img)
	}
	return g, nil
}

// Cache memoizes decoded grids by path.
//
// Cache is safe for concurrent use. Entries stay until Evict or Clear.
type Cache struct {
	loader *Loader

	mu         sync.RWMutex
	class      map[string]*ClassGrid
	change     map[string]*ChangeGrid
	confidence map[string]*ConfidenceGrid
}

// NewCache creates an empty cache backed by loader.
func NewCache(loader *Loader) *Cache {
	return &Cache{
		loader:     loader,
		class:      make(map[string]*ClassGrid),
		change:     make(map[string]*ChangeGrid),
		confidence: make(map[string]*ConfidenceGrid),
	}
}

// Class returns the class grid at path, loading it on first use.
func (c *Cache) Class(path string) (*ClassGrid, error) {
	return cached(c, func(c *Cache) map[string]*ClassGrid { return c.class }, path, c.loader.LoadClass)
}

// Change returns the change grid at path, loading it on first use.
func (c *Cache) Change(path string) (*ChangeGrid, error) {
	return cached(c, func(c *Cache) map[string]*ChangeGrid { return c.change }, path, c.loader.LoadChange)
}

// Confidence returns the confidence grid at path, loading it on first use.
// The scale is only applied when the grid is first loaded.
func (c *Cache) Confidence(path string, scale Scale) (*ConfidenceGrid, error) {
	pick := func(c *Cache) map[string]*ConfidenceGrid { return c.confidence }
	return cached(c, pick, path, func(p string) (*ConfidenceGrid, error) {
		return c.loader.LoadConfidence(p, scale)
	})
}

func cached[G any](c *Cache, pick func(*Cache) map[string]*G, path string, load func(string) (*G, error)) (*G, error) {
	c.mu.RLock()
	if g, ok := pick(c)[path]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	pick(c)[path] = g
	c.mu.Unlock()
	return g, nil
}

// Len returns the number of cached grids.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.class) + len(c.change) + len(c.confidence)
}

// Evict removes every grid cached for path.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.class, path)
	delete(c.change, path)
	delete(c.confidence, path)
	c.mu.Unlock()
}

// Clear removes all cached grids.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.class = make(map[string]*ClassGrid)
	c.change = make(map[string]*ChangeGrid)
	c.confidence = make(map[string]*ConfidenceGrid)
	c.mu.Unlock()
}
