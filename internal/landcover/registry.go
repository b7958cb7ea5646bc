package landcover

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrUnknownClass is returned when a cell value has no registered class.
var ErrUnknownClass = errors.New("landcover: unknown class id")

// Class identifies a land-cover category. The zero value is not a class; it
// is the background/nodata value of class grids.
type Class uint8

// Registered classes, in registry order.
const (
	Forest Class = iota + 1
	WaterBodies
	Agriculture
	BarrenLand
	BuiltUp
)

// ClassInfo describes one registered class.
type ClassInfo struct {
	Class Class      `json:"id"`
	Label string     `json:"label"`
	Color color.RGBA `json:"-"`
}

// UnknownClassError reports a cell value that is not a registered class.
type UnknownClassError struct {
	Value uint16
	X, Y  int
	// Op names the operation that needed a label, if any.
	Op string
}

func (e *UnknownClassError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%v: %d", ErrUnknownClass, e.Value)
	}
	return fmt.Sprintf("%s: %v: %d at (%d,%d)", e.Op, ErrUnknownClass, e.Value, e.X, e.Y)
}

func (e *UnknownClassError) Unwrap() error { return ErrUnknownClass }

// Registry is an immutable, ordered table of classes. Iteration order is the
// order used for every statistics row, matrix row and matrix column.
type Registry struct {
	classes []ClassInfo
	index   [256]int8
}

// NewRegistry builds a registry from the given classes, keeping their order.
// Class ids must be non-zero and unique.
func NewRegistry(classes ...ClassInfo) (*Registry, error) {
	r := &Registry{classes: make([]ClassInfo, len(classes))}
	for i := range r.index {
		r.index[i] = -1
	}
	if len(classes) > 127 {
		return nil, fmt.Errorf("landcover: too many classes (%d)", len(classes))
	}
	for i, c := range classes {
		if c.Class == 0 {
			return nil, fmt.Errorf("landcover: class id 0 is reserved for nodata")
		}
		if r.index[c.Class] >= 0 {
			return nil, fmt.Errorf("landcover: duplicate class id %d", c.Class)
		}
		r.index[c.Class] = int8(i)
		r.classes[i] = c
	}
	return r, nil
}

var defaultRegistry = mustRegistry(
	ClassInfo{Class: Forest, Label: "Forest", Color: color.RGBA{45, 134, 69, 255}},
	ClassInfo{Class: WaterBodies, Label: "Water Bodies", Color: color.RGBA{34, 126, 204, 255}},
	ClassInfo{Class: Agriculture, Label: "Agriculture", Color: color.RGBA{104, 182, 47, 255}},
	ClassInfo{Class: BarrenLand, Label: "Barren Land", Color: color.RGBA{202, 169, 79, 255}},
	ClassInfo{Class: BuiltUp, Label: "Built-up", Color: color.RGBA{115, 115, 115, 255}},
)

func mustRegistry(classes ...ClassInfo) *Registry {
	r, err := NewRegistry(classes...)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the registry of the five study-area classes.
func Default() *Registry { return defaultRegistry }

// Len returns the number of registered classes.
func (r *Registry) Len() int { return len(r.classes) }

// Classes returns a copy of the registered classes in registry order.
func (r *Registry) Classes() []ClassInfo {
	out := make([]ClassInfo, len(r.classes))
	copy(out, r.classes)
	return out
}

// Labels returns the class labels in registry order.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.classes))
	for i, c := range r.classes {
		out[i] = c.Label
	}
	return out
}

// IndexOf returns the registry position of a raw cell value, or -1 when the
// value is not a registered class.
func (r *Registry) IndexOf(v uint16) int {
	if v > 255 {
		return -1
	}
	return int(r.index[v])
}

// Lookup returns the class registered for a raw cell value.
func (r *Registry) Lookup(v uint16) (ClassInfo, error) {
	i := r.IndexOf(v)
	if i < 0 {
		return ClassInfo{}, &UnknownClassError{Value: v}
	}
	return r.classes[i], nil
}

// Label returns the display label of c, or "" when c is not registered.
func (r *Registry) Label(c Class) string {
	i := r.IndexOf(uint16(c))
	if i < 0 {
		return ""
	}
	return r.classes[i].Label
}

// String implements fmt.Stringer using the default registry's labels.
func (c Class) String() string {
	if l := defaultRegistry.Label(c); l != "" {
		return l
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}
