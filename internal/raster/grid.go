package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when grids combined in one operation do
	// not share width and height.
	ErrShapeMismatch = errors.New("raster: grid shapes differ")

	// ErrEmptyGrid is returned for grids with no cells.
	ErrEmptyGrid = errors.New("raster: empty grid")

	// ErrRaggedRows is returned when rows passed to GridFromRows differ in length.
	ErrRaggedRows = errors.New("raster: rows have different lengths")
)

// Cell is the set of cell types a Grid can hold.
type Cell interface {
	~uint8 | ~uint16 | ~int32 | ~float32 | ~float64
}

// Grid is a row-major 2D array of cells.
//
// Cells[y*Width+x] holds the value at column x, row y. Grids are treated as
// read-only by every operation in this module.
type Grid[T Cell] struct {
	Width  int
	Height int
	Cells  []T
}

// ClassGrid holds land-cover class ids; 0 is background/nodata.
type ClassGrid = Grid[uint16]

// ChangeGrid holds change flags; 0 is unchanged, anything else changed.
type ChangeGrid = Grid[uint16]

// Shape is implemented by anything with grid dimensions.
type Shape interface {
	Dims() (width, height int)
}

// NewGrid allocates a zero-filled grid.
func NewGrid[T Cell](width, height int) (*Grid[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyGrid, width, height)
	}
	return &Grid[T]{Width: width, Height: height, Cells: make([]T, width*height)}, nil
}

// GridFromRows copies rows into a new grid.
func GridFromRows[T Cell](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(rows[0])
	g := &Grid[T]{Width: width, Height: len(rows), Cells: make([]T, 0, width*len(rows))}
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, y, len(row), width)
		}
		g.Cells = append(g.Cells, row...)
	}
	return g, nil
}

// Dims returns the grid width and height.
func (g *Grid[T]) Dims() (int, int) { return g.Width, g.Height }

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.Cells) }

// At returns the value at column x, row y.
func (g *Grid[T]) At(x, y int) T { return g.Cells[y*g.Width+x] }

// Rows returns a copy of the grid as a slice of rows.
func (g *Grid[T]) Rows() [][]T {
	rows := make([][]T, g.Height)
	for y := range rows {
		rows[y] = make([]T, g.Width)
		copy(rows[y], g.Cells[y*g.Width:(y+1)*g.Width])
	}
	return rows
}

// Validate checks that the cell slice matches the declared dimensions.
func (g *Grid[T]) Validate() error {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return ErrEmptyGrid
	}
	if len(g.Cells) != g.Width*g.Height {
		return fmt.Errorf("raster: grid %dx%d has %d cells", g.Width, g.Height, len(g.Cells))
	}
	return nil
}

// ShapeError describes a failed shape precondition.
type ShapeError struct {
	Op             string
	Left, Right    string
	LeftW, LeftH   int
	RightW, RightH int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: %s is %dx%d, %s is %dx%d",
		e.Op, ErrShapeMismatch, e.Left, e.LeftW, e.LeftH, e.Right, e.RightW, e.RightH)
}

func (e *ShapeError) Unwrap() error { return ErrShapeMismatch }

// CheckShape returns a *ShapeError when a and b differ in width or height.
// leftName and rightName identify the grids in the error message.
func CheckShape(op, leftName string, a Shape, rightName string, b Shape) error {
	aw, ah := a.Dims()
	bw, bh := b.Dims()
	if aw == bw && ah == bh {
		return nil
	}
	return &ShapeError{
		Op: op, Left: leftName, Right: rightName,
		LeftW: aw, LeftH: ah, RightW: bw, RightH: bh,
	}
}
