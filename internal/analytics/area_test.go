package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/landcover-analytics/internal/landcover"
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

func classGrid(t *testing.T, rows [][]uint16) *raster.ClassGrid {
	t.Helper()
	g, err := raster.GridFromRows(rows)
	require.NoError(t, err)
	return g
}

func TestAreaStats_Example(t *testing.T) {
	g := classGrid(t, [][]uint16{{1, 1}, {2, 0}})

	got, err := Default().AreaStats(g, 10)
	require.NoError(t, err)

	assert.Equal(t, 3, got.ValidPixels)
	assert.Equal(t, 4, got.TotalPixels)
	assert.Equal(t, 0.03, got.TotalAreaHa)
	require.Len(t, got.Stats, 5)

	assert.Equal(t, "Forest", got.Stats[0].ClassName)
	assert.Equal(t, 0.02, got.Stats[0].AreaHa)
	assert.Equal(t, 66.67, got.Stats[0].Percentage)

	assert.Equal(t, "Water Bodies", got.Stats[1].ClassName)
	assert.Equal(t, 0.01, got.Stats[1].AreaHa)
	assert.Equal(t, 33.33, got.Stats[1].Percentage)

	for _, s := range got.Stats[2:] {
		assert.Zero(t, s.PixelCount, s.ClassName)
		assert.Zero(t, s.AreaHa, s.ClassName)
	}
}

func TestAreaStats_CountsPartitionValidPixels(t *testing.T) {
	grids := [][][]uint16{
		{{1, 2, 3}, {4, 5, 0}},
		{{5, 5, 5, 5}},
		{{0, 0}, {0, 3}},
		{{1, 2}, {3, 4}, {5, 1}, {2, 0}},
	}

	for _, rows := range grids {
		got, err := Default().AreaStats(classGrid(t, rows), DefaultPixelSize)
		require.NoError(t, err)

		sum := 0
		for _, s := range got.Stats {
			sum += s.PixelCount
		}
		assert.Equal(t, got.ValidPixels, sum, "rows %v", rows)
	}
}

func TestAreaStats_NoValidPixels(t *testing.T) {
	got, err := Default().AreaStats(classGrid(t, [][]uint16{{0, 0}, {0, 0}}), 10)
	require.NoError(t, err)

	assert.Zero(t, got.TotalAreaHa)
	assert.Zero(t, got.ValidPixels)
	assert.NotNil(t, got.Stats)
	assert.Empty(t, got.Stats)
}

func TestAreaStats_PixelSize(t *testing.T) {
	g := classGrid(t, [][]uint16{{3, 3, 3, 3}})

	got, err := Default().AreaStats(g, 30)
	require.NoError(t, err)
	// 30 m pixels are 0.09 ha each.
	assert.Equal(t, 0.36, got.TotalAreaHa)
	assert.Equal(t, 0.36, got.Stats[2].AreaHa)
	assert.Equal(t, 100.0, got.Stats[2].Percentage)

	for _, bad := range []float64{0, -10} {
		_, err := Default().AreaStats(g, bad)
		assert.ErrorIs(t, err, ErrInvalidPixelSize)
	}
}

func TestAreaStats_UnknownClass(t *testing.T) {
	_, err := Default().AreaStats(classGrid(t, [][]uint16{{1, 7}}), 10)
	require.ErrorIs(t, err, landcover.ErrUnknownClass)

	var uce *landcover.UnknownClassError
	require.True(t, errors.As(err, &uce))
	assert.Equal(t, uint16(7), uce.Value)
	assert.Equal(t, 1, uce.X)
	assert.Equal(t, 0, uce.Y)
}

func TestAreaStats_CustomNodata(t *testing.T) {
	e := NewEngine(landcover.Default(), raster.NodataPolicy{Class: 5})
	got, err := e.AreaStats(classGrid(t, [][]uint16{{1, 5}, {5, 5}}), 10)
	require.NoError(t, err)

	assert.Equal(t, 1, got.ValidPixels)
	assert.Equal(t, 100.0, got.Stats[0].Percentage)
	assert.Zero(t, got.Stats[4].PixelCount)
}

func TestAreaStats_Idempotent(t *testing.T) {
	g := classGrid(t, [][]uint16{{1, 2, 3}, {3, 2, 0}})
	before := append([]uint16(nil), g.Cells...)

	a, err := Default().AreaStats(g, 10)
	require.NoError(t, err)
	b, err := Default().AreaStats(g, 10)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, before, g.Cells, "input grid must not be mutated")
}
