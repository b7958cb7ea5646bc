package analytics

import (
	"github.com/ironsheep/landcover-analytics/internal/raster"
)

// Transition is one non-zero cell of a transition matrix.
type Transition struct {
	FromClass  string  `json:"from_class"`
	ToClass    string  `json:"to_class"`
	PixelCount int     `json:"pixel_count"`
	AreaHa     float64 `json:"area_ha"`
}

// TransitionResult describes class change between two dates.
//
// Rows of both matrices are "from" classes and columns "to" classes, in
// registry order; Classes holds the shared row/column labels.
type TransitionResult struct {
	Classes          []string     `json:"classes"`
	MatrixArea       [][]float64  `json:"matrix_area"`
	MatrixPercentage [][]float64  `json:"matrix_percentage"`
	Breakdown        []Transition `json:"breakdown"`
	TotalAreaHa      float64      `json:"total_area_ha"`
	PixelSizeM       float64      `json:"pixel_size_m"`
}

// Transitions builds the class transition matrix between an older and a
// newer class grid of the same shape.
//
// Pixels that are nodata in either grid do not contribute, so the matrix
// area equals the older grid's area only where the newer grid is valid
// too. Percentages are row-normalized from pixel counts; a "from" class
// with no pixels gets an all-zero row.
func (e *Engine) Transitions(older, newer *raster.ClassGrid, pixelSize float64) (*TransitionResult, error) {
	const op = "transition matrix"
	if err := validate(op, "old", older); err != nil {
		return nil, err
	}
	if err := validate(op, "new", newer); err != nil {
		return nil, err
	}
	if err := raster.CheckShape(op, "old", older, "new", newer); err != nil {
		return nil, err
	}
	pixelArea, err := PixelAreaHa(pixelSize)
	if err != nil {
		return nil, err
	}

	n := e.reg.Len()
	counts := make([]int, n*n)
	for i := range older.Cells {
		from, to := older.Cells[i], newer.Cells[i]
		fromOK, toOK := e.nodata.ValidClass(from), e.nodata.ValidClass(to)
		fi, ti := -1, -1
		if fromOK {
			if fi, err = e.checkClassCell(op, older, i); err != nil {
				return nil, err
			}
		}
		if toOK {
			if ti, err = e.checkClassCell(op, newer, i); err != nil {
				return nil, err
			}
		}
		if fi < 0 || ti < 0 {
			continue
		}
		counts[fi*n+ti]++
	}

	labels := e.reg.Labels()
	result := &TransitionResult{
		Classes:          labels,
		MatrixArea:       make([][]float64, n),
		MatrixPercentage: make([][]float64, n),
		Breakdown:        []Transition{},
		PixelSizeM:       pixelSize,
	}

	total := 0
	for i := 0; i < n; i++ {
		row := counts[i*n : (i+1)*n]
		rowSum := 0
		for _, c := range row {
			rowSum += c
		}
		total += rowSum

		result.MatrixArea[i] = make([]float64, n)
		result.MatrixPercentage[i] = make([]float64, n)
		for j, c := range row {
			area := round(float64(c)*pixelArea, 2)
			result.MatrixArea[i][j] = area
			if rowSum > 0 {
				result.MatrixPercentage[i][j] = round(float64(c)/float64(rowSum)*100, 1)
			}
			if c > 0 {
				result.Breakdown = append(result.Breakdown, Transition{
					FromClass:  labels[i],
					ToClass:    labels[j],
					PixelCount: c,
					AreaHa:     area,
				})
			}
		}
	}
	result.TotalAreaHa = round(float64(total)*pixelArea, 2)
	return result, nil
}
