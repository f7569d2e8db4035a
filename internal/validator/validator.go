package validator

import (
	"context"
	"errors"

	"svw.info/bigsudoku/internal/bitset"
	"svw.info/bigsudoku/internal/domain"
)

type FastValidator struct{}

func New() *FastValidator { return &FastValidator{} }

// Validate checks a candidate solution: every value in range, every house
// (rows, columns, boxes, and diagonals for Sudoku-X) pairwise distinct,
// and every given preserved. Conflicting cells are reported by coordinate.
func (v *FastValidator) Validate(ctx context.Context, p *domain.Puzzle, sol domain.Solution) (bool, []domain.CellCoord, error) {
	shape := p.Shape
	if len(sol) != shape.NumCells {
		return false, nil, errors.New("solution length does not match grid")
	}
	for _, val := range sol {
		if int(val) < 1 || int(val) > shape.Side {
			return false, nil, errors.New("solution value out of range")
		}
	}

	conf := make([]domain.CellCoord, 0, 8)
	check := func(cells []int) {
		var m bitset.Mask
		for _, idx := range cells {
			val := int(sol[idx])
			if m.Contains(val) {
				r, c := shape.RowCol(idx)
				conf = append(conf, domain.CellCoord{Row: r, Col: c})
			}
			m = m.With(val)
		}
	}

	line := make([]int, shape.Side)
	// rows
	for r := 0; r < shape.Side; r++ {
		for c := 0; c < shape.Side; c++ {
			line[c] = shape.CellIndex(r, c)
		}
		check(line)
	}
	// cols
	for c := 0; c < shape.Side; c++ {
		for r := 0; r < shape.Side; r++ {
			line[r] = shape.CellIndex(r, c)
		}
		check(line)
	}
	// boxes
	k := shape.Order
	for br := 0; br < k; br++ {
		for bc := 0; bc < k; bc++ {
			i := 0
			for dr := 0; dr < k; dr++ {
				for dc := 0; dc < k; dc++ {
					line[i] = shape.CellIndex(br*k+dr, bc*k+dc)
					i++
				}
			}
			check(line)
		}
	}
	// diagonals
	if p.Variant == domain.SudokuX {
		for r := 0; r < shape.Side; r++ {
			line[r] = shape.CellIndex(r, r)
		}
		check(line)
		for r := 0; r < shape.Side; r++ {
			line[r] = shape.CellIndex(r, shape.Side-r-1)
		}
		check(line)
	}

	// givens
	for _, g := range p.Givens {
		if int(sol[g.Cell]) != g.Value {
			r, c := shape.RowCol(g.Cell)
			conf = append(conf, domain.CellCoord{Row: r, Col: c})
		}
	}

	return len(conf) == 0, conf, nil
}
