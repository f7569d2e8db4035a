// Package format reads and writes the plain-text grid format.
//
// Two layouts are accepted. The short form uses one character per cell:
// digits 1-9, then A-Z for 10..35, then a-z for 36..61, with '.' or '0'
// for unknown cells; whitespace is ignored. Grids whose side exceeds 61
// use the numeric form: whitespace-separated decimal values with '.' or
// '0' for unknowns. In both forms the grid order is inferred from the
// cell count. Lines may carry '#' comments, and a line reading "sudoku-x"
// selects the diagonal variant.
package format

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"svw.info/bigsudoku/internal/domain"
)

// maxShortValue is the largest value the one-character alphabet covers.
const maxShortValue = 61

// Parse reads a puzzle from text.
func Parse(text string) (*domain.Puzzle, error) {
	body, sudokuX := preprocess(text)

	variant := domain.Standard
	if sudokuX {
		variant = domain.SudokuX
	}

	short, errShort := parseShort(body)
	if errShort == nil {
		short.Variant = variant
		return short, nil
	}
	numeric, errNumeric := parseNumeric(body)
	if errNumeric == nil {
		numeric.Variant = variant
		return numeric, nil
	}
	return nil, errors.Join(errShort, errNumeric)
}

// preprocess strips '#' comments and extracts the sudoku-x marker line.
func preprocess(text string) (string, bool) {
	var b strings.Builder
	sudokuX := false
	for _, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if isVariantMarker(line) {
			sudokuX = true
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), sudokuX
}

func isVariantMarker(line string) bool {
	norm := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(line)))
	return norm == "sudokux"
}

// guessShape infers the grid order from the cell count.
func guessShape(numCells int) (domain.Shape, error) {
	order := int(math.Round(math.Sqrt(math.Sqrt(float64(numCells)))))
	side := order * order
	if order < 1 || side*side != numCells {
		return domain.Shape{}, fmt.Errorf("cell count %d does not make a square grid", numCells)
	}
	return domain.NewShape(order)
}

func parseShort(body string) (*domain.Puzzle, error) {
	compact := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, body)
	if compact == "" {
		return nil, errors.New("empty input")
	}

	cells := []rune(compact)
	shape, err := guessShape(len(cells))
	if err != nil {
		return nil, err
	}
	if shape.Side > maxShortValue {
		return nil, fmt.Errorf("side length %d exceeds the single-character alphabet", shape.Side)
	}

	var givens []domain.FixedValue
	for i, r := range cells {
		if r == '.' || r == '0' {
			continue
		}
		v, ok := runeValue(r)
		if !ok || v > shape.Side {
			return nil, fmt.Errorf("unrecognized cell character %q", r)
		}
		givens = append(givens, domain.FixedValue{Cell: i, Value: v})
	}

	return &domain.Puzzle{Shape: shape, Givens: givens}, nil
}

func parseNumeric(body string) (*domain.Puzzle, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, errors.New("empty input")
	}

	shape, err := guessShape(len(fields))
	if err != nil {
		return nil, err
	}

	var givens []domain.FixedValue
	for i, f := range fields {
		if f == "." || f == "0" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("unrecognized cell token %q", f)
		}
		if v < 1 || v > shape.Side {
			return nil, fmt.Errorf("value out of range: %d", v)
		}
		givens = append(givens, domain.FixedValue{Cell: i, Value: v})
	}

	return &domain.Puzzle{Shape: shape, Givens: givens}, nil
}

// runeValue maps an alphabet character to its value.
func runeValue(r rune) (int, bool) {
	switch {
	case r >= '1' && r <= '9':
		return int(r-'1') + 1, true
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10, true
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 36, true
	}
	return 0, false
}

// valueRune maps a value in 1..61 to its alphabet character.
func valueRune(v int) rune {
	switch {
	case v <= 9:
		return rune('1' + v - 1)
	case v <= 35:
		return rune('A' + v - 10)
	default:
		return rune('a' + v - 36)
	}
}
