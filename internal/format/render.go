package format

import (
	"strconv"
	"strings"

	"svw.info/bigsudoku/internal/domain"
)

// Render writes a solution in the same alphabet the input format uses:
// one character per cell when the side fits the short alphabet, otherwise
// right-aligned decimal columns. Rows are newline-separated.
func Render(shape domain.Shape, sol domain.Solution) string {
	if shape.Side <= maxShortValue {
		return renderShort(shape, sol)
	}
	return renderNumeric(shape, sol)
}

func renderShort(shape domain.Shape, sol domain.Solution) string {
	var b strings.Builder
	b.Grow(shape.NumCells + shape.Side)
	for r := 0; r < shape.Side; r++ {
		for c := 0; c < shape.Side; c++ {
			b.WriteRune(valueRune(int(sol[shape.CellIndex(r, c)])))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderNumeric(shape domain.Shape, sol domain.Solution) string {
	width := len(strconv.Itoa(shape.Side))
	var b strings.Builder
	for r := 0; r < shape.Side; r++ {
		for c := 0; c < shape.Side; c++ {
			s := strconv.Itoa(int(sol[shape.CellIndex(r, c)]))
			if c > 0 {
				b.WriteByte(' ')
			}
			for pad := width - len(s); pad > 0; pad-- {
				b.WriteByte(' ')
			}
			b.WriteString(s)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderCompact writes a solution as a single bracketed line, for logs.
func RenderCompact(sol domain.Solution) string {
	parts := make([]string, len(sol))
	for i, v := range sol {
		parts[i] = strconv.Itoa(int(v))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
