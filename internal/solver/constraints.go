package solver

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/combin"

	"svw.info/bigsudoku/internal/bitset"
	"svw.info/bigsudoku/internal/domain"
)

// A handler is one constraint: a cell set plus an enforcement rule. The
// engine re-runs a handler whenever one of its cells changes and treats a
// false return as a contradiction.
type handler interface {
	cells() []int32
	enforce(d *Domains, e *allDiffEnforcer, acc *accumulator) bool
}

// house is an all-different constraint over a cell tuple, enforced to GAC
// by the shared enforcer. matched is the constraint's matching cache: per
// cell position, the value it was matched to last run, or -1. The cache is
// a hint; it is revalidated on use and never trailed.
type house struct {
	cellIdx   []int32
	values    bitset.Mask
	numValues int
	matched   []int16
}

func newHouse(cells []int32, values bitset.Mask) *house {
	matched := make([]int16, len(cells))
	for i := range matched {
		matched[i] = -1
	}
	return &house{
		cellIdx:   cells,
		values:    values,
		numValues: values.Count(),
		matched:   matched,
	}
}

func (h *house) cells() []int32 { return h.cellIdx }

func (h *house) enforce(d *Domains, e *allDiffEnforcer, acc *accumulator) bool {
	if len(h.cellIdx) == h.numValues {
		// Tight house: every value must be used exactly once. Two cheap
		// exits before the full matching machinery.
		var union bitset.Mask
		total := 0
		for _, c := range h.cellIdx {
			v := d.Domain(int(c))
			union = union.Union(v)
			total += v.Count()
		}
		if union.Intersect(h.values) != h.values {
			return false
		}
		if total == h.numValues {
			// All cells are singletons and the union is full, so the
			// house is already a permutation.
			return true
		}
	}
	return e.enforce(d, h.cellIdx, h.values, h.matched, acc)
}

// sameValue is the redundant intersection constraint for a house pair
// (A, B) with a shared segment: in any solution the values placed on A∖B
// equal the values placed on B∖A, so the two difference segments must keep
// identical candidate sets. Enforcing that equality removes a value from
// the rest of A whenever B confines it to the shared segment (pointing
// pairs/triples) and vice versa (claiming).
type sameValue struct {
	all    []int32
	cells0 []int32
	cells1 []int32
}

func newSameValue(cells0, cells1 []int32) *sameValue {
	all := make([]int32, 0, len(cells0)+len(cells1))
	all = append(all, cells0...)
	all = append(all, cells1...)
	return &sameValue{all: all, cells0: cells0, cells1: cells1}
}

func (h *sameValue) cells() []int32 { return h.all }

func (h *sameValue) enforce(d *Domains, _ *allDiffEnforcer, acc *accumulator) bool {
	var v0, v1 bitset.Mask
	for _, c := range h.cells0 {
		v0 = v0.Union(d.Domain(int(c)))
	}
	for _, c := range h.cells1 {
		v1 = v1.Union(d.Domain(int(c)))
	}
	if v0 == v1 {
		return true
	}

	common := v0.Intersect(v1)
	if common.Count() < len(h.cells0) {
		return false
	}

	if v0 != common && !restrictCells(d, h.cells0, common, acc) {
		return false
	}
	if v1 != common && !restrictCells(d, h.cells1, common, acc) {
		return false
	}
	return true
}

func restrictCells(d *Domains, cells []int32, allowed bitset.Mask, acc *accumulator) bool {
	for _, c := range cells {
		if d.Restrict(int(c), allowed) {
			if d.IsEmpty(int(c)) {
				return false
			}
			acc.addCell(c)
		}
	}
	return true
}

// intersectSorted merges two ascending cell lists. Every house is emitted
// in ascending cell order, so house-pair intersection is a linear merge.
func intersectSorted(a, b []int32) []int32 {
	var out []int32
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// makeHouses lists the primary houses: rows, columns, boxes, and for
// Sudoku-X the two main diagonals. Cells within a house ascend.
func makeHouses(shape domain.Shape, variant domain.Variant) [][]int32 {
	side, box := shape.Side, shape.Order
	houses := make([][]int32, 0, 3*side+2)

	for r := 0; r < side; r++ {
		cells := make([]int32, side)
		for c := 0; c < side; c++ {
			cells[c] = int32(shape.CellIndex(r, c))
		}
		houses = append(houses, cells)
	}

	for c := 0; c < side; c++ {
		cells := make([]int32, side)
		for r := 0; r < side; r++ {
			cells[r] = int32(shape.CellIndex(r, c))
		}
		houses = append(houses, cells)
	}

	for b := 0; b < side; b++ {
		cells := make([]int32, side)
		for i := 0; i < side; i++ {
			r := (b%box)*box + i/box
			c := (b/box)*box + i%box
			cells[i] = int32(shape.CellIndex(r, c))
		}
		houses = append(houses, cells)
	}

	if variant == domain.SudokuX {
		diag := make([]int32, side)
		anti := make([]int32, side)
		for r := 0; r < side; r++ {
			diag[r] = int32(shape.CellIndex(r, r))
			anti[r] = int32(shape.CellIndex(r, side-r-1))
		}
		houses = append(houses, diag, anti)
	}

	return houses
}

// buildHandlers constructs the constraint set for a puzzle: one
// all-different per house, plus a redundant intersection constraint for
// every house pair sharing at least minShared cells (0 disables them).
// It also returns the cell → handler-index table used for worklist seeding.
func buildHandlers(shape domain.Shape, variant domain.Variant, minShared int) ([]handler, [][]int32) {
	houses := makeHouses(shape, variant)
	full := bitset.Full(shape.Side)

	handlers := make([]handler, 0, len(houses))
	for _, cells := range houses {
		handlers = append(handlers, newHouse(cells, full))
	}

	if minShared > 0 && len(houses) > 1 {
		for _, pair := range combin.Combinations(len(houses), 2) {
			h0, h1 := houses[pair[0]], houses[pair[1]]
			shared := intersectSorted(h0, h1)
			if len(shared) < minShared {
				continue
			}
			inShared := lo.SliceToMap(shared, func(c int32) (int32, struct{}) {
				return c, struct{}{}
			})
			outside := func(c int32, _ int) bool {
				_, ok := inShared[c]
				return !ok
			}
			d0 := lo.Filter(h0, outside)
			d1 := lo.Filter(h1, outside)
			if len(d0) == 0 || len(d1) == 0 {
				continue
			}
			handlers = append(handlers, newSameValue(d0, d1))
		}
	}

	cellHandlers := make([][]int32, shape.NumCells)
	for hi, h := range handlers {
		for _, c := range h.cells() {
			cellHandlers[c] = append(cellHandlers[c], int32(hi))
		}
	}

	return handlers, cellHandlers
}
