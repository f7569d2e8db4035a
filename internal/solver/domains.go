package solver

import "svw.info/bigsudoku/internal/bitset"

// Domains is the per-cell candidate store plus the undo trail.
//
// Mutations within a decision level only ever remove candidates. The trail
// records, once per cell per level, the domain as it was when the level
// first touched that cell; UndoLevel restores those snapshots bit for bit.
// Mutations at the root (no open level) are permanent and not trailed.
type Domains struct {
	cells     []bitset.Mask
	numValues int

	trail  []trailEntry
	levels []levelMark
	stamp  []uint32 // epoch that last saved each cell
	epochs uint32   // monotone level-epoch counter
}

type trailEntry struct {
	cell  int32
	prior bitset.Mask
}

type levelMark struct {
	trailLen int
	epoch    uint32
}

// NewDomains creates a store of numCells domains, each initially {1..numValues}.
func NewDomains(numCells, numValues int) *Domains {
	full := bitset.Full(numValues)
	cells := make([]bitset.Mask, numCells)
	for i := range cells {
		cells[i] = full
	}
	return &Domains{
		cells:     cells,
		numValues: numValues,
		stamp:     make([]uint32, numCells),
	}
}

// NumCells returns the number of cells in the store.
func (d *Domains) NumCells() int { return len(d.cells) }

// NumValues returns the size of the value universe.
func (d *Domains) NumValues() int { return d.numValues }

// Domain returns the candidate set of a cell.
func (d *Domains) Domain(c int) bitset.Mask { return d.cells[c] }

// Size returns the number of candidates left in a cell.
func (d *Domains) Size(c int) int { return d.cells[c].Count() }

// IsSingleton reports whether a cell has exactly one candidate.
func (d *Domains) IsSingleton(c int) bool { return d.cells[c].IsSingleton() }

// IsEmpty reports whether a cell has no candidates. An empty domain is a
// contradiction; callers must check after every mutation.
func (d *Domains) IsEmpty(c int) bool { return d.cells[c].IsEmpty() }

// Value returns the smallest candidate of a cell (the value, for singletons).
func (d *Domains) Value(c int) int { return d.cells[c].Min() }

// Level returns the number of open decision levels.
func (d *Domains) Level() int { return len(d.levels) }

// OpenLevel starts a new decision level.
func (d *Domains) OpenLevel() {
	d.epochs++
	d.levels = append(d.levels, levelMark{trailLen: len(d.trail), epoch: d.epochs})
}

// UndoLevel restores every cell touched since the matching OpenLevel and
// closes the level.
func (d *Domains) UndoLevel() {
	top := d.levels[len(d.levels)-1]
	for i := len(d.trail) - 1; i >= top.trailLen; i-- {
		e := d.trail[i]
		d.cells[e.cell] = e.prior
	}
	d.trail = d.trail[:top.trailLen]
	d.levels = d.levels[:len(d.levels)-1]
}

func (d *Domains) save(c int) {
	if len(d.levels) == 0 {
		return
	}
	epoch := d.levels[len(d.levels)-1].epoch
	if d.stamp[c] == epoch {
		return
	}
	d.stamp[c] = epoch
	d.trail = append(d.trail, trailEntry{cell: int32(c), prior: d.cells[c]})
}

// Fix restricts a cell to the single value v. Fixing a value no longer in
// the domain yields an empty domain.
func (d *Domains) Fix(c, v int) {
	next := d.cells[c].Intersect(bitset.From(v))
	if next == d.cells[c] {
		return
	}
	d.save(c)
	d.cells[c] = next
}

// Remove deletes one candidate. Returns whether the domain changed.
func (d *Domains) Remove(c, v int) bool {
	next := d.cells[c].Without(v)
	if next == d.cells[c] {
		return false
	}
	d.save(c)
	d.cells[c] = next
	return true
}

// RemoveMask deletes every candidate in m. Returns whether the domain changed.
func (d *Domains) RemoveMask(c int, m bitset.Mask) bool {
	next := d.cells[c].Diff(m)
	if next == d.cells[c] {
		return false
	}
	d.save(c)
	d.cells[c] = next
	return true
}

// Restrict intersects a cell with the allowed set. Returns whether the
// domain changed.
func (d *Domains) Restrict(c int, allowed bitset.Mask) bool {
	next := d.cells[c].Intersect(allowed)
	if next == d.cells[c] {
		return false
	}
	d.save(c)
	d.cells[c] = next
	return true
}
