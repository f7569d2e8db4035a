package solver

import (
	"testing"

	"svw.info/bigsudoku/internal/bitset"
)

func TestDomainsBasics(t *testing.T) {
	d := NewDomains(4, 9)
	if d.Size(0) != 9 || d.IsSingleton(0) || d.IsEmpty(0) {
		t.Fatalf("fresh domain wrong: %v", d.Domain(0))
	}

	d.Fix(0, 5)
	if !d.IsSingleton(0) || d.Value(0) != 5 {
		t.Fatalf("after Fix: %v", d.Domain(0))
	}

	if !d.Remove(1, 3) {
		t.Fatal("Remove reported no change")
	}
	if d.Remove(1, 3) {
		t.Fatal("second Remove reported change")
	}
	if d.Size(1) != 8 {
		t.Fatalf("Size after remove = %d", d.Size(1))
	}

	d.Fix(2, 4)
	d.Fix(2, 7) // not in {4} anymore
	if !d.IsEmpty(2) {
		t.Fatal("conflicting Fix should empty the domain")
	}
}

func TestTrailRecordsOncePerLevel(t *testing.T) {
	d := NewDomains(2, 9)
	d.OpenLevel()
	d.Remove(0, 1)
	d.Remove(0, 2)
	d.RemoveMask(0, bitset.From(3).With(4))
	if len(d.trail) != 1 {
		t.Fatalf("trail entries = %d, want 1", len(d.trail))
	}
	d.Remove(1, 9)
	if len(d.trail) != 2 {
		t.Fatalf("trail entries = %d, want 2", len(d.trail))
	}
}

func TestUndoRestoresExactly(t *testing.T) {
	d := NewDomains(3, 121)
	d.Remove(0, 100) // root change, permanent
	before := []bitset.Mask{d.Domain(0), d.Domain(1), d.Domain(2)}

	d.OpenLevel()
	d.Fix(0, 7)
	d.RemoveMask(1, bitset.Full(60))
	mid := []bitset.Mask{d.Domain(0), d.Domain(1), d.Domain(2)}

	d.OpenLevel()
	d.Fix(1, 64)
	d.Remove(2, 121)
	d.UndoLevel()
	for i, want := range mid {
		if d.Domain(i) != want {
			t.Fatalf("cell %d after inner undo: %v, want %v", i, d.Domain(i), want)
		}
	}

	// A sibling level must re-record cells the undone level touched.
	d.OpenLevel()
	d.Fix(1, 65)
	d.UndoLevel()
	if d.Domain(1) != mid[1] {
		t.Fatalf("cell 1 after sibling undo: %v, want %v", d.Domain(1), mid[1])
	}

	d.UndoLevel()
	for i, want := range before {
		if d.Domain(i) != want {
			t.Fatalf("cell %d after outer undo: %v, want %v", i, d.Domain(i), want)
		}
	}
	if d.Level() != 0 || len(d.trail) != 0 {
		t.Fatalf("levels/trail not drained: %d/%d", d.Level(), len(d.trail))
	}
}
