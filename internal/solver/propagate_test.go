package solver

import (
	"testing"

	"svw.info/bigsudoku/internal/bitset"
	"svw.info/bigsudoku/internal/domain"
)

func engineFor(t *testing.T, p *domain.Puzzle) *engine {
	t.Helper()
	e, err := newEngine(p, DefaultOptions())
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	return e
}

func TestInitialPropagationDetectsConflict(t *testing.T) {
	shape := shapeOf(t, 3)
	p := &domain.Puzzle{Shape: shape, Givens: []domain.FixedValue{
		{Cell: 0, Value: 1},
		{Cell: 1, Value: 1}, // same row
	}}
	e := engineFor(t, p)
	e.acc.pushAll()
	if e.propagate() {
		t.Fatal("propagation succeeded on conflicting givens")
	}

	bumped := false
	for _, w := range e.weights {
		if w > 1 {
			bumped = true
		}
	}
	if !bumped {
		t.Fatal("no constraint weight was bumped on failure")
	}
	if _, ok := e.acc.pop(); ok {
		t.Fatal("worklist not cleared after contradiction")
	}
}

func TestPropagationIdempotent(t *testing.T) {
	shape := shapeOf(t, 3)
	var givens []domain.FixedValue
	for c := 0; c < shape.Side; c++ {
		givens = append(givens, domain.FixedValue{Cell: c, Value: patternValue(shape, 0, c)})
	}
	p := &domain.Puzzle{Shape: shape, Givens: givens}

	e := engineFor(t, p)
	e.acc.pushAll()
	if !e.propagate() {
		t.Fatal("propagation failed")
	}
	snapshot := make([]bitset.Mask, shape.NumCells)
	for c := range snapshot {
		snapshot[c] = e.dom.Domain(c)
	}

	e.acc.pushAll()
	if !e.propagate() {
		t.Fatal("second propagation failed")
	}
	for c := range snapshot {
		if e.dom.Domain(c) != snapshot[c] {
			t.Fatalf("cell %d changed on re-propagation", c)
		}
	}
}

func TestWeightsRiseOnUnsolvablePuzzle(t *testing.T) {
	// Two 1s in one box make the initial propagation fail; every weight
	// must end at least at its initial value and the sum strictly above.
	shape := shapeOf(t, 2)
	p := &domain.Puzzle{Shape: shape, Givens: []domain.FixedValue{
		{Cell: 0, Value: 1},
		{Cell: 5, Value: 1}, // same box as cell 0
	}}
	e := engineFor(t, p)
	e.run(nil)

	var sum uint32
	for _, w := range e.weights {
		if w < 1 {
			t.Fatalf("weight fell below 1: %d", w)
		}
		sum += w
	}
	if sum <= uint32(len(e.weights)) {
		t.Fatal("no weight increased on an unsolvable puzzle")
	}
}
