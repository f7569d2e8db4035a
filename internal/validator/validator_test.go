package validator

import (
	"context"
	"testing"

	"svw.info/bigsudoku/internal/domain"
)

func pattern(shape domain.Shape) domain.Solution {
	sol := make(domain.Solution, shape.NumCells)
	k := shape.Order
	for r := 0; r < shape.Side; r++ {
		for c := 0; c < shape.Side; c++ {
			sol[shape.CellIndex(r, c)] = uint16((k*(r%k)+r/k+c)%shape.Side + 1)
		}
	}
	return sol
}

func TestValidateAccepts(t *testing.T) {
	shape, err := domain.NewShape(3)
	if err != nil {
		t.Fatal(err)
	}
	sol := pattern(shape)
	p := &domain.Puzzle{Shape: shape, Givens: []domain.FixedValue{
		{Cell: 0, Value: int(sol[0])},
	}}
	ok, conf, err := New().Validate(context.Background(), p, sol)
	if err != nil || !ok {
		t.Fatalf("valid grid rejected: err=%v conflicts=%v", err, conf)
	}
}

func TestValidateRejectsDuplicate(t *testing.T) {
	shape, err := domain.NewShape(3)
	if err != nil {
		t.Fatal(err)
	}
	sol := pattern(shape)
	sol[1] = sol[0] // row duplicate
	ok, conf, _ := New().Validate(context.Background(), &domain.Puzzle{Shape: shape}, sol)
	if ok || len(conf) == 0 {
		t.Fatalf("duplicate not reported: ok=%v conflicts=%v", ok, conf)
	}
}

func TestValidateRejectsChangedGiven(t *testing.T) {
	shape, err := domain.NewShape(3)
	if err != nil {
		t.Fatal(err)
	}
	sol := pattern(shape)
	want := int(sol[40])
	p := &domain.Puzzle{Shape: shape, Givens: []domain.FixedValue{
		{Cell: 40, Value: want%9 + 1},
	}}
	ok, conf, _ := New().Validate(context.Background(), p, sol)
	if ok || len(conf) != 1 {
		t.Fatalf("given change not reported: ok=%v conflicts=%v", ok, conf)
	}
}

func TestValidateDiagonals(t *testing.T) {
	// The canonical pattern repeats values on the main diagonal, so it
	// must fail exactly when the X variant is requested.
	shape, err := domain.NewShape(3)
	if err != nil {
		t.Fatal(err)
	}
	sol := pattern(shape)

	ok, _, _ := New().Validate(context.Background(), &domain.Puzzle{Shape: shape}, sol)
	if !ok {
		t.Fatal("standard variant rejected the pattern grid")
	}
	ok, conf, _ := New().Validate(context.Background(), &domain.Puzzle{Shape: shape, Variant: domain.SudokuX}, sol)
	if ok || len(conf) == 0 {
		t.Fatalf("diagonal duplicates not reported: ok=%v conflicts=%v", ok, conf)
	}
}

func TestValidateRangeAndLength(t *testing.T) {
	shape, err := domain.NewShape(2)
	if err != nil {
		t.Fatal(err)
	}
	if ok, _, err := New().Validate(context.Background(), &domain.Puzzle{Shape: shape}, make(domain.Solution, 3)); err == nil || ok {
		t.Fatal("short solution accepted")
	}
	sol := pattern(shape)
	sol[0] = 5 // out of range for side 4
	if ok, _, err := New().Validate(context.Background(), &domain.Puzzle{Shape: shape}, sol); err == nil || ok {
		t.Fatal("out-of-range value accepted")
	}
}
