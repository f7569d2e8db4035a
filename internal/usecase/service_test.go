package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"svw.info/bigsudoku/internal/format"
	"svw.info/bigsudoku/internal/infrastructure/storage"
	"svw.info/bigsudoku/internal/solver"
	"svw.info/bigsudoku/internal/validator"
)

func TestServiceSolvesFromStorage(t *testing.T) {
	dir := t.TempDir()
	puzzle := "53..7....\n6..195...\n.98....6.\n8...6...3\n4..8.3..1\n7...2...6\n.6....28.\n...419..5\n....8..79\n"
	if err := os.WriteFile(filepath.Join(dir, "classic.sdk"), []byte(puzzle), 0o644); err != nil {
		t.Fatal(err)
	}

	uc := NewService(solver.NewGACSolver(solver.DefaultOptions()), validator.New(), storage.NewFS(dir))
	ctx := context.Background()

	names, err := uc.List(ctx)
	if err != nil || len(names) != 1 || names[0] != "classic.sdk" {
		t.Fatalf("List = %v, %v", names, err)
	}

	text, err := uc.Load(ctx, "classic.sdk")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := format.Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	sol, stats, err := uc.Solve(ctx, p)
	if err != nil {
		t.Fatalf("Solve: %v (stats=%+v)", err, stats)
	}
	ok, conf, err := uc.Validate(ctx, p, sol)
	if err != nil || !ok {
		t.Fatalf("Validate: ok=%v conf=%v err=%v", ok, conf, err)
	}

	if err := uc.Save(ctx, "classic.out", format.Render(p.Shape, sol)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	saved, err := os.ReadFile(filepath.Join(dir, "classic.out"))
	if err != nil || len(saved) == 0 {
		t.Fatalf("saved solution missing: %v", err)
	}
}

func TestServiceNilGuards(t *testing.T) {
	uc := &Service{}
	if _, _, err := uc.Solve(context.Background(), nil); !errors.Is(err, errNotConfigured) {
		t.Fatalf("err = %v", err)
	}
	if _, err := uc.Load(context.Background(), "x"); !errors.Is(err, errNotConfigured) {
		t.Fatalf("err = %v", err)
	}
}
