package ports

import (
	"context"
	"time"

	"svw.info/bigsudoku/internal/domain"
)

// Stats captures performance characteristics of a solve.
type Stats struct {
	Nodes        int // branching cells expanded
	Guesses      int // candidate values tried
	Backtracks   int // decision levels undone
	Propagations int // constraint propagator runs
	Duration     time.Duration
}

// Solver fills in a puzzle or reports that no solution exists.
type Solver interface {
	Solve(ctx context.Context, p *domain.Puzzle) (domain.Solution, Stats, error)
}

// Validator checks a candidate solution against the puzzle's constraints.
type Validator interface {
	Validate(ctx context.Context, p *domain.Puzzle, sol domain.Solution) (ok bool, conflicts []domain.CellCoord, err error)
}

// Storage reads puzzle text and persists rendered solutions.
type Storage interface {
	Load(ctx context.Context, name string) (string, error)
	Save(ctx context.Context, name, text string) error
	List(ctx context.Context) ([]string, error)
}
