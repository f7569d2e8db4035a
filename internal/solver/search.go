package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"svw.info/bigsudoku/internal/domain"
	"svw.info/bigsudoku/internal/ports"
)

// ErrUnsolvable reports that the puzzle has no solution: either the
// initial propagation failed or the full search tree was exhausted.
var ErrUnsolvable = errors.New("no solution exists")

// ErrCanceled reports that the context expired before the search finished.
var ErrCanceled = errors.New("search canceled")

// progressMask throttles debug progress records to every 8192 guesses.
const progressMask = 1<<13 - 1

// Options tunes the GAC solver.
type Options struct {
	// MinIntersection is the smallest shared-cell count for which a
	// redundant intersection constraint is emitted for a house pair.
	// 0 disables redundant constraints.
	MinIntersection int
	// Logger, when set, receives throttled search progress at debug level.
	Logger *slog.Logger
}

// DefaultOptions emits intersection constraints for every house pair
// sharing at least two cells.
func DefaultOptions() Options { return Options{MinIntersection: 2} }

// GACSolver solves by constraint propagation (Régin all-different
// filtering to generalized arc consistency) plus dom/wdeg backtracking
// search. It handles grids up to order 11 and the Sudoku-X variant.
type GACSolver struct {
	opts Options
}

func NewGACSolver(opts Options) *GACSolver { return &GACSolver{opts: opts} }

// Counters accumulates search effort.
type Counters struct {
	Nodes        uint64
	Guesses      uint64
	Backtracks   uint64
	Propagations uint64
}

// engine holds the solver state for one puzzle: the domain store, the
// constraint set with its weights, the shared enforcer, and the worklist.
type engine struct {
	shape        domain.Shape
	dom          *Domains
	handlers     []handler
	weights      []uint32
	cellHandlers [][]int32
	acc          *accumulator
	enf          *allDiffEnforcer
	counters     Counters
	logger       *slog.Logger
}

func newEngine(p *domain.Puzzle, opts Options) (*engine, error) {
	handlers, cellHandlers := buildHandlers(p.Shape, p.Variant, opts.MinIntersection)
	e := &engine{
		shape:        p.Shape,
		dom:          NewDomains(p.Shape.NumCells, p.Shape.Side),
		handlers:     handlers,
		weights:      make([]uint32, len(handlers)),
		cellHandlers: cellHandlers,
		acc:          newAccumulator(cellHandlers, len(handlers)),
		enf:          newAllDiffEnforcer(p.Shape.Side, p.Shape.Side),
		logger:       opts.Logger,
	}
	for i := range e.weights {
		e.weights[i] = 1
	}
	for _, g := range p.Givens {
		if g.Cell < 0 || g.Cell >= p.Shape.NumCells || g.Value < 1 || g.Value > p.Shape.Side {
			return nil, fmt.Errorf("given out of range: cell %d value %d", g.Cell, g.Value)
		}
		// Conflicting givens leave an empty domain here; the initial
		// propagation pass fails on it and the solve reports unsolvable.
		e.dom.Fix(g.Cell, g.Value)
	}
	return e, nil
}

// Solve implements ports.Solver.
func (s *GACSolver) Solve(ctx context.Context, p *domain.Puzzle) (domain.Solution, ports.Stats, error) {
	start := time.Now()
	e, err := newEngine(p, s.opts)
	if err != nil {
		return nil, ports.Stats{Duration: time.Since(start)}, err
	}

	solved, canceled := e.run(ctx)
	stats := ports.Stats{
		Nodes:        int(e.counters.Nodes),
		Guesses:      int(e.counters.Guesses),
		Backtracks:   int(e.counters.Backtracks),
		Propagations: int(e.counters.Propagations),
		Duration:     time.Since(start),
	}
	if canceled {
		return nil, stats, ErrCanceled
	}
	if !solved {
		return nil, stats, ErrUnsolvable
	}

	sol := make(domain.Solution, e.shape.NumCells)
	for c := range sol {
		sol[c] = uint16(e.dom.Value(c))
	}
	return sol, stats, nil
}

// run performs the initial propagation over all constraints and then the
// backtracking search.
func (e *engine) run(ctx context.Context) (solved, canceled bool) {
	e.acc.pushAll()
	if !e.propagate() {
		return false, false
	}
	return e.search(ctx)
}

// search recurses on decision levels. Depth is bounded by the cell count:
// every level fixes one previously non-singleton cell.
func (e *engine) search(ctx context.Context) (solved, canceled bool) {
	if ctx != nil && ctx.Err() != nil {
		return false, true
	}

	cell := e.selectCell()
	if cell < 0 {
		return true, false
	}
	e.counters.Nodes++

	for vals := e.dom.Domain(cell); !vals.IsEmpty(); {
		var v int
		v, vals = vals.Pop()

		e.counters.Guesses++
		e.logProgress()

		e.dom.OpenLevel()
		e.dom.Fix(cell, v)
		e.acc.addCell(int32(cell))
		if e.propagate() {
			solved, canceled = e.search(ctx)
			if solved || canceled {
				return solved, canceled
			}
		}
		e.dom.UndoLevel()
		e.counters.Backtracks++
	}

	return false, false
}

// selectCell picks the branching cell by the dom/wdeg approximation:
// minimize domain size divided by the summed weights of the cell's
// constraints. Ratios are compared by cross-multiplication to stay exact;
// ties go to the lowest cell index. Returns -1 when every cell is a
// singleton, i.e. the grid is solved.
func (e *engine) selectCell() int {
	best := -1
	var bestSize, bestWeight uint64
	for c := 0; c < e.shape.NumCells; c++ {
		size := uint64(e.dom.Size(c))
		if size <= 1 {
			continue
		}
		var w uint64
		for _, h := range e.cellHandlers[c] {
			w += uint64(e.weights[h])
		}
		if best < 0 || size*bestWeight < bestSize*w {
			best = c
			bestSize = size
			bestWeight = w
		}
	}
	return best
}

func (e *engine) logProgress() {
	if e.logger == nil || e.counters.Guesses&progressMask != 0 {
		return
	}
	e.logger.Debug("search progress",
		"guesses", e.counters.Guesses,
		"nodes", e.counters.Nodes,
		"backtracks", e.counters.Backtracks,
		"propagations", e.counters.Propagations,
	)
}
