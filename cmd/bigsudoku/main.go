// Command bigsudoku solves large sudoku puzzles (grids up to order 11,
// optionally with diagonal constraints) from a plain-text grid file.
//
// Exit codes: 0 solved, 1 no solution (or deadline hit), 2 any other error
// (unreadable file, bad input, or an internal failure).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"svw.info/bigsudoku/internal/domain"
	"svw.info/bigsudoku/internal/format"
	"svw.info/bigsudoku/internal/infrastructure/storage"
	"svw.info/bigsudoku/internal/solver"
	"svw.info/bigsudoku/internal/usecase"
	"svw.info/bigsudoku/internal/validator"
)

type options struct {
	sudokuX       bool
	timeout       time.Duration
	logLevel      string
	profile       bool
	compact       bool
	out           string
	intersections int
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "bigsudoku <input-file>",
		Short:         "Solve a sudoku grid of order up to 11",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.sudokuX, "sudoku-x", false, "add the two main diagonals as constraints")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "abort the search after this long (0 = no limit)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "debug|info|warn|error")
	cmd.Flags().BoolVar(&opts.profile, "profile", false, "write a CPU profile")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "print the solution on a single line")
	cmd.Flags().StringVar(&opts.out, "out", "", "also write the solution to this file")
	cmd.Flags().IntVar(&opts.intersections, "intersections", 2, "emit redundant constraints for house pairs sharing at least this many cells (0 = off)")

	if err := cmd.Execute(); err != nil {
		if errors.Is(err, solver.ErrUnsolvable) {
			fmt.Fprintln(os.Stderr, "no solution exists")
			return 1
		}
		if errors.Is(err, solver.ErrCanceled) {
			fmt.Fprintln(os.Stderr, "search canceled: deadline exceeded")
			return 1
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 2
	}
	return 0
}

func solve(name string, opts options) error {
	logger := newLogger(opts.logLevel)
	if opts.profile {
		defer profile.Start().Stop()
	}

	ctx := context.Background()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	s := solver.NewGACSolver(solver.Options{
		MinIntersection: opts.intersections,
		Logger:          logger,
	})
	uc := usecase.NewService(s, validator.New(), storage.NewFS("."))

	text, err := uc.Load(ctx, name)
	if err != nil {
		return err
	}
	puzzle, err := format.Parse(text)
	if err != nil {
		return err
	}
	if opts.sudokuX {
		puzzle.Variant = domain.SudokuX
	}
	logger.Info("puzzle loaded",
		"order", puzzle.Shape.Order,
		"cells", puzzle.Shape.NumCells,
		"givens", len(puzzle.Givens),
		"variant", puzzle.Variant.String(),
	)

	sol, stats, err := uc.Solve(ctx, puzzle)
	if err != nil {
		return err
	}
	logger.Info("solved",
		"nodes", stats.Nodes,
		"guesses", stats.Guesses,
		"backtracks", stats.Backtracks,
		"propagations", stats.Propagations,
		"dur", stats.Duration.Round(time.Microsecond),
	)

	if ok, conflicts, err := uc.Validate(ctx, puzzle, sol); err != nil || !ok {
		logger.Error("solver produced an invalid grid", "err", err, "conflicts", conflicts)
		return errors.New("internal error: invalid solution")
	}

	rendered := format.Render(puzzle.Shape, sol)
	if opts.compact {
		rendered = format.RenderCompact(sol) + "\n"
	}
	fmt.Print(rendered)

	if opts.out != "" {
		if err := uc.Save(ctx, opts.out, rendered); err != nil {
			return err
		}
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
