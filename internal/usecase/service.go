package usecase

import (
	"context"
	"errors"

	"svw.info/bigsudoku/internal/domain"
	"svw.info/bigsudoku/internal/ports"
)

type Service struct {
	Solver    ports.Solver
	Validator ports.Validator
	Storage   ports.Storage
}

func NewService(s ports.Solver, v ports.Validator, st ports.Storage) *Service {
	return &Service{Solver: s, Validator: v, Storage: st}
}

var errNotConfigured = errors.New("usecase dependency not configured")

func (u *Service) Solve(ctx context.Context, p *domain.Puzzle) (domain.Solution, ports.Stats, error) {
	if u.Solver == nil {
		return nil, ports.Stats{}, errNotConfigured
	}
	return u.Solver.Solve(ctx, p)
}

func (u *Service) Validate(ctx context.Context, p *domain.Puzzle, sol domain.Solution) (bool, []domain.CellCoord, error) {
	if u.Validator == nil {
		return false, nil, errNotConfigured
	}
	return u.Validator.Validate(ctx, p, sol)
}

func (u *Service) Load(ctx context.Context, name string) (string, error) {
	if u.Storage == nil {
		return "", errNotConfigured
	}
	return u.Storage.Load(ctx, name)
}

func (u *Service) Save(ctx context.Context, name, text string) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	return u.Storage.Save(ctx, name, text)
}

func (u *Service) List(ctx context.Context) ([]string, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
