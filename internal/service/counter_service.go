package service

import (
	"context"

	"github.com/Marcos-ViniciusDEV/PDV/internal/apierror"
	"github.com/Marcos-ViniciusDEV/PDV/internal/model"
	"github.com/Marcos-ViniciusDEV/PDV/internal/repository"
)

// CounterService issues strictly increasing fiscal sequence numbers.
// Atomicity lives at the storage layer, so concurrent callers always get
// distinct, gapless values. A number issued and then abandoned by a
// failed write stays burnt — fiscal sequences are never reclaimed.
type CounterService interface {
	Next(ctx context.Context, name string) (int64, error)
	// Current reads without consuming (CRO, which this core never advances).
	Current(ctx context.Context, name string) (int64, error)
	// NextSalePair issues the ccf/coo pair for a non-suspended sale. The
	// two sequences are independent even though they usually move in
	// lockstep.
	NextSalePair(ctx context.Context) (ccf, coo int64, err error)
}

type counterService struct {
	repo repository.CounterRepository
}

func NewCounterService(repo repository.CounterRepository) CounterService {
	return &counterService{repo: repo}
}

func (s *counterService) Next(ctx context.Context, name string) (int64, error) {
	v, err := s.repo.Increment(ctx, name)
	if err != nil {
		return 0, apierror.Persistence("incrementar contador "+name, err)
	}
	return v, nil
}

func (s *counterService) Current(ctx context.Context, name string) (int64, error) {
	v, err := s.repo.Get(ctx, name)
	if err != nil {
		return 0, apierror.Persistence("ler contador "+name, err)
	}
	return v, nil
}

func (s *counterService) NextSalePair(ctx context.Context) (int64, int64, error) {
	ccf, err := s.Next(ctx, model.CounterCCF)
	if err != nil {
		return 0, 0, err
	}
	coo, err := s.Next(ctx, model.CounterCOO)
	if err != nil {
		return 0, 0, err
	}
	return ccf, coo, nil
}
