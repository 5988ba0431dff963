package visit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gcc-cost-api/internal/domain"
	"github.com/gcc-cost-api/internal/pkg/clock"
	"github.com/gcc-cost-api/internal/pkg/id"
)

// Store persists visits and per-user stats.
type Store interface {
	PutVisit(ctx context.Context, v *domain.Visit) error
	ListByUser(ctx context.Context, userID string) ([]domain.Visit, error)
	GetStats(ctx context.Context, userID string) (*domain.VisitStats, error)
	PutStats(ctx context.Context, st *domain.VisitStats) error
}

type Service interface {
	// Log records one calculation. It never fails the caller; storage
	// faults are logged and swallowed.
	Log(ctx context.Context, userID string, req domain.CalcRequest, totalCost float64)
	Stats(ctx context.Context, userID string) (*domain.VisitStats, error)
	History(ctx context.Context, userID string) ([]domain.Visit, error)
}

type service struct {
	store Store
	clock clock.Clock
}

func NewService(store Store, clk clock.Clock) Service {
	return &service{store: store, clock: clk}
}

func (s *service) Log(ctx context.Context, userID string, req domain.CalcRequest, totalCost float64) {
	if userID == "" {
		userID = "anonymous"
	}
	now := s.clock.Now()

	v := &domain.Visit{
		VisitID:    id.New(),
		UserID:     userID,
		Headcount:  req.Headcount,
		City:       req.City,
		Tier:       req.Tier,
		Plan:       req.Plan,
		RealEstate: req.RealEstate,
		ITInfra:    req.ITInfra,
		Enabling:   req.Enabling,
		Technology: req.Technology,
		TotalCost:  totalCost,
		VisitTime:  now,
	}
	if err := s.store.PutVisit(ctx, v); err != nil {
		slog.Warn("log visit", "user_id", userID, "error", err)
		return
	}

	st, err := s.store.GetStats(ctx, userID)
	if err != nil {
		st = &domain.VisitStats{UserID: userID, FirstVisit: now}
	}
	st.VisitCount++
	st.TotalCalculations++
	st.LastVisit = now
	if err := s.store.PutStats(ctx, st); err != nil {
		slog.Warn("update visit stats", "user_id", userID, "error", err)
	}
}

func (s *service) Stats(ctx context.Context, userID string) (*domain.VisitStats, error) {
	st, err := s.store.GetStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load visit stats: %w", err)
	}
	return st, nil
}

func (s *service) History(ctx context.Context, userID string) ([]domain.Visit, error) {
	visits, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	return visits, nil
}
