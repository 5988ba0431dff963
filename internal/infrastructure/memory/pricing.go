package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gcc-cost-api/internal/domain"
)

// CityCostStore is a mutex-guarded map of per-city cost rows keyed by city.
type CityCostStore struct {
	mu    sync.RWMutex
	costs map[string]*domain.CityCost
}

func NewCityCostStore() *CityCostStore {
	return &CityCostStore{costs: make(map[string]*domain.CityCost)}
}

func (s *CityCostStore) Put(_ context.Context, c *domain.CityCost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.costs[c.City] = &cp
	return nil
}

func (s *CityCostStore) Get(_ context.Context, city string) (*domain.CityCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.costs[city]
	if !ok {
		return nil, fmt.Errorf("city cost %s: %w", city, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (s *CityCostStore) Scan(_ context.Context) ([]domain.CityCost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CityCost, 0, len(s.costs))
	for _, c := range s.costs {
		out = append(out, *c)
	}
	return out, nil
}

// PlanRateStore is a mutex-guarded map of headcount-band rates keyed by range id.
type PlanRateStore struct {
	mu    sync.RWMutex
	rates map[string]*domain.PlanRate
}

func NewPlanRateStore() *PlanRateStore {
	return &PlanRateStore{rates: make(map[string]*domain.PlanRate)}
}

func (s *PlanRateStore) Put(_ context.Context, r *domain.PlanRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.rates[r.RangeID] = &cp
	return nil
}

func (s *PlanRateStore) Scan(_ context.Context) ([]domain.PlanRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PlanRate, 0, len(s.rates))
	for _, r := range s.rates {
		out = append(out, *r)
	}
	return out, nil
}
