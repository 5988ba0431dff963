package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gcc-cost-api/internal/domain"
)

// VisitStore keeps visits and per-user stats in process memory.
type VisitStore struct {
	mu     sync.RWMutex
	visits map[string]*domain.Visit
	byUser map[string][]string
	stats  map[string]*domain.VisitStats
}

func NewVisitStore() *VisitStore {
	return &VisitStore{
		visits: make(map[string]*domain.Visit),
		byUser: make(map[string][]string),
		stats:  make(map[string]*domain.VisitStats),
	}
}

func (s *VisitStore) PutVisit(_ context.Context, v *domain.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *v
	s.visits[v.VisitID] = &cp
	s.byUser[v.UserID] = append(s.byUser[v.UserID], v.VisitID)
	return nil
}

func (s *VisitStore) ListByUser(_ context.Context, userID string) ([]domain.Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byUser[userID]
	out := make([]domain.Visit, 0, len(ids))
	for _, vid := range ids {
		if v, ok := s.visits[vid]; ok {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (s *VisitStore) GetStats(_ context.Context, userID string) (*domain.VisitStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[userID]
	if !ok {
		return nil, fmt.Errorf("visit stats %s: %w", userID, domain.ErrNotFound)
	}
	cp := *st
	return &cp, nil
}

func (s *VisitStore) PutStats(_ context.Context, st *domain.VisitStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *st
	s.stats[st.UserID] = &cp
	return nil
}
