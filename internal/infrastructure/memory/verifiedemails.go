package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gcc-cost-api/internal/domain"
)

// VerifiedEmailStore is a mutex-guarded map of verified entries keyed by
// normalized email.
type VerifiedEmailStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.VerifiedEntry
}

func NewVerifiedEmailStore() *VerifiedEmailStore {
	return &VerifiedEmailStore{entries: make(map[string]*domain.VerifiedEntry)}
}

// Put overwrites any existing entry for the email.
func (s *VerifiedEmailStore) Put(_ context.Context, e *domain.VerifiedEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.entries[e.Email] = &cp
	return nil
}

func (s *VerifiedEmailStore) Get(_ context.Context, email string) (*domain.VerifiedEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[email]
	if !ok {
		return nil, fmt.Errorf("verified entry: %w", domain.ErrNotFound)
	}
	cp := *e
	return &cp, nil
}

func (s *VerifiedEmailStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, email)
	return nil
}
