// Package memory provides process-resident store implementations. Contents
// are lost on restart; this matches the original deployment and keeps dev
// setups dependency-free.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/gcc-cost-api/internal/domain"
)

// OtpStore is a mutex-guarded map of pending OTP records keyed by id.
type OtpStore struct {
	mu      sync.RWMutex
	records map[string]*domain.OtpRecord
}

func NewOtpStore() *OtpStore {
	return &OtpStore{records: make(map[string]*domain.OtpRecord)}
}

func (s *OtpStore) Put(_ context.Context, rec *domain.OtpRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.OtpID]; exists {
		return fmt.Errorf("otp id %s: %w", rec.OtpID, domain.ErrConflict)
	}
	cp := *rec
	s.records[rec.OtpID] = &cp
	return nil
}

func (s *OtpStore) Get(_ context.Context, otpID string) (*domain.OtpRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[otpID]
	if !ok {
		return nil, fmt.Errorf("otp record: %w", domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (s *OtpStore) Update(_ context.Context, otpID string, updates map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[otpID]
	if !ok {
		return fmt.Errorf("otp record: %w", domain.ErrNotFound)
	}
	for k, v := range updates {
		switch k {
		case "attempts":
			n, ok := v.(int)
			if !ok {
				return fmt.Errorf("attempts must be int, got %T: %w", v, domain.ErrBadRequest)
			}
			rec.Attempts = n
		default:
			return fmt.Errorf("unknown otp field %q: %w", k, domain.ErrBadRequest)
		}
	}
	return nil
}

func (s *OtpStore) Delete(_ context.Context, otpID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, otpID)
	return nil
}
