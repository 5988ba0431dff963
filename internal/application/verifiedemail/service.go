// Package verifiedemail keeps the rolling allowlist of addresses that
// completed OTP verification. Downstream calculation logic consults it to
// decide whether a request carries a verified identity.
package verifiedemail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gcc-cost-api/internal/domain"
	"github.com/gcc-cost-api/internal/pkg/clock"
	"github.com/gcc-cost-api/internal/pkg/emailaddr"
)

// Store holds verified entries keyed by normalized email.
type Store interface {
	Put(ctx context.Context, e *domain.VerifiedEntry) error
	Get(ctx context.Context, email string) (*domain.VerifiedEntry, error)
	Delete(ctx context.Context, email string) error
}

type Service interface {
	// IsVerified returns the entry for email, or nil when there is none or
	// it fell outside the validity window. A stale entry is purged on read.
	IsVerified(ctx context.Context, email string) (*domain.VerifiedEntry, error)
	// RecordVerified overwrites any existing entry unconditionally
	// (last-verified-wins).
	RecordVerified(ctx context.Context, email, organization string) error
}

type service struct {
	store  Store
	clock  clock.Clock
	window time.Duration
}

func NewService(store Store, clk clock.Clock, window time.Duration) Service {
	return &service{store: store, clock: clk, window: window}
}

func (s *service) IsVerified(ctx context.Context, email string) (*domain.VerifiedEntry, error) {
	email = emailaddr.Normalize(email)

	entry, err := s.store.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load verified entry: %w", err)
	}

	if s.clock.Now().Sub(entry.VerifiedAt) >= s.window {
		if err := s.store.Delete(ctx, email); err != nil {
			slog.Warn("failed to purge stale verified entry", "email", email, "err", err)
		}
		return nil, nil
	}
	return entry, nil
}

func (s *service) RecordVerified(ctx context.Context, email, organization string) error {
	email = emailaddr.Normalize(email)
	now := s.clock.Now()
	return s.store.Put(ctx, &domain.VerifiedEntry{
		Email:        email,
		Organization: organization,
		VerifiedAt:   now,
		ExpiresAt:    now.Add(s.window).Unix(),
	})
}
