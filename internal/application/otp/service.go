package otp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gcc-cost-api/internal/domain"
	"github.com/gcc-cost-api/internal/pkg/clock"
	"github.com/gcc-cost-api/internal/pkg/emailaddr"
	"github.com/gcc-cost-api/internal/pkg/keylock"
	"github.com/gcc-cost-api/internal/pkg/otpcode"
	pkgtoken "github.com/gcc-cost-api/internal/pkg/token"
)

// DynamoDB attribute name used in partial update maps.
const fieldAttempts = "attempts"

// putRetries bounds the fresh-id retries on a duplicate-id collision.
// With 128-bit random ids a collision is practically unreachable, but the
// store reports it and we handle it rather than overwrite a live record.
const putRetries = 3

// Store holds pending OTP records keyed by id.
type Store interface {
	// Put inserts a new record and fails with domain.ErrConflict if the id
	// is already present.
	Put(ctx context.Context, rec *domain.OtpRecord) error
	Get(ctx context.Context, otpID string) (*domain.OtpRecord, error)
	Update(ctx context.Context, otpID string, updates map[string]interface{}) error
	// Delete is a no-op when the record is absent.
	Delete(ctx context.Context, otpID string) error
}

// Registry tracks which emails passed verification recently.
type Registry interface {
	IsVerified(ctx context.Context, email string) (*domain.VerifiedEntry, error)
	RecordVerified(ctx context.Context, email, organization string) error
}

// Notifier delivers the code to the visitor. A false return means delivery
// failed; that is never fatal to issuance.
type Notifier interface {
	Send(ctx context.Context, toEmail, code, organization string) bool
}

type Service interface {
	Issue(ctx context.Context, email, organization string) (*domain.IssueResult, error)
	Verify(ctx context.Context, otpID, email, code string) (domain.VerifyOutcome, error)
}

// Deps bundles the collaborators for NewService. NewID and NewCode default
// to the production generators when nil.
type Deps struct {
	Store         Store
	Registry      Registry
	Notifier      Notifier
	Clock         clock.Clock
	Expiry        time.Duration
	MaxAttempts   int
	NotifyTimeout time.Duration
	NewID         func() (string, error)
	NewCode       func() (string, error)
}

type service struct {
	store         Store
	registry      Registry
	notifier      Notifier
	clock         clock.Clock
	locks         *keylock.KeyLock
	expiry        time.Duration
	maxAttempts   int
	notifyTimeout time.Duration
	newID         func() (string, error)
	newCode       func() (string, error)
}

func NewService(d Deps) Service {
	if d.NewID == nil {
		d.NewID = pkgtoken.NewOtpID
	}
	if d.NewCode == nil {
		d.NewCode = otpcode.New
	}
	if d.NotifyTimeout == 0 {
		d.NotifyTimeout = 10 * time.Second
	}
	return &service{
		store:         d.Store,
		registry:      d.Registry,
		notifier:      d.Notifier,
		clock:         d.Clock,
		locks:         keylock.New(),
		expiry:        d.Expiry,
		maxAttempts:   d.MaxAttempts,
		notifyTimeout: d.NotifyTimeout,
		newID:         d.NewID,
		newCode:       d.NewCode,
	}
}

func (s *service) Issue(ctx context.Context, email, organization string) (*domain.IssueResult, error) {
	email = emailaddr.Normalize(email)
	organization = strings.TrimSpace(organization)

	if email == "" || organization == "" {
		return nil, fmt.Errorf("email and organization name are required: %w", domain.ErrBadRequest)
	}
	if !emailaddr.IsValid(email) {
		return nil, fmt.Errorf("%q: %w", email, domain.ErrInvalidEmail)
	}
	if emailaddr.IsPersonal(email) {
		return nil, fmt.Errorf("%q: %w", email, domain.ErrPersonalEmail)
	}

	entry, err := s.registry.IsVerified(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check verified registry: %w", err)
	}
	if entry != nil {
		return &domain.IssueResult{AlreadyVerified: true}, nil
	}

	code, err := s.newCode()
	if err != nil {
		return nil, err
	}

	var otpID string
	for i := 0; ; i++ {
		otpID, err = s.newID()
		if err != nil {
			return nil, err
		}
		now := s.clock.Now()
		rec := &domain.OtpRecord{
			OtpID:        otpID,
			Email:        email,
			Code:         code,
			Organization: organization,
			CreatedAt:    now,
			Attempts:     0,
			ExpiresAt:    now.Add(s.expiry).Unix(),
		}
		err = s.store.Put(ctx, rec)
		if err == nil {
			break
		}
		if !isConflict(err) || i >= putRetries {
			return nil, fmt.Errorf("store otp record: %w", err)
		}
		slog.Warn("otp id collision, retrying with fresh id", "attempt", i+1)
	}

	// Delivery is fire-and-forget from the issuer's perspective: the store
	// write is never rolled back and the id is returned regardless.
	nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	delivered := s.notifier.Send(nctx, email, code, organization)
	if !delivered {
		// Alternate channel: the code stays retrievable from the logs so
		// the flow can continue without a working mail transport.
		slog.Warn("otp delivery failed, code available via logs",
			"email", email, "organization", organization, "code", code)
	}

	return &domain.IssueResult{OtpID: otpID, Delivered: delivered, Code: code}, nil
}

func (s *service) Verify(ctx context.Context, otpID, email, code string) (domain.VerifyOutcome, error) {
	email = emailaddr.Normalize(email)
	code = strings.TrimSpace(code)

	// Serialize per id so increment-then-check is atomic with respect to
	// concurrent verifiers; attempts against other ids proceed in parallel.
	s.locks.Lock(otpID)
	defer s.locks.Unlock(otpID)

	rec, err := s.store.Get(ctx, otpID)
	if err != nil {
		if isNotFound(err) {
			// "never existed", "already consumed" and "expired" are
			// deliberately indistinguishable to the caller.
			slog.Debug("verify on unknown otp id", "otp_id", otpID)
			return domain.VerifyOutcome{Status: domain.VerifyExpired}, nil
		}
		return domain.VerifyOutcome{}, fmt.Errorf("load otp record: %w", err)
	}

	if s.clock.Now().Sub(rec.CreatedAt) > s.expiry {
		s.deleteRecord(ctx, otpID)
		return domain.VerifyOutcome{Status: domain.VerifyExpired}, nil
	}

	if rec.Attempts >= s.maxAttempts {
		s.deleteRecord(ctx, otpID)
		return domain.VerifyOutcome{Status: domain.VerifyTooManyAttempts}, nil
	}

	// Count the attempt before the match check so a crash mid-check still
	// counts it.
	rec.Attempts++
	if err := s.store.Update(ctx, otpID, map[string]interface{}{fieldAttempts: rec.Attempts}); err != nil {
		return domain.VerifyOutcome{}, fmt.Errorf("persist attempt count: %w", err)
	}

	if email != rec.Email {
		return domain.VerifyOutcome{Status: domain.VerifyEmailMismatch}, nil
	}

	if code == rec.Code {
		if err := s.registry.RecordVerified(ctx, rec.Email, rec.Organization); err != nil {
			return domain.VerifyOutcome{}, fmt.Errorf("record verified email: %w", err)
		}
		s.deleteRecord(ctx, otpID)
		return domain.VerifyOutcome{Status: domain.VerifySuccess}, nil
	}

	// The attempt that exhausts the ceiling does not delete the record; the
	// next call hits the ceiling check above and does.
	return domain.VerifyOutcome{
		Status:    domain.VerifyInvalidCode,
		Remaining: s.maxAttempts - rec.Attempts,
	}, nil
}

func (s *service) deleteRecord(ctx context.Context, otpID string) {
	if err := s.store.Delete(ctx, otpID); err != nil {
		slog.Warn("failed to delete otp record", "otp_id", otpID, "err", err)
	}
}

func isNotFound(err error) bool { return errors.Is(err, domain.ErrNotFound) }
func isConflict(err error) bool { return errors.Is(err, domain.ErrConflict) }
