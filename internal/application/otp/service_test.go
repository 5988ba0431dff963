package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gcc-cost-api/internal/domain"
	"github.com/gcc-cost-api/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Put(ctx context.Context, rec *domain.OtpRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockStore) Get(ctx context.Context, otpID string) (*domain.OtpRecord, error) {
	args := m.Called(ctx, otpID)
	if r, _ := args.Get(0).(*domain.OtpRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Update(ctx context.Context, otpID string, updates map[string]interface{}) error {
	return m.Called(ctx, otpID, updates).Error(0)
}
func (m *mockStore) Delete(ctx context.Context, otpID string) error {
	return m.Called(ctx, otpID).Error(0)
}

type mockRegistry struct{ mock.Mock }

func (m *mockRegistry) IsVerified(ctx context.Context, email string) (*domain.VerifiedEntry, error) {
	args := m.Called(ctx, email)
	if e, _ := args.Get(0).(*domain.VerifiedEntry); e != nil {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockRegistry) RecordVerified(ctx context.Context, email, organization string) error {
	return m.Called(ctx, email, organization).Error(0)
}

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Send(ctx context.Context, toEmail, code, organization string) bool {
	return m.Called(ctx, toEmail, code, organization).Bool(0)
}

// fakeClock is an adjustable clock for expiry tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// --- builders ---

func newTestService(st Store, reg Registry, n Notifier, clk *fakeClock) Service {
	return NewService(Deps{
		Store:       st,
		Registry:    reg,
		Notifier:    n,
		Clock:       clk,
		Expiry:      10 * time.Minute,
		MaxAttempts: 3,
		NewID:       fixedID("otp-id-1"),
		NewCode:     fixedCode("424242"),
	})
}

func fixedID(id string) func() (string, error) {
	return func() (string, error) { return id, nil }
}

func fixedCode(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

func notVerified(reg *mockRegistry, email string) {
	reg.On("IsVerified", mock.Anything, email).Return(nil, nil)
}

// --- Issue ---

func TestIssue_InvalidEmail_NeverTouchesStoreOrNotifier(t *testing.T) {
	st := &mockStore{}
	n := &mockNotifier{}
	svc := newTestService(st, &mockRegistry{}, n, newFakeClock())

	_, err := svc.Issue(context.Background(), "not-an-email", "Acme Corp")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidEmail))
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIssue_PersonalDomainBlocked(t *testing.T) {
	st := &mockStore{}
	n := &mockNotifier{}
	svc := newTestService(st, &mockRegistry{}, n, newFakeClock())

	_, err := svc.Issue(context.Background(), "user@gmail.com", "Acme Corp")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrPersonalEmail))
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIssue_MissingOrganization(t *testing.T) {
	svc := newTestService(&mockStore{}, &mockRegistry{}, &mockNotifier{}, newFakeClock())
	_, err := svc.Issue(context.Background(), "user@acme-corp.com", "   ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestIssue_AlreadyVerifiedShortCircuits(t *testing.T) {
	st := &mockStore{}
	reg := &mockRegistry{}
	n := &mockNotifier{}
	reg.On("IsVerified", mock.Anything, "user@acme-corp.com").
		Return(&domain.VerifiedEntry{Email: "user@acme-corp.com", Organization: "Acme Corp"}, nil)

	svc := newTestService(st, reg, n, newFakeClock())
	res, err := svc.Issue(context.Background(), "User@Acme-Corp.com", "Acme Corp")

	require.NoError(t, err)
	assert.True(t, res.AlreadyVerified)
	assert.Empty(t, res.OtpID)
	st.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	n.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestIssue_HappyPath(t *testing.T) {
	st := &mockStore{}
	reg := &mockRegistry{}
	n := &mockNotifier{}
	clk := newFakeClock()
	notVerified(reg, "user@acme-corp.com")

	st.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.OtpRecord) bool {
		return r.OtpID == "otp-id-1" &&
			r.Email == "user@acme-corp.com" &&
			r.Code == "424242" &&
			r.Organization == "Acme Corp" &&
			r.Attempts == 0 &&
			r.CreatedAt.Equal(clk.Now())
	})).Return(nil)
	n.On("Send", mock.Anything, "user@acme-corp.com", "424242", "Acme Corp").Return(true)

	svc := newTestService(st, reg, n, clk)
	res, err := svc.Issue(context.Background(), "  User@ACME-corp.com ", "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, "otp-id-1", res.OtpID)
	assert.True(t, res.Delivered)
	st.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestIssue_DeliveryFailureIsNonFatal(t *testing.T) {
	st := &mockStore{}
	reg := &mockRegistry{}
	n := &mockNotifier{}
	notVerified(reg, "user@acme-corp.com")
	st.On("Put", mock.Anything, mock.Anything).Return(nil)
	n.On("Send", mock.Anything, "user@acme-corp.com", "424242", "Acme Corp").Return(false)

	svc := newTestService(st, reg, n, newFakeClock())
	res, err := svc.Issue(context.Background(), "user@acme-corp.com", "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, "otp-id-1", res.OtpID) // id still returned, verification can proceed
	assert.False(t, res.Delivered)
	assert.Equal(t, "424242", res.Code)
}

func TestIssue_DuplicateIDRetriesWithFreshID(t *testing.T) {
	st := &mockStore{}
	reg := &mockRegistry{}
	n := &mockNotifier{}
	notVerified(reg, "user@acme-corp.com")

	ids := []string{"dup-id", "fresh-id"}
	next := 0
	newID := func() (string, error) {
		id := ids[next]
		next++
		return id, nil
	}

	st.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.OtpRecord) bool {
		return r.OtpID == "dup-id"
	})).Return(domain.ErrConflict).Once()
	st.On("Put", mock.Anything, mock.MatchedBy(func(r *domain.OtpRecord) bool {
		return r.OtpID == "fresh-id"
	})).Return(nil).Once()
	n.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true)

	svc := NewService(Deps{
		Store: st, Registry: reg, Notifier: n, Clock: newFakeClock(),
		Expiry: 10 * time.Minute, MaxAttempts: 3,
		NewID: newID, NewCode: fixedCode("424242"),
	})
	res, err := svc.Issue(context.Background(), "user@acme-corp.com", "Acme Corp")

	require.NoError(t, err)
	assert.Equal(t, "fresh-id", res.OtpID)
	st.AssertExpectations(t)
}

// --- Verify ---

func TestVerify_UnknownIDIsExpired(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "no-such-id").Return(nil, domain.ErrNotFound)

	svc := newTestService(st, &mockRegistry{}, &mockNotifier{}, newFakeClock())
	out, err := svc.Verify(context.Background(), "no-such-id", "user@acme-corp.com", "424242")

	require.NoError(t, err)
	assert.Equal(t, domain.VerifyExpired, out.Status)
}

func TestVerify_ExpiredRecordIsDeleted(t *testing.T) {
	st := &mockStore{}
	clk := newFakeClock()
	st.On("Get", mock.Anything, "otp-id-1").Return(&domain.OtpRecord{
		OtpID: "otp-id-1", Email: "user@acme-corp.com", Code: "424242",
		CreatedAt: clk.Now(),
	}, nil)
	st.On("Delete", mock.Anything, "otp-id-1").Return(nil)

	svc := newTestService(st, &mockRegistry{}, &mockNotifier{}, clk)
	clk.advance(10*time.Minute + time.Second)

	out, err := svc.Verify(context.Background(), "otp-id-1", "user@acme-corp.com", "424242")

	require.NoError(t, err)
	assert.Equal(t, domain.VerifyExpired, out.Status)
	st.AssertCalled(t, "Delete", mock.Anything, "otp-id-1")
}

func TestVerify_EmailMismatchCountsAttempt(t *testing.T) {
	st := &mockStore{}
	clk := newFakeClock()
	st.On("Get", mock.Anything, "otp-id-1").Return(&domain.OtpRecord{
		OtpID: "otp-id-1", Email: "user@acme-corp.com", Code: "424242",
		CreatedAt: clk.Now(), Attempts: 0,
	}, nil)
	st.On("Update", mock.Anything, "otp-id-1", map[string]interface{}{"attempts": 1}).Return(nil)

	svc := newTestService(st, &mockRegistry{}, &mockNotifier{}, clk)
	out, err := svc.Verify(context.Background(), "otp-id-1", "other@acme-corp.com", "424242")

	require.NoError(t, err)
	assert.Equal(t, domain.VerifyEmailMismatch, out.Status)
	st.AssertExpectations(t) // attempt persisted, record kept
	st.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestVerify_SuccessPromotesAndConsumes(t *testing.T) {
	st := &mockStore{}
	reg := &mockRegistry{}
	clk := newFakeClock()
	st.On("Get", mock.Anything, "otp-id-1").Return(&domain.OtpRecord{
		OtpID: "otp-id-1", Email: "user@acme-corp.com", Code: "424242",
		Organization: "Acme Corp", CreatedAt: clk.Now(),
	}, nil)
	st.On("Update", mock.Anything, "otp-id-1", map[string]interface{}{"attempts": 1}).Return(nil)
	reg.On("RecordVerified", mock.Anything, "user@acme-corp.com", "Acme Corp").Return(nil)
	st.On("Delete", mock.Anything, "otp-id-1").Return(nil)

	svc := newTestService(st, reg, &mockNotifier{}, clk)
	out, err := svc.Verify(context.Background(), "otp-id-1", "User@Acme-Corp.com", "424242")

	require.NoError(t, err)
	assert.Equal(t, domain.VerifySuccess, out.Status)
	st.AssertExpectations(t)
	reg.AssertExpectations(t)
}

func TestVerify_StorageFaultSurfacesAsError(t *testing.T) {
	st := &mockStore{}
	st.On("Get", mock.Anything, "otp-id-1").Return(nil, domain.ErrUnavailable)

	svc := newTestService(st, &mockRegistry{}, &mockNotifier{}, newFakeClock())
	_, err := svc.Verify(context.Background(), "otp-id-1", "user@acme-corp.com", "424242")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnavailable))
}

// --- end-to-end sequences over the in-memory store ---

func newMemoryService(t *testing.T, clk *fakeClock, reg Registry) Service {
	t.Helper()
	return NewService(Deps{
		Store:       memory.NewOtpStore(),
		Registry:    reg,
		Notifier:    acceptAllNotifier{},
		Clock:       clk,
		Expiry:      10 * time.Minute,
		MaxAttempts: 3,
	})
}

type acceptAllNotifier struct{}

func (acceptAllNotifier) Send(context.Context, string, string, string) bool { return true }

func TestVerify_SuccessExactlyOnce(t *testing.T) {
	clk := newFakeClock()
	reg := &mockRegistry{}
	notVerified(reg, "user@acme-corp.com")
	reg.On("RecordVerified", mock.Anything, "user@acme-corp.com", "Acme Corp").Return(nil)

	svc := newMemoryService(t, clk, reg)
	res, err := svc.Issue(context.Background(), "user@acme-corp.com", "Acme Corp")
	require.NoError(t, err)

	out, err := svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", res.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifySuccess, out.Status)

	// The record is consumed: a second attempt with the same id reads as expired.
	out, err = svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", res.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyExpired, out.Status)
}

func TestVerify_AttemptCeilingSequence(t *testing.T) {
	clk := newFakeClock()
	reg := &mockRegistry{}
	notVerified(reg, "user@acme-corp.com")

	svc := newMemoryService(t, clk, reg)
	res, err := svc.Issue(context.Background(), "user@acme-corp.com", "Acme Corp")
	require.NoError(t, err)

	wrong := "000000"
	if res.Code == wrong {
		wrong = "000001"
	}

	// Three wrong submissions count down; the lockout lands on the call after.
	wantRemaining := []int{2, 1, 0}
	for _, want := range wantRemaining {
		out, err := svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", wrong)
		require.NoError(t, err)
		assert.Equal(t, domain.VerifyInvalidCode, out.Status)
		assert.Equal(t, want, out.Remaining)
	}

	out, err := svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", wrong)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyTooManyAttempts, out.Status)

	// The record was deleted on the lockout call.
	out, err = svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", res.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyExpired, out.Status)
}

func TestVerify_ExpiryBeatsCorrectCode(t *testing.T) {
	clk := newFakeClock()
	reg := &mockRegistry{}
	notVerified(reg, "user@acme-corp.com")

	svc := newMemoryService(t, clk, reg)
	res, err := svc.Issue(context.Background(), "user@acme-corp.com", "Acme Corp")
	require.NoError(t, err)

	clk.advance(601 * time.Second)

	out, err := svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", res.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.VerifyExpired, out.Status)
}

func TestVerify_ConcurrentAttemptsNeverBothSucceed(t *testing.T) {
	clk := newFakeClock()
	reg := &mockRegistry{}
	notVerified(reg, "user@acme-corp.com")
	reg.On("RecordVerified", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := newMemoryService(t, clk, reg)
	res, err := svc.Issue(context.Background(), "user@acme-corp.com", "Acme Corp")
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	outcomes := make(chan domain.VerifyStatus, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", res.Code)
			assert.NoError(t, err)
			outcomes <- out.Status
		}()
	}
	wg.Wait()
	close(outcomes)

	successes := 0
	for st := range outcomes {
		if st == domain.VerifySuccess {
			successes++
		}
	}
	assert.Equal(t, 1, successes)
}

func TestVerify_ConcurrentWrongCodesRespectCeiling(t *testing.T) {
	clk := newFakeClock()
	reg := &mockRegistry{}
	notVerified(reg, "user@acme-corp.com")

	svc := newMemoryService(t, clk, reg)
	res, err := svc.Issue(context.Background(), "user@acme-corp.com", "Acme Corp")
	require.NoError(t, err)

	wrong := "000000"
	if res.Code == wrong {
		wrong = "000001"
	}

	const workers = 10
	var wg sync.WaitGroup
	invalid := make(chan int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := svc.Verify(context.Background(), res.OtpID, "user@acme-corp.com", wrong)
			assert.NoError(t, err)
			if out.Status == domain.VerifyInvalidCode {
				invalid <- out.Remaining
			}
		}()
	}
	wg.Wait()
	close(invalid)

	// Per-id serialization caps the counted attempts at the ceiling, same
	// as a sequential run: exactly three InvalidCode outcomes.
	count := 0
	for range invalid {
		count++
	}
	assert.Equal(t, 3, count)
}
