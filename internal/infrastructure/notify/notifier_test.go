package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeMailer struct {
	to, subject, body string
	err               error
	calls             int
}

func (m *fakeMailer) SendEmail(to, subject, body string) error {
	m.calls++
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func TestSendFallsBackToSMTPWhenResendUnconfigured(t *testing.T) {
	mailer := &fakeMailer{}
	n := New("", "noreply@example.com", mailer)

	ok := n.Send(context.Background(), "dev@acme.com", "424242", "Acme Corp")

	assert.True(t, ok)
	assert.Equal(t, 1, mailer.calls)
	assert.Equal(t, "dev@acme.com", mailer.to)
	assert.Contains(t, mailer.body, "424242")
	assert.Contains(t, mailer.body, "Acme Corp")
}

func TestSendReportsFalseWhenAllProvidersFail(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("connection refused")}
	n := New("", "noreply@example.com", mailer)

	ok := n.Send(context.Background(), "dev@acme.com", "424242", "Acme Corp")
	assert.False(t, ok)
}

func TestSendReportsFalseWithNoProviders(t *testing.T) {
	n := New("", "noreply@example.com", nil)
	assert.False(t, n.Send(context.Background(), "dev@acme.com", "424242", "Acme Corp"))
}

func TestSendHonorsContextCancellation(t *testing.T) {
	block := make(chan struct{})
	mailer := &blockingMailer{block: block}
	n := New("", "noreply@example.com", mailer)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok := n.Send(ctx, "dev@acme.com", "424242", "Acme Corp")
	assert.False(t, ok)
	close(block)
}

type blockingMailer struct{ block chan struct{} }

func (m *blockingMailer) SendEmail(string, string, string) error {
	<-m.block
	return nil
}

func TestEmailBodyMentionsExpiry(t *testing.T) {
	body := emailBody("123456", "Acme")
	assert.True(t, strings.Contains(body, "10 minutes"))
}
