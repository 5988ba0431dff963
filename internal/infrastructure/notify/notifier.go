// Package notify delivers verification codes over email. Resend is the
// primary provider; a plain SMTP relay is the fallback when Resend is not
// configured or rejects the send.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resendlabs/resend-go"

	"github.com/gcc-cost-api/internal/infrastructure/smtp"
)

const subject = "Your verification code"

// EmailNotifier sends OTP emails. Send reports whether delivery succeeded;
// it never returns an error because delivery failures are non-fatal to the
// verification flow.
type EmailNotifier struct {
	resend *resend.Client
	mailer smtp.Mailer
	from   string
}

// New builds a notifier. apiKey may be empty, in which case only the SMTP
// fallback is used. mailer may be nil when no SMTP relay is configured.
func New(apiKey, from string, mailer smtp.Mailer) *EmailNotifier {
	n := &EmailNotifier{mailer: mailer, from: from}
	if apiKey != "" {
		n.resend = resend.NewClient(apiKey)
	}
	return n
}

func (n *EmailNotifier) Send(ctx context.Context, toEmail, code, organization string) bool {
	body := emailBody(code, organization)

	if n.resend != nil {
		if n.sendResend(ctx, toEmail, body) {
			return true
		}
		slog.Warn("resend delivery failed, falling back to smtp", "to", toEmail)
	}

	if n.mailer == nil {
		return false
	}
	if err := n.sendSMTP(ctx, toEmail, body); err != nil {
		slog.Warn("smtp delivery failed", "to", toEmail, "error", err)
		return false
	}
	return true
}

// sendResend runs the provider call in a goroutine so the context deadline
// bounds the wait; the client itself has no context-aware send.
func (n *EmailNotifier) sendResend(ctx context.Context, toEmail, body string) bool {
	done := make(chan error, 1)
	go func() {
		_, err := n.resend.Emails.Send(&resend.SendEmailRequest{
			From:    n.from,
			To:      []string{toEmail},
			Subject: subject,
			Html:    body,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			slog.Warn("resend send", "to", toEmail, "error", err)
			return false
		}
		return true
	case <-ctx.Done():
		slog.Warn("resend send timed out", "to", toEmail)
		return false
	}
}

func (n *EmailNotifier) sendSMTP(ctx context.Context, toEmail, body string) error {
	done := make(chan error, 1)
	go func() {
		done <- n.mailer.SendEmail(toEmail, subject, body)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func emailBody(code, organization string) string {
	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px;">
  <h2>Email verification</h2>
  <p>Use the code below to verify your email address for <strong>%s</strong>.</p>
  <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">%s</p>
  <p>The code expires in 10 minutes. If you did not request it, ignore this email.</p>
</div>`, organization, code)
}
