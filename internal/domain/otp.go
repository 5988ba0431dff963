package domain

import "time"

// OtpRecord is a pending email verification attempt.
// PK: otp_id — the id, not the email, is the lookup key so that concurrent
// issuances for the same address never observe each other's state.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL; the verifier checks
// expiry against CreatedAt itself, the TTL is just a background sweep.
type OtpRecord struct {
	OtpID        string    `json:"otp_id" dynamodbav:"otp_id"`
	Email        string    `json:"email" dynamodbav:"email"`
	Code         string    `json:"code" dynamodbav:"code"`
	Organization string    `json:"organization" dynamodbav:"organization"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	Attempts     int       `json:"attempts" dynamodbav:"attempts"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}

// VerifyStatus tags the outcome of a verification attempt. The set is
// closed: callers branch on the tag, nothing here is an error.
type VerifyStatus string

const (
	VerifySuccess         VerifyStatus = "success"
	VerifyExpired         VerifyStatus = "expired"
	VerifyTooManyAttempts VerifyStatus = "too_many_attempts"
	VerifyEmailMismatch   VerifyStatus = "email_mismatch"
	VerifyInvalidCode     VerifyStatus = "invalid_code"
)

// VerifyOutcome is the result of a single verification attempt.
// Remaining is only meaningful for VerifyInvalidCode.
type VerifyOutcome struct {
	Status    VerifyStatus
	Remaining int
}

// IssueResult reports what happened during OTP issuance. Delivery failure
// is non-fatal: Delivered=false with a populated OtpID means the caller may
// still verify, and the code was surfaced through an alternate channel.
type IssueResult struct {
	OtpID           string
	Delivered       bool
	AlreadyVerified bool
	// Code is carried back so the transport layer can expose it in
	// development when delivery failed. Never returned to clients in
	// production.
	Code string
}
