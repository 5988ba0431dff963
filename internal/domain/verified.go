package domain

import "time"

// VerifiedEntry marks an email address that completed OTP verification.
// PK: email. Valid for a rolling window (24h by default) after VerifiedAt;
// stale entries are purged lazily by whichever reader finds them.
type VerifiedEntry struct {
	Email        string    `json:"email" dynamodbav:"email"`
	Organization string    `json:"organization" dynamodbav:"organization"`
	VerifiedAt   time.Time `json:"verified_at" dynamodbav:"verified_at"`
	ExpiresAt    int64     `json:"expires_at" dynamodbav:"expires_at"` // TTL (Unix seconds)
}
