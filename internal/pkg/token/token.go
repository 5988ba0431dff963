package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewOtpID generates a cryptographically random 32-character hex id.
// The id is the effective bearer token for a verification attempt, so it
// must be unguessable; ULIDs carry a predictable timestamp prefix and are
// not used here.
func NewOtpID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate otp id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
