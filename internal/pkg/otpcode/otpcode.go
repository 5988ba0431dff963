package otpcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// New generates a uniform random 6-digit code in [100000, 999999].
// Collisions across different OTP ids are acceptable and expected.
func New() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
