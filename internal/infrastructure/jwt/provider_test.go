package jwtinfra

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcc-cost-api/internal/config"
)

func testProvider(expiry time.Duration) *Provider {
	return NewProvider(&config.Config{
		SessionSecret: "test-secret",
		TokenExpiry:   expiry,
	})
}

func TestSignAndVerify(t *testing.T) {
	p := testProvider(24 * time.Hour)

	tok, err := p.Sign("dev@acme.com", "Acme Corp")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := p.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "dev@acme.com", claims.Email)
	assert.Equal(t, "Acme Corp", claims.Organization)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	p := testProvider(-time.Minute)

	tok, err := p.Sign("dev@acme.com", "Acme Corp")
	require.NoError(t, err)

	_, err = p.Verify(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	p := testProvider(time.Hour)
	tok, err := p.Sign("dev@acme.com", "Acme Corp")
	require.NoError(t, err)

	other := NewProvider(&config.Config{SessionSecret: "other-secret", TokenExpiry: time.Hour})
	_, err = other.Verify(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	p := testProvider(time.Hour)
	_, err := p.Verify("not.a.token")
	assert.Error(t, err)
}
