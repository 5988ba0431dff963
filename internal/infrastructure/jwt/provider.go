package jwtinfra

import (
	"errors"
	"time"

	"github.com/gcc-cost-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the verification token payload.
type Claims struct {
	Email        string `json:"email"`
	Organization string `json:"organization"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 verification tokens.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) *Provider {
	return &Provider{secret: []byte(cfg.SessionSecret), expiry: cfg.TokenExpiry}
}

func (p *Provider) Sign(email, organization string) (string, error) {
	claims := Claims{
		Email:        email,
		Organization: organization,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
