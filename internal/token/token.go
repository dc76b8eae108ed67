// Package token issues and verifies the short-lived session tokens returned
// by successful activation and status checks. Tokens are signed, not
// encrypted, and the server keeps no record of them: expiry is the only
// invalidation mechanism.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"aegisd/internal/models"
)

const DefaultTTL = 60 * time.Minute

var (
	ErrExpired      = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by a session token. The lk/tier claim names match what the
// activation clients in the field already parse.
type Claims struct {
	LicenseKey string         `json:"lk"`
	Tier       models.Edition `json:"tier"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a server-held HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue creates a signed token for an activated license.
func (i *Issuer) Issue(licenseKey string, tier models.Edition) (string, error) {
	now := time.Now()
	claims := Claims{
		LicenseKey: licenseKey,
		Tier:       tier,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, failing closed: an unparseable,
// wrongly-signed, or expired token is never accepted.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !t.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
