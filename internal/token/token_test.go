package token

import (
	"errors"
	"testing"
	"time"

	"aegisd/internal/models"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)

	tok, err := issuer.Issue("GMRP-AAAA-BBBB-CCCC", models.EditionGamer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.LicenseKey != "GMRP-AAAA-BBBB-CCCC" {
		t.Errorf("lk claim = %q", claims.LicenseKey)
	}
	if claims.Tier != models.EditionGamer {
		t.Errorf("tier claim = %q", claims.Tier)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("missing iat/exp claims")
	}
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != time.Hour {
		t.Errorf("token ttl = %v, want 1h", ttl)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer([]byte("secret-a"), time.Hour)
	other := NewIssuer([]byte("secret-b"), time.Hour)

	tok, err := issuer.Issue("BSIC-1111-2222-3333", models.EditionBasic)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := &Issuer{secret: []byte("test-secret"), ttl: time.Millisecond}

	tok, err := issuer.Issue("BSIC-1111-2222-3333", models.EditionBasic)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	// Expired tokens are rejected even though the signature is valid.
	if _, err := issuer.Verify(tok); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q): expected ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestNewIssuerDefaultTTL(t *testing.T) {
	issuer := NewIssuer([]byte("test-secret"), 0)
	if issuer.ttl != DefaultTTL {
		t.Errorf("default ttl = %v, want %v", issuer.ttl, DefaultTTL)
	}
}
