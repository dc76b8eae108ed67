package license

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"aegisd/internal/models"
)

// Fields are the operator-supplied inputs to Sign. LicenseKey is generated
// from the edition prefix registry when empty. ExpiryDate nil means a
// lifetime license.
type Fields struct {
	LicenseKey    string
	Edition       models.Edition
	CustomerEmail string
	IssuedDate    time.Time
	ExpiryDate    *time.Time
}

// Signer produces signed license records with a loaded RSA private key.
type Signer struct {
	key *rsa.PrivateKey
}

func NewSigner(key *rsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Sign builds the canonical payload from the fields and signs it with
// PKCS#1 v1.5 over SHA-256. The returned record is complete and immutable:
// changing any signed field afterwards invalidates the signature.
func (s *Signer) Sign(f Fields) (*models.LicenseRecord, error) {
	if _, ok := editionPrefixes[f.Edition]; !ok {
		return nil, fmt.Errorf("unknown edition: %q", f.Edition)
	}

	key := f.LicenseKey
	if key == "" {
		var err error
		key, err = GenerateLicenseKey(f.Edition)
		if err != nil {
			return nil, fmt.Errorf("failed to generate license key: %w", err)
		}
	}

	issued := f.IssuedDate
	if issued.IsZero() {
		issued = time.Now()
	}

	var expiry *string
	if f.ExpiryDate != nil {
		v := f.ExpiryDate.Format(DateLayout)
		expiry = &v
	}

	record := &models.LicenseRecord{
		LicenseKey:    key,
		Edition:       f.Edition,
		CustomerEmail: f.CustomerEmail,
		IssuedDate:    issued.Format(DateLayout),
		ExpiryDate:    expiry,
	}

	payload, err := CanonicalPayload(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode canonical payload: %w", err)
	}

	digest := sha256.Sum256(payload)
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign license: %w", err)
	}

	record.Signature = base64.StdEncoding.EncodeToString(sig)
	return record, nil
}
