package license

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"time"

	"aegisd/internal/models"
)

// VerificationResult is the outcome of offline license verification.
type VerificationResult int

const (
	Valid VerificationResult = iota
	InvalidSignature
	Expired
)

func (r VerificationResult) String() string {
	switch r {
	case Valid:
		return "valid"
	case InvalidSignature:
		return "invalid_signature"
	case Expired:
		return "expired"
	default:
		return "unknown"
	}
}

// Verify checks a license record against a public key without network
// access. Any signature, encoding, or canonicalization failure yields
// InvalidSignature and short-circuits; an expiry date before now on an
// otherwise valid record yields Expired. Hardware binding is the activation
// server's concern, not the offline verifier's: a valid record is
// transferable until it is bound.
func Verify(record *models.LicenseRecord, pub *rsa.PublicKey, now time.Time) VerificationResult {
	payload, err := CanonicalPayload(record)
	if err != nil {
		return InvalidSignature
	}

	sig, err := base64.StdEncoding.DecodeString(record.Signature)
	if err != nil {
		return InvalidSignature
	}

	digest := sha256.Sum256(payload)
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig); err != nil {
		return InvalidSignature
	}

	if record.ExpiryDate != nil {
		expiry, err := time.Parse(DateLayout, *record.ExpiryDate)
		if err != nil {
			return InvalidSignature
		}
		if expiry.Before(now) {
			return Expired
		}
	}

	return Valid
}
