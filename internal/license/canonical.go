package license

import (
	"encoding/json"

	"aegisd/internal/models"
)

// DateLayout is the calendar date encoding used throughout license records.
const DateLayout = "2006-01-02"

// canonicalPayload lists the signed fields in lexicographic key order.
// json.Marshal emits struct fields in declaration order with no inserted
// whitespace, so the declaration order here is load-bearing: it is what makes
// the output byte-identical to every other producer of the canonical form.
type canonicalPayload struct {
	CustomerEmail string  `json:"customer_email"`
	Edition       string  `json:"edition"`
	ExpiryDate    *string `json:"expiry_date"`
	IssuedDate    string  `json:"issued_date"`
	LicenseKey    string  `json:"license_key"`
}

// CanonicalPayload returns the exact byte sequence that is signed and
// verified: the compact JSON encoding, keys sorted, of the five license
// fields. The signature field itself is never part of the payload.
func CanonicalPayload(r *models.LicenseRecord) ([]byte, error) {
	return json.Marshal(canonicalPayload{
		CustomerEmail: r.CustomerEmail,
		Edition:       string(r.Edition),
		ExpiryDate:    r.ExpiryDate,
		IssuedDate:    r.IssuedDate,
		LicenseKey:    r.LicenseKey,
	})
}
