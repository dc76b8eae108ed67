package models

import (
	"time"

	"github.com/google/uuid"
)

// Edition identifies an Aegis OS product edition. It doubles as the tier
// claim in issued session tokens.
type Edition string

const (
	EditionBasic       Edition = "basic"
	EditionWorkplace   Edition = "workplace"
	EditionGamer       Edition = "gamer"
	EditionAIDeveloper Edition = "ai_developer"
	EditionGamerAI     Edition = "gamer_ai"
	EditionServer      Edition = "server"
	EditionFreemium    Edition = "freemium"
)

type BindingStatus string

const (
	BindingStatusActive  BindingStatus = "ACTIVE"
	BindingStatusExpired BindingStatus = "EXPIRED"
	BindingStatusRevoked BindingStatus = "REVOKED"
)

// LicenseRecord is the offline license file format. Field names and the date
// encoding (YYYY-MM-DD, null expiry for perpetual licenses) are part of the
// wire contract between the signer and every verifier; they must not change
// independently on either side.
type LicenseRecord struct {
	LicenseKey    string  `json:"license_key"`
	Edition       Edition `json:"edition"`
	CustomerEmail string  `json:"customer_email"`
	IssuedDate    string  `json:"issued_date"`
	ExpiryDate    *string `json:"expiry_date"`
	Signature     string  `json:"signature"`
}

// ActivationBinding is the server-side record for one provisioned license
// key. HardwareID is nil until the first successful activation; once set it
// is only ever compared, never overwritten through the public API.
type ActivationBinding struct {
	ID          uuid.UUID     `json:"id"`
	LicenseKey  string        `json:"license_key"`
	Tier        Edition       `json:"tier"`
	ExpiryDate  *time.Time    `json:"expiry_date,omitempty"`
	HardwareID  *string       `json:"hardware_id,omitempty"`
	Status      BindingStatus `json:"status"`
	ActivatedAt *time.Time    `json:"activated_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Expires reports whether the binding has an expiry date at all. A nil
// ExpiryDate means a lifetime license and never expires.
func (b *ActivationBinding) Expires() bool {
	return b.ExpiryDate != nil
}

// ActivationLog is one audit entry for an /activate or /check_status call.
type ActivationLog struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	LicenseKey string    `json:"license_key,omitempty"`
	HardwareID string    `json:"hardware_id,omitempty"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	StatusCode int       `json:"status_code"`
	CreatedAt  time.Time `json:"created_at"`
}
