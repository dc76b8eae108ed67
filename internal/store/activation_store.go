package store

import (
	"context"

	"aegisd/internal/models"
)

// ActivationStore is the durable mapping from license key to its activation
// binding. Bind has test-and-set semantics: under concurrent activation
// attempts for the same key, exactly one hardware id wins the slot.
type ActivationStore interface {
	// Provision creates an unbound ACTIVE binding for a license key.
	Provision(ctx context.Context, b *models.ActivationBinding) error
	// Lookup fetches the binding for a key, ErrNotFound if none.
	Lookup(ctx context.Context, licenseKey string) (*models.ActivationBinding, error)
	// Bind sets the hardware slot. It succeeds only when the binding is
	// ACTIVE and unbound or already bound to this same hardware id
	// (idempotent re-activation); a different bound id yields
	// ErrHardwareMismatch.
	Bind(ctx context.Context, licenseKey, hardwareID string) error
	// MarkExpired flips the status to EXPIRED. There is no transition back.
	MarkExpired(ctx context.Context, licenseKey string) error
	// Revoke flips the status to REVOKED. Operator-only.
	Revoke(ctx context.Context, licenseKey string) error
	// Release clears the hardware slot of an ACTIVE binding. Operator-only;
	// the public API never unbinds.
	Release(ctx context.Context, licenseKey string) error
	// List returns bindings ordered by creation time, newest first.
	List(ctx context.Context, pagination models.PaginationParams) ([]models.ActivationBinding, int, error)
}
