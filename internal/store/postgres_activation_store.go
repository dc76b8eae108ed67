package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"aegisd/internal/models"
)

type PostgresActivationStore struct {
	DB *pgxpool.Pool
}

func NewPostgresActivationStore(db *pgxpool.Pool) *PostgresActivationStore {
	return &PostgresActivationStore{DB: db}
}

func (s *PostgresActivationStore) Provision(ctx context.Context, b *models.ActivationBinding) error {
	query := `
		INSERT INTO activations (
			id, license_key, tier, expiry_date, hardware_id, status, activated_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`
	_, err := s.DB.Exec(ctx, query,
		b.ID,
		b.LicenseKey,
		b.Tier,
		b.ExpiryDate,
		b.HardwareID,
		b.Status,
		b.ActivatedAt,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: activation", ErrDuplicate)
		}
		return fmt.Errorf("failed to provision activation: %w", err)
	}
	return nil
}

func (s *PostgresActivationStore) Lookup(ctx context.Context, licenseKey string) (*models.ActivationBinding, error) {
	query := `
		SELECT id, license_key, tier, expiry_date, hardware_id, status, activated_at, created_at, updated_at
		FROM activations
		WHERE license_key = $1
	`
	var b models.ActivationBinding
	err := s.DB.QueryRow(ctx, query, licenseKey).Scan(
		&b.ID,
		&b.LicenseKey,
		&b.Tier,
		&b.ExpiryDate,
		&b.HardwareID,
		&b.Status,
		&b.ActivatedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: activation", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get activation: %w", err)
	}
	return &b, nil
}

// Bind relies on a single guarded UPDATE for the test-and-set: the WHERE
// clause only matches when the slot is free or already holds this hardware
// id, so two racing activations from different machines can never both
// succeed.
func (s *PostgresActivationStore) Bind(ctx context.Context, licenseKey, hardwareID string) error {
	query := `
		UPDATE activations
		SET hardware_id = $2,
		    activated_at = COALESCE(activated_at, $3),
		    updated_at = $3
		WHERE license_key = $1
		  AND status = 'ACTIVE'
		  AND (hardware_id IS NULL OR hardware_id = $2)
	`
	tag, err := s.DB.Exec(ctx, query, licenseKey, hardwareID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to bind activation: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// The update matched nothing: distinguish the reason.
	existing, err := s.Lookup(ctx, licenseKey)
	if err != nil {
		return err
	}
	if existing.Status != models.BindingStatusActive {
		return fmt.Errorf("%w: status %s", ErrNotActive, existing.Status)
	}
	return fmt.Errorf("%w: license bound to another machine", ErrHardwareMismatch)
}

func (s *PostgresActivationStore) MarkExpired(ctx context.Context, licenseKey string) error {
	return s.setStatus(ctx, licenseKey, models.BindingStatusExpired)
}

func (s *PostgresActivationStore) Revoke(ctx context.Context, licenseKey string) error {
	return s.setStatus(ctx, licenseKey, models.BindingStatusRevoked)
}

func (s *PostgresActivationStore) setStatus(ctx context.Context, licenseKey string, status models.BindingStatus) error {
	query := `UPDATE activations SET status = $2, updated_at = $3 WHERE license_key = $1`
	tag, err := s.DB.Exec(ctx, query, licenseKey, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update activation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: activation", ErrNotFound)
	}
	return nil
}

func (s *PostgresActivationStore) Release(ctx context.Context, licenseKey string) error {
	query := `
		UPDATE activations
		SET hardware_id = NULL, activated_at = NULL, updated_at = $2
		WHERE license_key = $1 AND status = 'ACTIVE'
	`
	tag, err := s.DB.Exec(ctx, query, licenseKey, time.Now())
	if err != nil {
		return fmt.Errorf("failed to release activation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: activation", ErrNotFound)
	}
	return nil
}

func (s *PostgresActivationStore) List(ctx context.Context, pagination models.PaginationParams) ([]models.ActivationBinding, int, error) {
	var totalCount int
	if err := s.DB.QueryRow(ctx, `SELECT count(*) FROM activations`).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count activations: %w", err)
	}

	limit := pagination.Limit
	if limit <= 0 {
		limit = 10
	}
	page := pagination.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := `
		SELECT id, license_key, tier, expiry_date, hardware_id, status, activated_at, created_at, updated_at
		FROM activations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := s.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activations: %w", err)
	}
	defer rows.Close()

	var bindings []models.ActivationBinding
	for rows.Next() {
		var b models.ActivationBinding
		err := rows.Scan(
			&b.ID,
			&b.LicenseKey,
			&b.Tier,
			&b.ExpiryDate,
			&b.HardwareID,
			&b.Status,
			&b.ActivatedAt,
			&b.CreatedAt,
			&b.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activation: %w", err)
		}
		bindings = append(bindings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activations: %w", err)
	}

	return bindings, totalCount, nil
}
