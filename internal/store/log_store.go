package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"aegisd/internal/models"
)

// LogStore persists activation audit entries.
type LogStore interface {
	CreateActivationLog(ctx context.Context, entry *models.ActivationLog) error
	ListActivationLogs(ctx context.Context, licenseKey string, pagination models.PaginationParams) ([]models.ActivationLog, int, error)
}

type PostgresLogStore struct {
	DB *pgxpool.Pool
}

func NewPostgresLogStore(db *pgxpool.Pool) *PostgresLogStore {
	return &PostgresLogStore{DB: db}
}

func (s *PostgresLogStore) CreateActivationLog(ctx context.Context, entry *models.ActivationLog) error {
	query := `
		INSERT INTO activation_logs (
			id, action, license_key, hardware_id, error_kind, ip_address, user_agent, status_code, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`
	_, err := s.DB.Exec(ctx, query,
		entry.ID,
		entry.Action,
		entry.LicenseKey,
		entry.HardwareID,
		entry.ErrorKind,
		entry.IPAddress,
		entry.UserAgent,
		entry.StatusCode,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create activation log: %w", err)
	}
	return nil
}

func (s *PostgresLogStore) ListActivationLogs(ctx context.Context, licenseKey string, pagination models.PaginationParams) ([]models.ActivationLog, int, error) {
	countQuery := `SELECT count(*) FROM activation_logs`
	countArgs := []interface{}{}
	if licenseKey != "" {
		countQuery += " WHERE license_key = $1"
		countArgs = append(countArgs, licenseKey)
	}

	var totalCount int
	if err := s.DB.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count activation logs: %w", err)
	}

	query := `
		SELECT id, action, license_key, hardware_id, error_kind, ip_address, user_agent, status_code, created_at
		FROM activation_logs
	`
	args := []interface{}{}
	if licenseKey != "" {
		query += " WHERE license_key = $1"
		args = append(args, licenseKey)
	}
	query += " ORDER BY created_at DESC"

	limit := pagination.Limit
	if limit <= 0 {
		limit = 10
	}
	page := pagination.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activation logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ActivationLog
	for rows.Next() {
		var l models.ActivationLog
		err := rows.Scan(
			&l.ID,
			&l.Action,
			&l.LicenseKey,
			&l.HardwareID,
			&l.ErrorKind,
			&l.IPAddress,
			&l.UserAgent,
			&l.StatusCode,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan activation log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activation logs: %w", err)
	}

	return logs, totalCount, nil
}

// NopLogStore discards audit entries. Used when running without a database.
type NopLogStore struct{}

func (NopLogStore) CreateActivationLog(context.Context, *models.ActivationLog) error {
	return nil
}

func (NopLogStore) ListActivationLogs(context.Context, string, models.PaginationParams) ([]models.ActivationLog, int, error) {
	return []models.ActivationLog{}, 0, nil
}
