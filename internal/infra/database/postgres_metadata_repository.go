// internal/infra/database/postgres_metadata_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shutdown_notification_bot/internal/domain/metadata"
)

type PostgresMetadataRepository struct {
	db *sql.DB
}

func NewPostgresMetadataRepository(db *sql.DB) *PostgresMetadataRepository {
	return &PostgresMetadataRepository{db: db}
}

func (r *PostgresMetadataRepository) LastAPICheck(ctx context.Context) (time.Time, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx, `SELECT last_api_check FROM metadata WHERE id = $1`, metadata.APIStatusID).Scan(&at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, metadata.ErrMarkerNotFound
		}
		return time.Time{}, fmt.Errorf("error reading last API check: %w", err)
	}
	return at, nil
}

func (r *PostgresMetadataRepository) SetLastAPICheck(ctx context.Context, at time.Time) error {
	query := `INSERT INTO metadata (id, last_api_check, updated_at)
               VALUES ($1, $2, NOW())
               ON CONFLICT (id) DO UPDATE SET last_api_check = EXCLUDED.last_api_check, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, query, metadata.APIStatusID, at); err != nil {
		return fmt.Errorf("error updating last API check: %w", err)
	}
	return nil
}
