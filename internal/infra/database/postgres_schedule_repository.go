// internal/infra/database/postgres_schedule_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"shutdown_notification_bot/internal/domain/outage"
	"shutdown_notification_bot/internal/domain/schedule"
)

type PostgresScheduleRepository struct {
	db *sql.DB
}

func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

func (r *PostgresScheduleRepository) GetByEventDate(ctx context.Context, eventDate string) (*schedule.Snapshot, error) {
	query := `SELECT event_date, schedule_approved_since, source_created_at, queues, valid_until, updated_at
               FROM schedules WHERE event_date = $1`
	s := &schedule.Snapshot{}
	var queues []byte
	err := r.db.QueryRowContext(ctx, query, eventDate).Scan(
		&s.Day.EventDate, &s.Day.ScheduleApprovedSince, &s.Day.CreatedAt, &queues, &s.ValidUntil, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("error getting schedule for %s: %w", eventDate, err)
	}

	s.Day.Queues = map[string][]outage.Slot{}
	if err := json.Unmarshal(queues, &s.Day.Queues); err != nil {
		return nil, fmt.Errorf("error decoding queues of schedule %s: %w", eventDate, err)
	}
	return s, nil
}

// Upsert replaces every column of the stored day; partial edits are never made.
func (r *PostgresScheduleRepository) Upsert(ctx context.Context, s *schedule.Snapshot) error {
	queues, err := json.Marshal(s.Day.Queues)
	if err != nil {
		return fmt.Errorf("error encoding queues of schedule %s: %w", s.Day.EventDate, err)
	}

	query := `INSERT INTO schedules (event_date, schedule_approved_since, source_created_at, queues, valid_until, updated_at)
               VALUES ($1, $2, $3, $4, $5, NOW())
               ON CONFLICT (event_date) DO UPDATE SET
                   schedule_approved_since = EXCLUDED.schedule_approved_since,
                   source_created_at = EXCLUDED.source_created_at,
                   queues = EXCLUDED.queues,
                   valid_until = EXCLUDED.valid_until,
                   updated_at = NOW()
               RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query,
		s.Day.EventDate, s.Day.ScheduleApprovedSince, s.Day.CreatedAt, queues, s.ValidUntil,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error upserting schedule %s: %w", s.Day.EventDate, err)
	}
	return nil
}

func (r *PostgresScheduleRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE valid_until < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired schedules: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading deleted schedule count: %w", err)
	}
	return n, nil
}
