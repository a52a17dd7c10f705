// internal/infra/database/postgres_reminder_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"shutdown_notification_bot/internal/domain/reminder"
)

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

// Upsert relies on the reminders_chat_outage_unique constraint, so concurrent runs
// adding the same outage converge on a single row.
func (r *PostgresReminderRepository) Upsert(ctx context.Context, rem *reminder.Reminder, resetSent bool) error {
	query := `INSERT INTO reminders (chat_id, queue_id, notify_at, outage_start, outage_end, sent, created_at)
               VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
               ON CONFLICT (chat_id, outage_start) DO UPDATE SET
                   queue_id = EXCLUDED.queue_id,
                   notify_at = EXCLUDED.notify_at,
                   outage_end = EXCLUDED.outage_end,
                   sent = CASE WHEN $6::boolean THEN FALSE ELSE reminders.sent END
               RETURNING sent, created_at`
	err := r.db.QueryRowContext(ctx, query,
		rem.ChatID, rem.QueueID, rem.NotifyAt, rem.OutageStart, rem.OutageEnd, resetSent,
	).Scan(&rem.Sent, &rem.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting reminder (chat %d, start %s): %w", rem.ChatID, rem.OutageStart.Format(time.RFC3339), err)
	}
	return nil
}

func (r *PostgresReminderRepository) DeleteByOutage(ctx context.Context, chatID int64, queueID string, outageStart time.Time) (int64, error) {
	query := `DELETE FROM reminders WHERE chat_id = $1 AND queue_id = $2 AND outage_start = $3`
	res, err := r.db.ExecContext(ctx, query, chatID, queueID, outageStart)
	if err != nil {
		return 0, fmt.Errorf("error deleting reminders for outage at %s: %w", outageStart.Format(time.RFC3339), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading deleted reminder count: %w", err)
	}
	return n, nil
}

func (r *PostgresReminderRepository) ListDue(ctx context.Context, from, to time.Time) ([]*reminder.Reminder, error) {
	query := `SELECT chat_id, queue_id, notify_at, outage_start, outage_end, sent, created_at
               FROM reminders
               WHERE sent = FALSE AND notify_at >= $1 AND notify_at <= $2
               ORDER BY notify_at ASC` // Process older ones first
	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying due reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

// MarkSent only touches unsent rows so a reminder is flipped at most once.
func (r *PostgresReminderRepository) MarkSent(ctx context.Context, chatID int64, outageStart time.Time) (bool, error) {
	query := `UPDATE reminders SET sent = TRUE
               WHERE chat_id = $1 AND outage_start = $2 AND sent = FALSE`
	res, err := r.db.ExecContext(ctx, query, chatID, outageStart)
	if err != nil {
		return false, fmt.Errorf("error marking reminder sent (chat %d, start %s): %w", chatID, outageStart.Format(time.RFC3339), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading updated reminder count: %w", err)
	}
	return n == 1, nil
}

func (r *PostgresReminderRepository) DeleteNotifiedBefore(ctx context.Context, threshold time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE notify_at < $1`, threshold)
	if err != nil {
		return 0, fmt.Errorf("error deleting reminders before %s: %w", threshold.Format(time.RFC3339), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading deleted reminder count: %w", err)
	}
	return n, nil
}

// Helper to scan multiple rows
func scanReminders(rows *sql.Rows) ([]*reminder.Reminder, error) {
	reminders := make([]*reminder.Reminder, 0)
	for rows.Next() {
		rem := reminder.Reminder{}
		if err := rows.Scan(
			&rem.ChatID, &rem.QueueID, &rem.NotifyAt, &rem.OutageStart, &rem.OutageEnd, &rem.Sent, &rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning reminder row: %w", err)
		}
		reminders = append(reminders, &rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}
	return reminders, nil
}
