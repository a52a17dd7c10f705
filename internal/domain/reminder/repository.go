// internal/domain/reminder/repository.go
package reminder

import (
	"context"
	"time"
)

// Repository defines persistence operations for reminders.
type Repository interface {
	// Upsert inserts the reminder or replaces the one stored for (ChatID, OutageStart).
	// When resetSent is false an existing record keeps its Sent flag.
	Upsert(ctx context.Context, r *Reminder, resetSent bool) error
	// DeleteByOutage removes reminders for a cancelled outage and reports how many were deleted.
	DeleteByOutage(ctx context.Context, chatID int64, queueID string, outageStart time.Time) (int64, error)
	// ListDue returns unsent reminders with from <= notify_at <= to, oldest first.
	ListDue(ctx context.Context, from, to time.Time) ([]*Reminder, error)
	// MarkSent flips sent to true. It reports false if the reminder was already sent or is gone.
	MarkSent(ctx context.Context, chatID int64, outageStart time.Time) (bool, error)
	// DeleteNotifiedBefore removes reminders with notify_at < threshold, sent or not.
	DeleteNotifiedBefore(ctx context.Context, threshold time.Time) (int64, error)
}
