// internal/domain/schedule/repository.go
package schedule

import (
	"context"
	"time"
)

type Repository interface {
	// GetByEventDate returns ErrSnapshotNotFound when no schedule is stored for the date.
	GetByEventDate(ctx context.Context, eventDate string) (*Snapshot, error)
	// Upsert replaces the whole snapshot stored for s.Day.EventDate.
	Upsert(ctx context.Context, s *Snapshot) error
	// DeleteExpired removes snapshots whose ValidUntil is before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
