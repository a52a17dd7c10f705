// internal/domain/schedule/snapshot.go
package schedule

import (
	"errors"
	"time"

	"shutdown_notification_bot/internal/domain/outage"
)

var ErrSnapshotNotFound = errors.New("schedule snapshot not found")

// Snapshot is the last known provider schedule for a day.
// Corresponds to the 'schedules' table, one row per event date.
type Snapshot struct {
	Day        outage.DaySchedule
	ValidUntil time.Time
	UpdatedAt  time.Time
}
