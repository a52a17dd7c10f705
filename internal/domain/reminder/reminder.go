// internal/domain/reminder/reminder.go
package reminder

import "time"

// Reminder is a pending or delivered heads-up for one outage window.
// It corresponds to the 'reminders' table; (ChatID, OutageStart) is unique.
type Reminder struct {
	ChatID      int64
	QueueID     string
	NotifyAt    time.Time // OutageStart minus the lead time
	OutageStart time.Time
	OutageEnd   time.Time
	Sent        bool
	CreatedAt   time.Time
}
