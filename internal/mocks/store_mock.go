package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"shutdown_notification_bot/internal/domain/metadata"
	"shutdown_notification_bot/internal/domain/reminder"
	"shutdown_notification_bot/internal/domain/schedule"
)

type reminderKey struct {
	chatID int64
	start  int64
}

// InMemoryReminderRepository is a map-backed reminder.Repository with the same
// upsert and conditional update semantics as the Postgres one. Writes counts
// upserts and deletes by outage. Err, when set, is returned by every call.
type InMemoryReminderRepository struct {
	mu     sync.Mutex
	items  map[reminderKey]*reminder.Reminder
	Writes int
	Err    error
}

func NewInMemoryReminderRepository() *InMemoryReminderRepository {
	return &InMemoryReminderRepository{items: make(map[reminderKey]*reminder.Reminder)}
}

func (r *InMemoryReminderRepository) Upsert(_ context.Context, rem *reminder.Reminder, resetSent bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	r.Writes++
	k := reminderKey{rem.ChatID, rem.OutageStart.UnixNano()}
	stored := *rem
	if existing, ok := r.items[k]; ok {
		stored.CreatedAt = existing.CreatedAt
		stored.Sent = existing.Sent && !resetSent
	} else {
		stored.CreatedAt = time.Now()
		stored.Sent = false
	}
	r.items[k] = &stored
	rem.Sent = stored.Sent
	rem.CreatedAt = stored.CreatedAt
	return nil
}

func (r *InMemoryReminderRepository) DeleteByOutage(_ context.Context, chatID int64, queueID string, outageStart time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	r.Writes++
	k := reminderKey{chatID, outageStart.UnixNano()}
	if existing, ok := r.items[k]; ok && existing.QueueID == queueID {
		delete(r.items, k)
		return 1, nil
	}
	return 0, nil
}

func (r *InMemoryReminderRepository) ListDue(_ context.Context, from, to time.Time) ([]*reminder.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	var due []*reminder.Reminder
	for _, rem := range r.items {
		if rem.Sent || rem.NotifyAt.Before(from) || rem.NotifyAt.After(to) {
			continue
		}
		c := *rem
		due = append(due, &c)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].NotifyAt.Before(due[j].NotifyAt) })
	return due, nil
}

func (r *InMemoryReminderRepository) MarkSent(_ context.Context, chatID int64, outageStart time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return false, r.Err
	}

	rem, ok := r.items[reminderKey{chatID, outageStart.UnixNano()}]
	if !ok || rem.Sent {
		return false, nil
	}
	rem.Sent = true
	return true, nil
}

func (r *InMemoryReminderRepository) DeleteNotifiedBefore(_ context.Context, threshold time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	var n int64
	for k, rem := range r.items {
		if rem.NotifyAt.Before(threshold) {
			delete(r.items, k)
			n++
		}
	}
	return n, nil
}

// All returns copies of the stored reminders ordered by outage start.
func (r *InMemoryReminderRepository) All() []reminder.Reminder {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]reminder.Reminder, 0, len(r.items))
	for _, rem := range r.items {
		all = append(all, *rem)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].OutageStart.Before(all[j].OutageStart) })
	return all
}

// InMemoryScheduleRepository is a map-backed schedule.Repository.
type InMemoryScheduleRepository struct {
	mu     sync.Mutex
	items  map[string]schedule.Snapshot
	Writes int
	Err    error
}

func NewInMemoryScheduleRepository() *InMemoryScheduleRepository {
	return &InMemoryScheduleRepository{items: make(map[string]schedule.Snapshot)}
}

func (r *InMemoryScheduleRepository) GetByEventDate(_ context.Context, eventDate string) (*schedule.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	s, ok := r.items[eventDate]
	if !ok {
		return nil, schedule.ErrSnapshotNotFound
	}
	return &s, nil
}

func (r *InMemoryScheduleRepository) Upsert(_ context.Context, s *schedule.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}

	r.items[s.Day.EventDate] = *s
	r.Writes++
	return nil
}

func (r *InMemoryScheduleRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return 0, r.Err
	}

	var n int64
	for k, s := range r.items {
		if s.ValidUntil.Before(now) {
			delete(r.items, k)
			n++
		}
	}
	return n, nil
}

// InMemoryMetadataRepository is a metadata.Repository holding the cooldown marker in memory.
type InMemoryMetadataRepository struct {
	mu        sync.Mutex
	lastCheck *time.Time
	Err       error
}

func (r *InMemoryMetadataRepository) LastAPICheck(_ context.Context) (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return time.Time{}, r.Err
	}
	if r.lastCheck == nil {
		return time.Time{}, metadata.ErrMarkerNotFound
	}
	return *r.lastCheck, nil
}

func (r *InMemoryMetadataRepository) SetLastAPICheck(_ context.Context, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.lastCheck = &at
	return nil
}
