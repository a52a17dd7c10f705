package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shutdown_notification_bot/internal/domain/metadata"
	"shutdown_notification_bot/internal/domain/outage"
	"shutdown_notification_bot/internal/domain/schedule"
	"shutdown_notification_bot/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ScheduleProvider fetches the current outage schedule from the utility.
type ScheduleProvider interface {
	FetchSchedule(ctx context.Context) (*outage.ScheduleRoot, error)
}

type SyncConfig struct {
	ChatID int64
	// QueueID replaces the queue reported by the provider when non-empty.
	QueueID           string
	Location          *time.Location
	APICooldown       time.Duration
	ReminderLookBack  time.Duration
	ReminderRetention time.Duration
	ScheduleTTL       time.Duration
}

// SyncService runs one notifier invocation: schedule sync, due reminders, retention.
type SyncService struct {
	provider     ScheduleProvider
	scheduleRepo schedule.Repository
	metadataRepo metadata.Repository
	reminders    *ReminderService
	notifier     *ChangeNotifier
	cfg          SyncConfig
	metrics      *metrics.Recorder
	logger       *logrus.Entry
	now          func() time.Time
}

func NewSyncService(
	provider ScheduleProvider,
	sr schedule.Repository,
	mr metadata.Repository,
	reminders *ReminderService,
	notifier *ChangeNotifier,
	cfg SyncConfig,
	recorder *metrics.Recorder,
	logger *logrus.Entry,
) *SyncService {
	return &SyncService{
		provider:     provider,
		scheduleRepo: sr,
		metadataRepo: mr,
		reminders:    reminders,
		notifier:     notifier,
		cfg:          cfg,
		metrics:      recorder,
		logger:       logger,
		now:          time.Now,
	}
}

// ShouldCheckAPI reports whether the cooldown since the last provider poll has elapsed.
// A provider that was never polled is due.
func (s *SyncService) ShouldCheckAPI(ctx context.Context, now time.Time) (bool, error) {
	last, err := s.metadataRepo.LastAPICheck(ctx)
	if errors.Is(err, metadata.ErrMarkerNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read last API check: %w", err)
	}
	return now.Sub(last) >= s.cfg.APICooldown, nil
}

// Run executes one invocation. Store errors abort the remaining steps and are returned;
// provider failures only skip the schedule sync.
func (s *SyncService) Run(ctx context.Context) (err error) {
	started := s.now()
	log := s.logger.WithField("run_id", uuid.NewString())
	defer func() {
		s.metrics.RunFinished(started, s.now(), err)
	}()

	log.Info("Run started")

	due, err := s.ShouldCheckAPI(ctx, started)
	if err != nil {
		return err
	}
	if due {
		if err := s.syncSchedules(ctx, log, started); err != nil {
			return err
		}
	} else {
		log.Debug("API cooldown active, skipping schedule fetch")
		s.metrics.FetchResult("skipped")
	}

	result, err := s.reminders.FireDue(ctx, started, s.cfg.ReminderLookBack)
	if err != nil {
		return err
	}

	cleaned := s.reminders.Cleanup(ctx, started, s.cfg.ReminderRetention)

	log.WithFields(logrus.Fields{
		"reminders_sent":    result.Sent,
		"reminders_failed":  result.Failed,
		"reminders_cleaned": cleaned,
	}).Info("Run finished")
	return nil
}

func (s *SyncService) syncSchedules(ctx context.Context, log *logrus.Entry, now time.Time) error {
	root, err := s.provider.FetchSchedule(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch schedule, skipping sync")
		s.metrics.FetchResult("failed")
		return nil
	}
	if root == nil || len(root.Schedule) == 0 {
		log.Warn("Provider returned no schedule, skipping sync")
		s.metrics.FetchResult("empty")
		return nil
	}
	s.metrics.FetchResult("ok")

	queueID := s.cfg.QueueID
	if queueID == "" {
		queueID = root.Current.QueueID()
	}

	for _, day := range root.Schedule {
		if err := s.syncDay(ctx, log, day, queueID, now); err != nil {
			return err
		}
	}

	if err := s.metadataRepo.SetLastAPICheck(ctx, now); err != nil {
		return fmt.Errorf("failed to update last API check: %w", err)
	}
	return nil
}

func (s *SyncService) syncDay(ctx context.Context, log *logrus.Entry, day outage.DaySchedule, queueID string, now time.Time) error {
	log = log.WithFields(logrus.Fields{"queue_id": queueID, "event_date": day.EventDate})

	var previous *outage.DaySchedule
	snapshot, err := s.scheduleRepo.GetByEventDate(ctx, day.EventDate)
	switch {
	case errors.Is(err, schedule.ErrSnapshotNotFound):
	case err != nil:
		return fmt.Errorf("failed to load schedule for %s: %w", day.EventDate, err)
	default:
		previous = &snapshot.Day
	}

	changes, err := outage.Diff(previous, day, queueID, s.cfg.Location)
	if err != nil {
		log.WithError(err).Warn("Skipping day with malformed schedule")
		return nil
	}
	if previous != nil && changes.Empty() {
		log.Debug("Schedule unchanged")
		return nil
	}

	lines, err := s.reminders.Reconcile(ctx, changes, queueID, s.cfg.ChatID)
	if err != nil {
		return err
	}
	s.notifier.Send(ctx, queueID, day.EventDate, lines)
	s.metrics.ScheduleChanges(len(changes.Added), len(changes.Removed))

	err = s.scheduleRepo.Upsert(ctx, &schedule.Snapshot{
		Day:        day,
		ValidUntil: now.Add(s.cfg.ScheduleTTL),
		UpdatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("failed to save schedule for %s: %w", day.EventDate, err)
	}
	log.WithFields(logrus.Fields{
		"added":   len(changes.Added),
		"removed": len(changes.Removed),
	}).Info("Schedule synced")
	return nil
}
