package app

import (
	"context"
	"fmt"
	"time"

	"shutdown_notification_bot/internal/domain/outage"
	"shutdown_notification_bot/internal/domain/reminder"
	"shutdown_notification_bot/internal/domain/schedule"
	domainTelegram "shutdown_notification_bot/internal/domain/telegram"
	"shutdown_notification_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// ReminderConfig holds the reminder settings taken from the application config.
type ReminderConfig struct {
	LeadTime time.Duration
	// ResendOnReAdd resets the sent flag when an outage that was already
	// reminded about is added again.
	ResendOnReAdd bool
	Location      *time.Location
}

// FireResult summarises one FireDue pass.
type FireResult struct {
	Sent   int
	Failed int
}

// ReminderService keeps reminder records in step with schedule changes and delivers them when due.
type ReminderService struct {
	reminderRepo   reminder.Repository
	scheduleRepo   schedule.Repository
	telegramClient domainTelegram.Client
	cfg            ReminderConfig
	metrics        *metrics.Recorder
	logger         *logrus.Entry
}

func NewReminderService(
	rr reminder.Repository,
	sr schedule.Repository,
	tc domainTelegram.Client,
	cfg ReminderConfig,
	recorder *metrics.Recorder,
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		reminderRepo:   rr,
		scheduleRepo:   sr,
		telegramClient: tc,
		cfg:            cfg,
		metrics:        recorder,
		logger:         logger,
	}
}

// Reconcile applies a schedule diff to the stored reminders of chatID and
// returns one message line per change. Removals are applied before additions,
// so an interval whose end moved ends up with a fresh record.
func (s *ReminderService) Reconcile(ctx context.Context, changes outage.Changes, queueID string, chatID int64) ([]string, error) {
	lines := make([]string, 0, len(changes.Removed)+len(changes.Added))

	for _, i := range changes.Removed {
		deleted, err := s.reminderRepo.DeleteByOutage(ctx, chatID, queueID, i.Start)
		if err != nil {
			return nil, fmt.Errorf("failed to delete reminder for outage at %s: %w", i.Start.Format(time.RFC3339), err)
		}
		s.logger.WithFields(logrus.Fields{
			"queue_id":     queueID,
			"outage_start": i.Start,
			"deleted":      deleted,
		}).Info("Deleted reminder for cancelled outage")
		lines = append(lines, cancellationLine(i, s.cfg.Location))
	}

	for _, i := range changes.Added {
		r := &reminder.Reminder{
			ChatID:      chatID,
			QueueID:     queueID,
			NotifyAt:    i.Start.Add(-s.cfg.LeadTime),
			OutageStart: i.Start,
			OutageEnd:   i.End,
		}
		if err := s.reminderRepo.Upsert(ctx, r, s.cfg.ResendOnReAdd); err != nil {
			return nil, fmt.Errorf("failed to upsert reminder for outage at %s: %w", i.Start.Format(time.RFC3339), err)
		}
		s.logger.WithFields(logrus.Fields{
			"queue_id":     queueID,
			"outage_start": r.OutageStart,
			"notify_at":    r.NotifyAt,
		}).Info("Scheduled reminder for new outage")
		lines = append(lines, newOutageLine(i, s.cfg.Location))
	}

	return lines, nil
}

// FireDue sends every unsent reminder with notify_at in [now-lookBack, now] and
// marks it sent. A reminder whose delivery fails stays unsent for the next run.
func (s *ReminderService) FireDue(ctx context.Context, now time.Time, lookBack time.Duration) (FireResult, error) {
	var result FireResult
	defer func() {
		s.metrics.Reminders("sent", result.Sent)
		s.metrics.Reminders("failed", result.Failed)
	}()

	due, err := s.reminderRepo.ListDue(ctx, now.Add(-lookBack), now)
	if err != nil {
		return result, fmt.Errorf("failed to list due reminders: %w", err)
	}
	if len(due) == 0 {
		s.logger.Debug("No reminders due")
		return result, nil
	}

	for _, r := range due {
		log := s.logger.WithFields(logrus.Fields{
			"queue_id":     r.QueueID,
			"outage_start": r.OutageStart,
			"notify_at":    r.NotifyAt,
		})

		if err := s.telegramClient.SendMessage(r.ChatID, reminderMessage(r, s.cfg.Location), htmlOptions()); err != nil {
			log.WithError(err).Warn("Failed to send reminder, it will be retried on the next run")
			result.Failed++
			continue
		}

		marked, err := s.reminderRepo.MarkSent(ctx, r.ChatID, r.OutageStart)
		if err != nil {
			return result, fmt.Errorf("failed to mark reminder for outage at %s as sent: %w", r.OutageStart.Format(time.RFC3339), err)
		}
		if !marked {
			log.Warn("Reminder was already marked sent or removed by another run")
		}
		result.Sent++
		log.Info("Reminder sent")
	}

	s.logger.WithFields(logrus.Fields{"sent": result.Sent, "failed": result.Failed}).Info("Processed due reminders")
	return result, nil
}

// Cleanup deletes reminders with notify_at older than now-retention, sent or
// not, and purges expired schedule snapshots. Errors are logged, not returned.
func (s *ReminderService) Cleanup(ctx context.Context, now time.Time, retention time.Duration) int64 {
	threshold := now.Add(-retention)
	deleted, err := s.reminderRepo.DeleteNotifiedBefore(ctx, threshold)
	if err != nil {
		s.logger.WithError(err).WithField("threshold", threshold).Error("Failed to delete old reminders")
		deleted = 0
	} else if deleted > 0 {
		s.logger.WithField("deleted", deleted).Info("Deleted old reminders")
		s.metrics.Reminders("cleaned", int(deleted))
	}

	expired, err := s.scheduleRepo.DeleteExpired(ctx, now)
	if err != nil {
		s.logger.WithError(err).Error("Failed to delete expired schedules")
	} else if expired > 0 {
		s.logger.WithField("deleted", expired).Info("Deleted expired schedules")
	}

	return deleted
}
