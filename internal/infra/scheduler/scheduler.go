package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"shutdown_notification_bot/internal/infra/logger"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Job is one notifier invocation.
type Job func(ctx context.Context) error

// SyncScheduler triggers the job on a cron schedule. A trigger that fires while
// the previous run is still going is skipped.
type SyncScheduler struct {
	cronEngine *cron.Cron
	job        Job
	cronSpec   string
	runTimeout time.Duration
	logger     *logrus.Entry
}

func NewSyncScheduler(job Job, cronSpec string, runTimeout time.Duration, loc *time.Location, log *logrus.Entry) *SyncScheduler {
	cronLogger := logger.NewCronLogger(log)
	return &SyncScheduler{
		cronEngine: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		job:        job,
		cronSpec:   cronSpec,
		runTimeout: runTimeout,
		logger:     log,
	}
}

func (s *SyncScheduler) Start() error {
	s.logger.WithField("cron_spec", s.cronSpec).Info("Starting sync scheduler...")

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.runJob); err != nil {
		return fmt.Errorf("could not add sync cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Sync scheduler started.")
	return nil
}

func (s *SyncScheduler) runJob() {
	s.logger.Debug("Cron job triggered for sync run.")
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	if err := RunOnce(ctx, s.job, s.logger); err != nil {
		s.logger.WithError(err).Error("Sync run failed")
	}
}

// RunOnce runs the job and turns a panic into an error, so a broken run is
// logged instead of taking the process down.
func RunOnce(ctx context.Context, job Job, log *logrus.Entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("Sync run panicked: %v", r)
			err = fmt.Errorf("sync run panicked: %v", r)
		}
	}()
	return job(ctx)
}

// Stop halts the cron engine and waits for a running job to finish.
func (s *SyncScheduler) Stop() {
	s.logger.Info("Stopping sync scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Sync scheduler gracefully stopped.")
}
