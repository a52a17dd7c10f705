package scheduler

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func TestSyncScheduler_RunsJobWithDeadline(t *testing.T) {
	var calls atomic.Int32
	var hadDeadline atomic.Bool
	job := func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
		calls.Add(1)
		return errors.New("store unavailable")
	}

	s := NewSyncScheduler(job, "@every 1s", time.Minute, time.UTC, quietLogger())
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)
	assert.True(t, hadDeadline.Load())
}

func TestSyncScheduler_SkipsOverlappingRuns(t *testing.T) {
	var running, overlaps, calls atomic.Int32
	release := make(chan struct{})
	job := func(ctx context.Context) error {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		defer running.Add(-1)
		calls.Add(1)
		<-release
		return nil
	}

	s := NewSyncScheduler(job, "@every 1s", time.Minute, time.UTC, quietLogger())
	require.NoError(t, s.Start())

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 3*time.Second, 50*time.Millisecond)
	time.Sleep(2200 * time.Millisecond)
	stopped := s.cronEngine.Stop()
	close(release)
	<-stopped.Done()

	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, int32(0), overlaps.Load())
}

func TestSyncScheduler_InvalidSpec(t *testing.T) {
	s := NewSyncScheduler(func(context.Context) error { return nil }, "not a cron spec", time.Minute, time.UTC, quietLogger())

	assert.Error(t, s.Start())
}

func TestRunOnce(t *testing.T) {
	storeErr := errors.New("store unavailable")

	assert.NoError(t, RunOnce(context.Background(), func(context.Context) error { return nil }, quietLogger()))
	assert.ErrorIs(t, RunOnce(context.Background(), func(context.Context) error { return storeErr }, quietLogger()), storeErr)
}

func TestRunOnce_RecoversPanic(t *testing.T) {
	var err error
	assert.NotPanics(t, func() {
		err = RunOnce(context.Background(), func(context.Context) error {
			var snapshot map[string]int
			snapshot["25.11.2025"]++
			return nil
		}, quietLogger())
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}
