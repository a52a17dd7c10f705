// Package metrics records per-run counters. Runs are short-lived, so values are
// pushed to a Prometheus Pushgateway instead of being scraped.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "shutdown_notifier"

type Recorder struct {
	registry    *prometheus.Registry
	fetches     *prometheus.CounterVec
	changes     *prometheus.CounterVec
	reminders   *prometheus.CounterVec
	runs        *prometheus.CounterVec
	lastSuccess prometheus.Gauge
	duration    prometheus.Gauge
}

// NewRecorder registers the collectors on reg. A nil reg gets a fresh registry.
func NewRecorder(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{
		registry: reg,
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_fetches_total",
			Help:      "Schedule provider fetch attempts by result",
		}, []string{"result"}),
		changes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_changes_total",
			Help:      "Outage intervals added or removed between schedule versions",
		}, []string{"kind"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_total",
			Help:      "Reminder lifecycle events by outcome",
		}, []string{"outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Sync invocations by result",
		}, []string{"result"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that finished without error",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Duration of the most recent run",
		}),
	}
	reg.MustRegister(r.fetches, r.changes, r.reminders, r.runs, r.lastSuccess, r.duration)
	return r
}

// FetchResult counts a provider call: "ok", "failed" or "skipped" (cooldown).
func (r *Recorder) FetchResult(result string) {
	r.fetches.WithLabelValues(result).Inc()
}

func (r *Recorder) ScheduleChanges(added, removed int) {
	r.changes.WithLabelValues("added").Add(float64(added))
	r.changes.WithLabelValues("removed").Add(float64(removed))
}

// Reminders counts n reminders with the given outcome ("sent", "failed", "cleaned").
func (r *Recorder) Reminders(outcome string, n int) {
	r.reminders.WithLabelValues(outcome).Add(float64(n))
}

func (r *Recorder) RunFinished(started, finished time.Time, err error) {
	r.duration.Set(finished.Sub(started).Seconds())
	if err != nil {
		r.runs.WithLabelValues("failed").Inc()
		return
	}
	r.runs.WithLabelValues("ok").Inc()
	r.lastSuccess.Set(float64(finished.Unix()))
}

// Push sends every collected metric to the gateway under the given job name.
func (r *Recorder) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", gatewayURL, err)
	}
	return nil
}
