package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder(prometheus.NewRegistry())

	r.FetchResult("ok")
	r.FetchResult("ok")
	r.FetchResult("skipped")
	r.ScheduleChanges(2, 1)
	r.Reminders("sent", 3)
	r.Reminders("failed", 1)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.fetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fetches.WithLabelValues("skipped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.changes.WithLabelValues("added")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.changes.WithLabelValues("removed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.reminders.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.reminders.WithLabelValues("failed")))
}

func TestRecorder_RunFinished(t *testing.T) {
	r := NewRecorder(nil)
	start := time.Unix(1_700_000_000, 0)

	r.RunFinished(start, start.Add(3*time.Second), nil)
	r.RunFinished(start, start.Add(time.Second), errors.New("store down"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues("failed")))
	assert.Equal(t, float64(start.Add(3*time.Second).Unix()), testutil.ToFloat64(r.lastSuccess))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.duration))
}

func TestRecorder_Push(t *testing.T) {
	var path, body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path = req.URL.Path
		b, _ := io.ReadAll(req.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	r := NewRecorder(nil)
	r.FetchResult("ok")

	require.NoError(t, r.Push(context.Background(), srv.URL, "shutdown_notifier"))
	assert.True(t, strings.HasSuffix(path, "/metrics/job/shutdown_notifier"), path)
	assert.NotEmpty(t, body)
}
