package app

import (
	"io"
	"testing"
	"time"
	_ "time/tzdata"

	"shutdown_notification_bot/internal/domain/outage"
	"shutdown_notification_bot/internal/infra/metrics"
	"shutdown_notification_bot/internal/mocks"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const (
	groupID int64 = -100123
	queue         = "4.2"
)

func kyiv(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)
	return loc
}

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("02.01.2006 15:04", value, kyiv(t))
	require.NoError(t, err)
	return ts
}

func interval(t *testing.T, day, from, to string) outage.Interval {
	t.Helper()
	return outage.Interval{Start: at(t, day+" "+from), End: at(t, day+" "+to)}
}

func day(date string, slots ...outage.Slot) outage.DaySchedule {
	return outage.DaySchedule{
		EventDate: date,
		Queues:    map[string][]outage.Slot{queue: slots},
	}
}

func slot(from, to string) outage.Slot {
	return outage.Slot{From: from, To: to, Status: 1}
}

type reminderFixture struct {
	reminders *mocks.InMemoryReminderRepository
	schedules *mocks.InMemoryScheduleRepository
	telegram  *mocks.MockTelegramClient
	service   *ReminderService
}

func newReminderFixture(t *testing.T, resend bool) *reminderFixture {
	f := &reminderFixture{
		reminders: mocks.NewInMemoryReminderRepository(),
		schedules: mocks.NewInMemoryScheduleRepository(),
		telegram:  &mocks.MockTelegramClient{},
	}
	f.service = NewReminderService(f.reminders, f.schedules, f.telegram, ReminderConfig{
		LeadTime:      15 * time.Minute,
		ResendOnReAdd: resend,
		Location:      kyiv(t),
	}, metrics.NewRecorder(nil), quietLogger())
	return f
}
