package outage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_SameScheduleIsEmpty(t *testing.T) {
	s := daySchedule("25.11.2025", map[string][]Slot{
		"4.2": {{ShutdownHours: "16:30-20:00", From: "16:30", To: "20:00", Status: 1}},
	})

	changes, err := Diff(&s, s, "4.2", kyiv(t))
	require.NoError(t, err)
	assert.Empty(t, changes.Added)
	assert.Empty(t, changes.Removed)
	assert.True(t, changes.Empty())
}

func TestDiff_NoPreviousSchedule(t *testing.T) {
	loc := kyiv(t)
	s := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "16:30", To: "20:00"}}})

	changes, err := Diff(nil, s, "4.2", loc)
	require.NoError(t, err)
	require.Len(t, changes.Added, 1)
	assert.Empty(t, changes.Removed)
	assert.True(t, changes.Added[0].Start.Equal(time.Date(2025, 11, 25, 16, 30, 0, 0, loc)))
	assert.True(t, changes.Added[0].End.Equal(time.Date(2025, 11, 25, 20, 0, 0, 0, loc)))
}

func TestDiff_EmptyQueueToOneSlot(t *testing.T) {
	old := daySchedule("25.11.2025", map[string][]Slot{"4.2": {}})
	s := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "16:30", To: "20:00"}}})

	changes, err := Diff(&old, s, "4.2", kyiv(t))
	require.NoError(t, err)
	assert.Len(t, changes.Added, 1)
	assert.Empty(t, changes.Removed)
}

func TestDiff_RemovedSlot(t *testing.T) {
	loc := kyiv(t)
	old := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "08:00", To: "10:00"}, {From: "16:30", To: "20:00"}}})
	s := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "16:30", To: "20:00"}}})

	changes, err := Diff(&old, s, "4.2", loc)
	require.NoError(t, err)
	assert.Empty(t, changes.Added)
	require.Len(t, changes.Removed, 1)
	assert.True(t, changes.Removed[0].Start.Equal(time.Date(2025, 11, 25, 8, 0, 0, 0, loc)))
}

func TestDiff_ChangedEndIsRemoveAndAdd(t *testing.T) {
	loc := kyiv(t)
	old := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "16:30", To: "20:00"}}})
	s := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "16:30", To: "21:00"}}})

	changes, err := Diff(&old, s, "4.2", loc)
	require.NoError(t, err)
	require.Len(t, changes.Added, 1)
	require.Len(t, changes.Removed, 1)
	assert.True(t, changes.Added[0].Start.Equal(changes.Removed[0].Start))
	assert.True(t, changes.Added[0].End.Equal(time.Date(2025, 11, 25, 21, 0, 0, 0, loc)))
	assert.True(t, changes.Removed[0].End.Equal(time.Date(2025, 11, 25, 20, 0, 0, 0, loc)))
}

func TestDiff_IgnoresOtherQueues(t *testing.T) {
	old := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "16:30", To: "20:00"}}, "1.1": {{From: "01:00", To: "02:00"}}})
	s := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "16:30", To: "20:00"}}, "1.1": {}})

	changes, err := Diff(&old, s, "4.2", kyiv(t))
	require.NoError(t, err)
	assert.True(t, changes.Empty())
}

func TestDiff_SortedByStart(t *testing.T) {
	s := daySchedule("25.11.2025", map[string][]Slot{"4.2": {
		{From: "18:00", To: "19:00"},
		{From: "06:00", To: "07:00"},
		{From: "12:00", To: "13:00"},
	}})

	changes, err := Diff(nil, s, "4.2", kyiv(t))
	require.NoError(t, err)
	require.Len(t, changes.Added, 3)
	for i := 1; i < len(changes.Added); i++ {
		assert.True(t, changes.Added[i-1].Start.Before(changes.Added[i].Start))
	}
}

func TestDiff_SymmetricMembership(t *testing.T) {
	old := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "06:00", To: "07:00"}, {From: "12:00", To: "13:00"}}})
	s := daySchedule("25.11.2025", map[string][]Slot{"4.2": {{From: "12:00", To: "13:00"}, {From: "18:00", To: "19:00"}}})
	loc := kyiv(t)

	changes, err := Diff(&old, s, "4.2", loc)
	require.NoError(t, err)

	reverse, err := Diff(&s, old, "4.2", loc)
	require.NoError(t, err)

	assert.Equal(t, changes.Added, reverse.Removed)
	assert.Equal(t, changes.Removed, reverse.Added)
}
