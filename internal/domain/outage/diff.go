// internal/domain/outage/diff.go
package outage

import (
	"sort"
	"time"
)

// Changes is the result of comparing two schedules for one queue.
// An outage whose end moved shows up once in Removed and once in Added.
type Changes struct {
	Added   []Interval
	Removed []Interval
}

func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Diff compares the intervals of queueID in previous and current. A nil previous
// is treated as a schedule without outages. Both result slices are sorted by start.
func Diff(previous *DaySchedule, current DaySchedule, queueID string, loc *time.Location) (Changes, error) {
	var oldIntervals []Interval
	if previous != nil {
		var err error
		oldIntervals, err = IntervalsForQueue(*previous, queueID, loc)
		if err != nil {
			return Changes{}, err
		}
	}
	newIntervals, err := IntervalsForQueue(current, queueID, loc)
	if err != nil {
		return Changes{}, err
	}

	oldSet := toSet(oldIntervals)
	newSet := toSet(newIntervals)

	return Changes{
		Added:   subtract(newSet, oldSet),
		Removed: subtract(oldSet, newSet),
	}, nil
}

func toSet(intervals []Interval) map[key]Interval {
	set := make(map[key]Interval, len(intervals))
	for _, i := range intervals {
		set[i.key()] = i
	}
	return set
}

func subtract(a, b map[key]Interval) []Interval {
	out := make([]Interval, 0)
	for k, i := range a {
		if _, ok := b[k]; !ok {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(x, y int) bool {
		if !out[x].Start.Equal(out[y].Start) {
			return out[x].Start.Before(out[y].Start)
		}
		return out[x].End.Before(out[y].End)
	})
	return out
}
