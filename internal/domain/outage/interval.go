// internal/domain/outage/interval.go
package outage

import (
	"errors"
	"fmt"
	"time"
)

const (
	EventDateLayout = "02.01.2006"
	ClockLayout     = "15:04"

	slotTimeLayout = EventDateLayout + " " + ClockLayout
	endOfDay       = "24:00"
)

// ErrInvalidSlot is returned when a slot's date or clock strings cannot be parsed.
var ErrInvalidSlot = errors.New("invalid schedule slot")

// Interval is a single outage window in the configured location.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) String() string {
	return fmt.Sprintf("%s-%s", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// key identifies an interval by its instants so that equal windows compare equal
// regardless of the *time.Location pointer they carry.
type key struct {
	start, end int64
}

func (i Interval) key() key {
	return key{start: i.Start.UnixNano(), end: i.End.UnixNano()}
}

// IntervalsForQueue converts the slots of queueID into intervals. The slot strings
// are wall-clock times of EventDate in loc. A missing queue yields no intervals.
func IntervalsForQueue(schedule DaySchedule, queueID string, loc *time.Location) ([]Interval, error) {
	slots, ok := schedule.Queues[queueID]
	if !ok {
		return []Interval{}, nil
	}

	intervals := make([]Interval, 0, len(slots))
	for _, slot := range slots {
		start, err := wallTime(schedule.EventDate, slot.From, loc)
		if err != nil {
			return nil, err
		}
		end, err := wallTime(schedule.EventDate, slot.To, loc)
		if err != nil {
			return nil, err
		}
		// A window such as 22:00-00:00 or 00:00-00:00 finishes on the following day.
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		intervals = append(intervals, Interval{Start: start, End: end})
	}
	return intervals, nil
}

func wallTime(eventDate, clock string, loc *time.Location) (time.Time, error) {
	if clock == endOfDay {
		day, err := time.ParseInLocation(EventDateLayout, eventDate, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: event date %q: %v", ErrInvalidSlot, eventDate, err)
		}
		return day.AddDate(0, 0, 1), nil
	}

	t, err := time.ParseInLocation(slotTimeLayout, eventDate+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q on %q: %v", ErrInvalidSlot, clock, eventDate, err)
	}
	return t, nil
}
