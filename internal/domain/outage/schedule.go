// internal/domain/outage/schedule.go
package outage

import "fmt"

// Slot is a single shutdown window for a queue as published by the provider.
type Slot struct {
	ShutdownHours string `json:"shutdownHours"`
	From          string `json:"from" validate:"required"`
	To            string `json:"to" validate:"required"`
	Status        int    `json:"status"`
}

// DaySchedule is the provider's schedule for one calendar day, keyed by queue id ("4.2").
type DaySchedule struct {
	EventDate             string            `json:"eventDate" validate:"required,datetime=02.01.2006"`
	CreatedAt             string            `json:"createdAt"`
	ScheduleApprovedSince string            `json:"scheduleApprovedSince"`
	Queues                map[string][]Slot `json:"queues" validate:"dive,dive"`
}

// CurrentStatus identifies the queue the configured account belongs to.
// Queues are numbered from 1, so a zero Queue means the payload had no "current".
type CurrentStatus struct {
	Queue    int `json:"queue" validate:"required,gte=1"`
	SubQueue int `json:"subQueue" validate:"gte=0"`
}

// ScheduleRoot is the full provider payload.
type ScheduleRoot struct {
	Schedule []DaySchedule `json:"schedule" validate:"dive"`
	Current  CurrentStatus `json:"current"`
}

// QueueID renders the queue/sub-queue pair the way schedules are keyed.
func (c CurrentStatus) QueueID() string {
	return fmt.Sprintf("%d.%d", c.Queue, c.SubQueue)
}
