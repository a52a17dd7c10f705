package app

import (
	"fmt"
	"strings"
	"time"

	"shutdown_notification_bot/internal/domain/outage"
	"shutdown_notification_bot/internal/domain/reminder"

	"gopkg.in/telebot.v3"
)

func htmlOptions() *telebot.SendOptions {
	return &telebot.SendOptions{ParseMode: telebot.ModeHTML}
}

func clock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(outage.ClockLayout)
}

func cancellationLine(i outage.Interval, loc *time.Location) string {
	return fmt.Sprintf("✅ <b>CANCELLATION:</b> Outage at <b>%s</b> has been REMOVED.", clock(i.Start, loc))
}

func newOutageLine(i outage.Interval, loc *time.Location) string {
	return fmt.Sprintf("⚠️ <b>NEW OUTAGE:</b> Off from <b>%s</b> to <b>%s</b>.", clock(i.Start, loc), clock(i.End, loc))
}

// updateMessage joins change lines under the per-day header.
func updateMessage(queueID, eventDate string, lines []string) string {
	header := fmt.Sprintf("⚡ <b>SCHEDULE UPDATE</b> for Queue %s on <b>%s</b>:\n\n", queueID, eventDate)
	return header + strings.Join(lines, "\n")
}

// reminderMessage announces an outage. The lead shown is the one the reminder was created with.
func reminderMessage(r *reminder.Reminder, loc *time.Location) string {
	minutes := int(r.OutageStart.Sub(r.NotifyAt).Round(time.Minute) / time.Minute)
	return fmt.Sprintf(
		"⚠️ <b>REMINDER:</b> Power outage starts in <b>%d minutes</b>!\n🕒 <b>Time: %s - %s</b>",
		minutes, clock(r.OutageStart, loc), clock(r.OutageEnd, loc),
	)
}
