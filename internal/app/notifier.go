package app

import (
	"context"
	"time"

	"shutdown_notification_bot/internal/domain/outage"
	domainTelegram "shutdown_notification_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// ChangeNotifier posts schedule updates to the group chat.
type ChangeNotifier struct {
	telegramClient domainTelegram.Client
	chatID         int64
	loc            *time.Location
	logger         *logrus.Entry
}

func NewChangeNotifier(tc domainTelegram.Client, chatID int64, loc *time.Location, logger *logrus.Entry) *ChangeNotifier {
	return &ChangeNotifier{
		telegramClient: tc,
		chatID:         chatID,
		loc:            loc,
		logger:         logger,
	}
}

// FormatAndSend renders one line per removed and added interval and posts them as a single message.
func (n *ChangeNotifier) FormatAndSend(ctx context.Context, changes outage.Changes, queueID, eventDate string) {
	lines := make([]string, 0, len(changes.Removed)+len(changes.Added))
	for _, i := range changes.Removed {
		lines = append(lines, cancellationLine(i, n.loc))
	}
	for _, i := range changes.Added {
		lines = append(lines, newOutageLine(i, n.loc))
	}
	n.Send(ctx, queueID, eventDate, lines)
}

// Send posts pre-built change lines. Nothing is sent for an empty list and
// delivery failures are only logged.
func (n *ChangeNotifier) Send(ctx context.Context, queueID, eventDate string, lines []string) {
	if len(lines) == 0 {
		return
	}
	log := n.logger.WithFields(logrus.Fields{"queue_id": queueID, "event_date": eventDate})
	if err := ctx.Err(); err != nil {
		log.WithError(err).Warn("Skipping schedule update message, context is done")
		return
	}

	if err := n.telegramClient.SendMessage(n.chatID, updateMessage(queueID, eventDate, lines), htmlOptions()); err != nil {
		log.WithError(err).Error("Failed to send schedule update")
		return
	}
	log.WithField("lines", len(lines)).Info("Schedule update sent")
}
