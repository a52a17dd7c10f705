// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"net/http"
	"time"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

// NewBot creates a bot used only for sending; it never polls for updates.
// An empty apiURL selects the public Telegram endpoint.
func NewBot(token, apiURL string, timeout time.Duration, offline bool) (*telebot.Bot, error) {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:   token,
		URL:     apiURL,
		Offline: offline,
		Client:  &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	return bot, nil
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a text message to a user, group or channel by numeric chat id.
func (tba *TelebotAdapter) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if options == nil {
		options = &telebot.SendOptions{}
	}

	_, err := tba.bot.Send(telebot.ChatID(recipientChatID), text, options)
	if err != nil {
		return fmt.Errorf("failed to send message to chat %d: %w", recipientChatID, err)
	}
	return nil
}
