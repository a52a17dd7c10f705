package telegram

import "gopkg.in/telebot.v3"

// Client sends chat messages. It decouples the application from the bot library.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
