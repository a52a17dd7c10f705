package mocks

import (
	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v3"
)

// MockTelegramClient is a mock implementation of the telegram.Client interface.
type MockTelegramClient struct {
	mock.Mock
}

func (m *MockTelegramClient) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	args := m.Called(recipientChatID, text, options)

	return args.Error(0)
}
