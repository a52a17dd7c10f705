package mocks

import (
	"context"

	"shutdown_notification_bot/internal/domain/outage"

	"github.com/stretchr/testify/mock"
)

// MockScheduleProvider is a mock implementation of the app.ScheduleProvider interface.
type MockScheduleProvider struct {
	mock.Mock
}

func (m *MockScheduleProvider) FetchSchedule(ctx context.Context) (*outage.ScheduleRoot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*outage.ScheduleRoot), args.Error(1)
}
