package mocks

import (
	"context"

	"github.com/replycal/replycal/internal/notify"
	"github.com/stretchr/testify/mock"
)

// MockSender is a mock implementation of the notify.Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, reply *notify.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *MockSender) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockSender) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}
