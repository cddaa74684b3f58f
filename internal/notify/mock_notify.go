package notify

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSubscriber is a mock implementation of Subscriber using testify/mock.
type MockSubscriber struct {
	mock.Mock
}

func (m *MockSubscriber) Listen(ctx context.Context, handler Handler) error {
	args := m.Called(ctx, handler)
	return args.Error(0)
}
