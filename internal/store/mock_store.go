package store

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockLedger is a mock implementation of Ledger using testify/mock.
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RecordOutcome(ctx context.Context, o Outcome) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockLedger) GetOutcome(ctx context.Context, originalKey string) (Outcome, error) {
	args := m.Called(ctx, originalKey)
	return args.Get(0).(Outcome), args.Error(1)
}

func (m *MockLedger) Close() error {
	args := m.Called()
	return args.Error(0)
}
