package objectstore

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store using testify/mock.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, bucket, key string) (Object, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(Object), args.Error(1)
}

func (m *MockStore) Put(ctx context.Context, bucket, key string, obj Object) error {
	args := m.Called(ctx, bucket, key, obj)
	return args.Error(0)
}
