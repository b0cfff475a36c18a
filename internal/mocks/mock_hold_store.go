package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockHoldStore struct {
	mock.Mock
}

func (m *MockHoldStore) Put(ctx context.Context, hold domain.Hold, ttl time.Duration) error {
	args := m.Called(ctx, hold, ttl)
	return args.Error(0)
}

func (m *MockHoldStore) Get(ctx context.Context, showID uuid.UUID, holderID string) (*domain.Hold, error) {
	args := m.Called(ctx, showID, holderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hold), args.Error(1)
}

func (m *MockHoldStore) ListByShow(ctx context.Context, showID uuid.UUID) ([]domain.Hold, error) {
	args := m.Called(ctx, showID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hold), args.Error(1)
}

func (m *MockHoldStore) Delete(ctx context.Context, showID uuid.UUID, holderID string) error {
	args := m.Called(ctx, showID, holderID)
	return args.Error(0)
}

func (m *MockHoldStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
