package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
	domain.Ledger
}

func (m *MockLedger) CreateShow(ctx context.Context, show *domain.Show) error {
	args := m.Called(ctx, show)
	return args.Error(0)
}

func (m *MockLedger) GetShow(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Show), args.Error(1)
}

func (m *MockLedger) GetReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockLedger) GetReservationsByHolder(
	ctx context.Context,
	holderID string,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	args := m.Called(ctx, holderID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockLedger) GetRewardPoints(ctx context.Context, holderID string) (int, error) {
	args := m.Called(ctx, holderID)
	return args.Int(0), args.Error(1)
}

// RunInShowTx returns the configured error without running fn.
func (m *MockLedger) RunInShowTx(ctx context.Context, showID uuid.UUID, fn func(tx domain.LedgerTx) error) error {
	args := m.Called(ctx, showID, fn)
	return args.Error(0)
}
