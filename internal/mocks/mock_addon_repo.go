package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

type MockAddOnRepo struct {
	domain.AddOnRepository
	GetAllFunc  func(ctx context.Context, category domain.AddOnCategory) ([]domain.AddOn, error)
	GetByIdFunc func(ctx context.Context, id uuid.UUID) (*domain.AddOn, error)
}

func (m *MockAddOnRepo) GetAll(ctx context.Context, category domain.AddOnCategory) ([]domain.AddOn, error) {
	return m.GetAllFunc(ctx, category)
}

func (m *MockAddOnRepo) GetById(ctx context.Context, id uuid.UUID) (*domain.AddOn, error) {
	return m.GetByIdFunc(ctx, id)
}
