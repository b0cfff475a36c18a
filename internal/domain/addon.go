package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddOnCategory string

const (
	AddOnCategoryFood      AddOnCategory = "food"
	AddOnCategoryBeverage  AddOnCategory = "beverage"
	AddOnCategoryAccessory AddOnCategory = "accessory"
	AddOnCategoryUpgrade   AddOnCategory = "upgrade"
)

type AddOn struct {
	ID          uuid.UUID
	Name        string
	Description string
	Category    AddOnCategory
	Price       decimal.Decimal
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AddOnRepository interface {
	// GetAll returns the available add-ons, optionally narrowed to a category.
	GetAll(ctx context.Context, category AddOnCategory) ([]AddOn, error)
	GetById(ctx context.Context, id uuid.UUID) (*AddOn, error)
}
