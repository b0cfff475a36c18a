package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

type PostgresAddOnRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAddOnRepository(db *pgxpool.Pool) *PostgresAddOnRepository {
	return &PostgresAddOnRepository{
		db: db,
	}
}

func (p *PostgresAddOnRepository) GetAll(ctx context.Context, category domain.AddOnCategory) ([]domain.AddOn, error) {
	query := `
		SELECT id, name, description, category, price, available, created_at, updated_at
		FROM add_ons
		WHERE available AND ($1::text = '' OR category = $1::text)
		ORDER BY category, name
	`

	rows, err := p.db.Query(ctx, query, string(category))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	addOns := make([]domain.AddOn, 0)

	for rows.Next() {
		var addOn domain.AddOn

		err = rows.Scan(
			&addOn.ID,
			&addOn.Name,
			&addOn.Description,
			&addOn.Category,
			&addOn.Price,
			&addOn.Available,
			&addOn.CreatedAt,
			&addOn.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		addOns = append(addOns, addOn)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return addOns, nil
}

func (p *PostgresAddOnRepository) GetById(ctx context.Context, id uuid.UUID) (*domain.AddOn, error) {
	return getAddOn(ctx, p.db, id)
}

func getAddOn(ctx context.Context, q querier, id uuid.UUID) (*domain.AddOn, error) {
	query := `
		SELECT id, name, description, category, price, available, created_at, updated_at
		FROM add_ons
		WHERE id = $1
	`

	var addOn domain.AddOn

	err := q.QueryRow(ctx, query, id).Scan(
		&addOn.ID,
		&addOn.Name,
		&addOn.Description,
		&addOn.Category,
		&addOn.Price,
		&addOn.Available,
		&addOn.CreatedAt,
		&addOn.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &addOn, nil
}
