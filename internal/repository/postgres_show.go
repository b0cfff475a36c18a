package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

// PostgresLedger keeps shows, reservations and reward accounts in one
// database so that a confirm or cancel commits them together.
type PostgresLedger struct {
	db *pgxpool.Pool
}

func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{
		db: db,
	}
}

func (p *PostgresLedger) CreateShow(ctx context.Context, show *domain.Show) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO shows (
				id, title, hall, starts_at, ends_at, total_seats, available_seats,
				booked_seats, standard_price, premium_price, vip_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at
		`

		err := tx.QueryRow(
			ctx,
			query,
			show.ID,
			show.Title,
			show.Hall,
			show.StartsAt,
			show.EndsAt,
			show.TotalSeats,
			show.AvailableSeats,
			show.Booked,
			show.Prices.Standard,
			show.Prices.Premium,
			show.Prices.VIP).Scan(&show.CreatedAt)

		if err != nil {
			return err
		}

		query = `
			INSERT INTO show_seats (show_id, seat_id, row_number, column_number, tier, price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`

		batch := &pgx.Batch{}
		for _, seat := range show.Seats {
			batch.Queue(query, show.ID, seat.ID, seat.Row, seat.Column, string(seat.Tier), seat.Price)
		}

		return tx.SendBatch(ctx, batch).Close()
	})
}

func (p *PostgresLedger) GetShow(ctx context.Context, id uuid.UUID) (*domain.Show, error) {
	return getShow(ctx, p.db, id, false)
}

func getShow(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*domain.Show, error) {
	query := `
		SELECT
			id,
			title,
			hall,
			starts_at,
			ends_at,
			total_seats,
			available_seats,
			booked_seats,
			standard_price,
			premium_price,
			vip_price,
			created_at
		FROM shows
		WHERE id = $1
	`

	if forUpdate {
		query += " FOR UPDATE"
	}

	var show domain.Show

	err := q.QueryRow(ctx, query, id).Scan(
		&show.ID,
		&show.Title,
		&show.Hall,
		&show.StartsAt,
		&show.EndsAt,
		&show.TotalSeats,
		&show.AvailableSeats,
		&show.Booked,
		&show.Prices.Standard,
		&show.Prices.Premium,
		&show.Prices.VIP,
		&show.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := getShowSeats(ctx, q, id)
	if err != nil {
		return nil, err
	}

	show.Seats = seats

	return &show, nil
}

func getShowSeats(ctx context.Context, q querier, showID uuid.UUID) ([]domain.Seat, error) {
	query := `
		SELECT seat_id, row_number, column_number, tier, price
		FROM show_seats
		WHERE show_id = $1
		ORDER BY row_number, column_number
	`

	rows, err := q.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err = rows.Scan(
			&seat.ID,
			&seat.Row,
			&seat.Column,
			&seat.Tier,
			&seat.Price,
		)

		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
