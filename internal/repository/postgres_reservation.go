package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

const reservationColumns = `
	r.id,
	r.show_id,
	r.holder_id,
	r.holder_kind,
	r.kiosk_id,
	r.seats,
	r.status::text,
	r.seats_amount,
	r.add_ons_amount,
	r.total_amount,
	r.reward_points,
	r.created_at,
	r.expires_at,
	r.confirmed_at,
	r.cancelled_at`

func (p *PostgresLedger) GetReservation(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return getReservation(ctx, p.db, id, false)
}

func getReservation(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
		FROM reservations r
		WHERE r.id = $1
	`

	if forUpdate {
		query += " FOR UPDATE"
	}

	reservation, err := scanReservation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	items, err := getLineItems(ctx, q, []uuid.UUID{reservation.ID})
	if err != nil {
		return nil, err
	}

	reservation.LineItems = items[reservation.ID]

	return reservation, nil
}

func (p *PostgresLedger) GetReservationsByHolder(
	ctx context.Context,
	holderID string,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(),` + reservationColumns + `
		FROM reservations r
		WHERE r.holder_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, holderID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	reservations := make([]domain.Reservation, 0)
	ids := make([]uuid.UUID, 0)
	totalRecords := 0

	for rows.Next() {
		var reservation domain.Reservation

		err := rows.Scan(append([]any{&totalRecords}, reservationFields(&reservation)...)...)
		if err != nil {
			return nil, nil, err
		}

		reservations = append(reservations, reservation)
		ids = append(ids, reservation.ID)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	items, err := getLineItems(ctx, p.db, ids)
	if err != nil {
		return nil, nil, err
	}

	for i := range reservations {
		reservations[i].LineItems = items[reservations[i].ID]
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return reservations, metadata, nil
}

func (p *PostgresLedger) GetRewardPoints(ctx context.Context, holderID string) (int, error) {
	query := `SELECT points FROM reward_accounts WHERE holder_id = $1`

	var points int

	err := p.db.QueryRow(ctx, query, holderID).Scan(&points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}

		return 0, err
	}

	return points, nil
}

func reservationFields(r *domain.Reservation) []any {
	return []any{
		&r.ID,
		&r.ShowID,
		&r.HolderID,
		&r.HolderKind,
		&r.KioskID,
		&r.Seats,
		&r.Status,
		&r.SeatsAmount,
		&r.AddOnsAmount,
		&r.TotalAmount,
		&r.RewardPoints,
		&r.CreatedAt,
		&r.ExpiresAt,
		&r.ConfirmedAt,
		&r.CancelledAt,
	}
}

func scanReservation(row pgx.Row) (*domain.Reservation, error) {
	var reservation domain.Reservation

	if err := row.Scan(reservationFields(&reservation)...); err != nil {
		return nil, err
	}

	return &reservation, nil
}

func getLineItems(ctx context.Context, q querier, reservationIDs []uuid.UUID) (map[uuid.UUID][]domain.LineItem, error) {
	items := make(map[uuid.UUID][]domain.LineItem, len(reservationIDs))
	if len(reservationIDs) == 0 {
		return items, nil
	}

	query := `
		SELECT reservation_id, add_on_id, name, unit_price, quantity
		FROM reservation_add_ons
		WHERE reservation_id = ANY($1)
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, reservationIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var reservationID uuid.UUID
		var item domain.LineItem

		err = rows.Scan(
			&reservationID,
			&item.AddOnID,
			&item.Name,
			&item.UnitPrice,
			&item.Quantity,
		)

		if err != nil {
			return nil, err
		}

		items[reservationID] = append(items[reservationID], item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}
