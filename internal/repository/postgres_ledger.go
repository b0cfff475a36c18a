package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

// RunInShowTx takes a row lock on the show for the lifetime of the
// transaction. Concurrent writers for the same show queue behind it.
func (p *PostgresLedger) RunInShowTx(
	ctx context.Context,
	showID uuid.UUID,
	fn func(tx domain.LedgerTx) error) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		show, err := getShow(ctx, tx, showID, true)
		if err != nil {
			return err
		}

		return fn(&postgresLedgerTx{tx: tx, show: show})
	})
}

type postgresLedgerTx struct {
	tx   pgx.Tx
	show *domain.Show
}

func (t *postgresLedgerTx) Show() *domain.Show {
	return t.show
}

func (t *postgresLedgerTx) ResolveAddOn(ctx context.Context, id uuid.UUID) (*domain.AddOn, error) {
	return getAddOn(ctx, t.tx, id)
}

func (t *postgresLedgerTx) GetReservationForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return getReservation(ctx, t.tx, id, true)
}

func (t *postgresLedgerTx) InsertReservation(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (
			id, show_id, holder_id, holder_kind, kiosk_id, seats, status,
			seats_amount, add_ons_amount, total_amount, reward_points,
			created_at, expires_at, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::reservation_status, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := t.tx.Exec(
		ctx,
		query,
		reservation.ID,
		reservation.ShowID,
		reservation.HolderID,
		string(reservation.HolderKind),
		reservation.KioskID,
		reservation.Seats,
		string(reservation.Status),
		reservation.SeatsAmount,
		reservation.AddOnsAmount,
		reservation.TotalAmount,
		reservation.RewardPoints,
		reservation.CreatedAt,
		reservation.ExpiresAt,
		reservation.ConfirmedAt)

	if err != nil {
		return err
	}

	if len(reservation.LineItems) == 0 {
		return nil
	}

	query = `
		INSERT INTO reservation_add_ons (reservation_id, add_on_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range reservation.LineItems {
		batch.Queue(query, reservation.ID, item.AddOnID, item.Name, item.UnitPrice, item.Quantity)
	}

	return t.tx.SendBatch(ctx, batch).Close()
}

func (t *postgresLedgerTx) CancelReservation(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE reservations
		SET status = 'cancelled', cancelled_at = $2
		WHERE id = $1 AND status = 'confirmed'
	`

	tag, err := t.tx.Exec(ctx, query, id, at)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNotCancellable
	}

	return nil
}

func (t *postgresLedgerTx) BookSeats(ctx context.Context, reservationID uuid.UUID, seatIDs []string) error {
	rows := make([][]any, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		rows = append(rows, []any{t.show.ID, seatID, reservationID})
	}

	_, err := t.tx.CopyFrom(
		ctx,
		pgx.Identifier{"reservation_seats"},
		[]string{"show_id", "seat_id", "reservation_id"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrSeatsJustBooked
		}

		return err
	}

	t.show.Book(seatIDs)

	return t.saveBookedSeats(ctx)
}

func (t *postgresLedgerTx) ReleaseSeats(ctx context.Context, reservationID uuid.UUID, seatIDs []string) error {
	query := `
		DELETE FROM reservation_seats
		WHERE reservation_id = $1 AND seat_id = ANY($2)
	`

	_, err := t.tx.Exec(ctx, query, reservationID, seatIDs)
	if err != nil {
		return err
	}

	t.show.Release(seatIDs)

	return t.saveBookedSeats(ctx)
}

func (t *postgresLedgerTx) saveBookedSeats(ctx context.Context) error {
	query := `
		UPDATE shows
		SET booked_seats = $2, available_seats = $3
		WHERE id = $1
	`

	_, err := t.tx.Exec(ctx, query, t.show.ID, t.show.Booked, t.show.AvailableSeats)

	return err
}

func (t *postgresLedgerTx) AdjustRewardPoints(ctx context.Context, holderID string, delta int) error {
	if delta == 0 {
		return nil
	}

	query := `
		INSERT INTO reward_accounts (holder_id, points)
		VALUES ($1, $2)
		ON CONFLICT (holder_id) DO UPDATE
		SET points = reward_accounts.points + EXCLUDED.points, updated_at = NOW()
	`

	_, err := t.tx.Exec(ctx, query, holderID, delta)

	return err
}
