package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Ledger is the durable store of shows, reservations and reward balances.
// Every mutation of a show's booked set goes through RunInShowTx, which
// serializes writers per show and commits all staged changes atomically.
type Ledger interface {
	CreateShow(ctx context.Context, show *Show) error
	GetShow(ctx context.Context, id uuid.UUID) (*Show, error)
	GetReservation(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetReservationsByHolder(ctx context.Context, holderID string, pagination Pagination) ([]Reservation, *Metadata, error)
	GetRewardPoints(ctx context.Context, holderID string) (int, error)

	// RunInShowTx locks the show and runs fn. If fn returns an error nothing
	// is committed.
	RunInShowTx(ctx context.Context, showID uuid.UUID, fn func(tx LedgerTx) error) error
}

// LedgerTx is the view of the ledger inside a show transaction.
type LedgerTx interface {
	// Show is the locked show as read at the start of the transaction,
	// including changes staged by BookSeats and ReleaseSeats.
	Show() *Show

	ResolveAddOn(ctx context.Context, id uuid.UUID) (*AddOn, error)
	GetReservationForUpdate(ctx context.Context, id uuid.UUID) (*Reservation, error)
	InsertReservation(ctx context.Context, reservation *Reservation) error
	CancelReservation(ctx context.Context, id uuid.UUID, at time.Time) error
	BookSeats(ctx context.Context, reservationID uuid.UUID, seatIDs []string) error
	ReleaseSeats(ctx context.Context, reservationID uuid.UUID, seatIDs []string) error
	AdjustRewardPoints(ctx context.Context, holderID string, delta int) error
}
