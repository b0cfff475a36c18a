package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	TypeReservationConfirmed = "reservation.confirmed"
	TypeReservationCancelled = "reservation.cancelled"
)

// Event is published after the ledger transaction has committed. Delivery is
// best effort and never affects the outcome of the operation.
type Event struct {
	Type          string          `json:"type"`
	ReservationID uuid.UUID       `json:"reservationId"`
	ShowID        uuid.UUID       `json:"showId"`
	HolderID      string          `json:"holderId"`
	HolderKind    string          `json:"holderKind"`
	KioskID       string          `json:"kioskId,omitempty"`
	Seats         []string        `json:"seats"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	RewardPoints  int             `json:"rewardPoints"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

func NewReservationEvent(eventType string, r *domain.Reservation, at time.Time) Event {
	return Event{
		Type:          eventType,
		ReservationID: r.ID,
		ShowID:        r.ShowID,
		HolderID:      r.HolderID,
		HolderKind:    string(r.HolderKind),
		KioskID:       r.KioskID,
		Seats:         r.Seats,
		TotalAmount:   r.TotalAmount,
		RewardPoints:  r.RewardPoints,
		OccurredAt:    at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
