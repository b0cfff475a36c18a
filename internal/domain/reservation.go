package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReservationStatus string

// Pending and expired are part of the stored enum but confirm writes
// confirmed directly.
const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusExpired   ReservationStatus = "expired"
)

type HolderKind string

const (
	HolderKindUser  HolderKind = "user"
	HolderKindKiosk HolderKind = "kiosk"
)

const kioskHolderPrefix = "kiosk:"

// KioskHolderID is the synthetic requester identity used for kiosk bookings.
func KioskHolderID(kioskID string) string {
	return kioskHolderPrefix + kioskID
}

// LineItem is an add-on snapshot. UnitPrice is copied at confirm time so later
// catalog changes never alter a past reservation.
type LineItem struct {
	AddOnID   uuid.UUID
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l LineItem) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LineItemRequest is what a client asks for; it is resolved against the
// add-on catalog inside the confirm transaction.
type LineItemRequest struct {
	AddOnID  uuid.UUID
	Quantity int
}

type Reservation struct {
	ID           uuid.UUID
	ShowID       uuid.UUID
	HolderID     string
	HolderKind   HolderKind
	KioskID      string
	Seats        []string
	LineItems    []LineItem
	Status       ReservationStatus
	SeatsAmount  decimal.Decimal
	AddOnsAmount decimal.Decimal
	TotalAmount  decimal.Decimal
	RewardPoints int
	CreatedAt    time.Time
	ExpiresAt    time.Time
	ConfirmedAt  *time.Time
	CancelledAt  *time.Time
}

func (r *Reservation) OwnedBy(holderID string) bool {
	return r.HolderID == holderID
}

func (r *Reservation) Cancellable() bool {
	return r.Status == ReservationStatusConfirmed
}

// Cancel moves a confirmed reservation to cancelled.
func (r *Reservation) Cancel(at time.Time) {
	r.Status = ReservationStatusCancelled
	r.CancelledAt = &at
}
