package domain

import "github.com/google/uuid"

type SeatStatus string

const (
	SeatStatusAvailable     SeatStatus = "available"
	SeatStatusBooked        SeatStatus = "booked"
	SeatStatusLockedByMe    SeatStatus = "locked-by-me"
	SeatStatusLockedByOther SeatStatus = "locked-by-other"
)

type SeatAvailability struct {
	Seat
	Status SeatStatus
}

// Availability is a read-only merge of ledger state and live holds.
type Availability struct {
	ShowID         uuid.UUID
	TotalSeats     int
	AvailableSeats int
	BookedSeats    int
	LockedByMe     int
	LockedByOther  int
	AlmostFull     bool
	Seats          []SeatAvailability
}
