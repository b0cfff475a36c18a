package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const ShowDuration = 150 * time.Minute

// Show owns an immutable seat layout and the mutable set of booked seat IDs.
// AvailableSeats is always TotalSeats - len(Booked).
type Show struct {
	ID             uuid.UUID
	Title          string
	Hall           string
	StartsAt       time.Time
	EndsAt         time.Time
	Seats          []Seat
	Booked         []string
	TotalSeats     int
	AvailableSeats int
	Prices         TierPrices
	CreatedAt      time.Time
}

func NewShow(title, hall string, startsAt time.Time, rows, seatsPerRow int, prices TierPrices) *Show {
	seats := NewSeatLayout(rows, seatsPerRow, prices)

	return &Show{
		ID:             uuid.New(),
		Title:          title,
		Hall:           hall,
		StartsAt:       startsAt,
		EndsAt:         startsAt.Add(ShowDuration),
		Seats:          seats,
		Booked:         []string{},
		TotalSeats:     len(seats),
		AvailableSeats: len(seats),
		Prices:         prices,
	}
}

func (s *Show) HasSeat(seatID string) bool {
	for _, seat := range s.Seats {
		if seat.ID == seatID {
			return true
		}
	}

	return false
}

// MissingSeats returns the requested IDs that are not part of the layout.
func (s *Show) MissingSeats(seatIDs []string) []string {
	var missing []string

	for _, id := range seatIDs {
		if !s.HasSeat(id) {
			missing = append(missing, id)
		}
	}

	return missing
}

func (s *Show) IsBooked(seatID string) bool {
	return slices.Contains(s.Booked, seatID)
}

// BookedAmong returns the requested IDs that are already in the booked set.
func (s *Show) BookedAmong(seatIDs []string) []string {
	var booked []string

	for _, id := range seatIDs {
		if s.IsBooked(id) {
			booked = append(booked, id)
		}
	}

	return booked
}

// SeatsAmount sums the layout prices of the given seats.
func (s *Show) SeatsAmount(seatIDs []string) decimal.Decimal {
	total := decimal.Zero

	for _, seat := range s.Seats {
		if slices.Contains(seatIDs, seat.ID) {
			total = total.Add(seat.Price)
		}
	}

	return total
}

// Book appends seats to the booked set. Callers must have checked that none
// of them is booked already.
func (s *Show) Book(seatIDs []string) {
	s.Booked = append(s.Booked, seatIDs...)
	s.recount()
}

func (s *Show) Release(seatIDs []string) {
	s.Booked = slices.DeleteFunc(s.Booked, func(id string) bool {
		return slices.Contains(seatIDs, id)
	})
	s.recount()
}

func (s *Show) recount() {
	s.AvailableSeats = s.TotalSeats - len(s.Booked)
}

// AlmostFull reports whether at most 20% of the seats are still available.
func (s *Show) AlmostFull() bool {
	return s.AvailableSeats*5 <= s.TotalSeats
}

// Clone returns a deep copy so ledgers can hand out snapshots.
func (s *Show) Clone() *Show {
	c := *s
	c.Seats = slices.Clone(s.Seats)
	c.Booked = slices.Clone(s.Booked)
	if c.Booked == nil {
		c.Booked = []string{}
	}

	return &c
}
