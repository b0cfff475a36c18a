package booking

import "time"

const (
	DefaultHoldTTL        = 5 * time.Minute
	DefaultReservationTTL = 10 * time.Minute
	DefaultMaxSeats       = 10

	// MaxSeatsLimit matches the request validation and the reservations
	// table check; larger selections can never be stored.
	MaxSeatsLimit = 10
)

type settings struct {
	holdTTL            time.Duration
	reservationTTL     time.Duration
	maxSeats           int
	lockStoreAvailable bool
	now                func() time.Time
}

func defaultSettings() settings {
	return settings{
		holdTTL:            DefaultHoldTTL,
		reservationTTL:     DefaultReservationTTL,
		maxSeats:           DefaultMaxSeats,
		lockStoreAvailable: true,
		now:                time.Now,
	}
}

type Option func(*settings)

func WithHoldTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.holdTTL = ttl
	}
}

func WithReservationTTL(ttl time.Duration) Option {
	return func(s *settings) {
		s.reservationTTL = ttl
	}
}

// WithMaxSeats caps the seats per request. Values above MaxSeatsLimit are
// lowered to it.
func WithMaxSeats(n int) Option {
	return func(s *settings) {
		s.maxSeats = min(n, MaxSeatsLimit)
	}
}

// WithLockStoreAvailable(false) runs without holds: RequestHold and Confirm
// are refused, kiosk bookings and availability ignore holds.
func WithLockStoreAvailable(available bool) Option {
	return func(s *settings) {
		s.lockStoreAvailable = available
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}
