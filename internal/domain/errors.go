package domain

import "errors"

var (
	ErrRecordNotFound          = errors.New("record not found")
	ErrInvalidSeats            = errors.New("some seats do not exist in this show")
	ErrSeatsUnavailable        = errors.New("some seats are already booked")
	ErrSeatsLocked             = errors.New("some seats are currently being held by another user")
	ErrHoldExpiredOrMismatched = errors.New("seat hold has expired or does not match the selected seats")
	ErrSeatsJustBooked         = errors.New("some seats were just booked by another user")
	ErrAddOnUnavailable        = errors.New("add-on is not available")
	ErrInvalidLineItems        = errors.New("invalid add-on line items")
	ErrMissingKioskID          = errors.New("kiosk id is required")
	ErrUnauthorized            = errors.New("reservation belongs to another requester")
	ErrNotCancellable          = errors.New("only confirmed reservations can be cancelled")
	ErrLockStoreUnavailable    = errors.New("seat holds are temporarily unavailable")
)
