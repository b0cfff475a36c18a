// Package api holds the JSON request and response bodies of the HTTP API.
package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	LockStore  string     `json:"lockStore"`
	SystemInfo SystemInfo `json:"systemInfo"`
}

type HoldRequest struct {
	ShowId uuid.UUID `json:"showId" validate:"required"`
	Seats  []string  `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_id"`
}

type HoldResponse struct {
	ShowId      uuid.UUID `json:"showId"`
	Seats       []string  `json:"seats"`
	ExpiresAt   time.Time `json:"expiresAt"`
	HoldSeconds int       `json:"holdSeconds"`
}

type LineItemRequest struct {
	AddOnId  uuid.UUID `json:"addOnId" validate:"required"`
	Quantity int       `json:"quantity" validate:"min=1,max=20"`
}

type ConfirmReservationRequest struct {
	ShowId    uuid.UUID         `json:"showId" validate:"required"`
	Seats     []string          `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_id"`
	LineItems []LineItemRequest `json:"lineItems" validate:"max=20,dive"`
}

type KioskBookingRequest struct {
	ShowId  uuid.UUID `json:"showId" validate:"required"`
	Seats   []string  `json:"seats" validate:"required,min=1,max=10,unique,dive,seat_id"`
	KioskId string    `json:"kioskId" validate:"required,max=64"`
}

type LineItem struct {
	AddOnId   uuid.UUID       `json:"addOnId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

type Reservation struct {
	Id           uuid.UUID       `json:"id"`
	ShowId       uuid.UUID       `json:"showId"`
	HolderKind   string          `json:"holderKind"`
	KioskId      string          `json:"kioskId,omitempty"`
	Seats        []string        `json:"seats"`
	LineItems    []LineItem      `json:"lineItems"`
	Status       string          `json:"status"`
	SeatsAmount  decimal.Decimal `json:"seatsAmount"`
	AddOnsAmount decimal.Decimal `json:"addOnsAmount"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	RewardPoints int             `json:"rewardPoints"`
	CreatedAt    time.Time       `json:"createdAt"`
	ExpiresAt    time.Time       `json:"expiresAt"`
	ConfirmedAt  *time.Time      `json:"confirmedAt,omitempty"`
	CancelledAt  *time.Time      `json:"cancelledAt,omitempty"`
}

type ReservationResponse struct {
	Reservation Reservation `json:"reservation"`
}

type KioskBookingResponse struct {
	Reservation Reservation `json:"reservation"`
	KioskId     string      `json:"kioskId"`
}

type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	FirstPage    int `json:"firstPage"`
	LastPage     int `json:"lastPage"`
	PageSize     int `json:"pageSize"`
	TotalRecords int `json:"totalRecords"`
}

type GetReservationsParams struct {
	Page     *int `validate:"omitempty,min=1"`
	PageSize *int `validate:"omitempty,min=1,max=100"`
}

type ReservationsResponse struct {
	Reservations []Reservation `json:"reservations"`
	Metadata     Metadata      `json:"metadata"`
}

type SeatAvailability struct {
	Id     string          `json:"id"`
	Row    int             `json:"row"`
	Column int             `json:"column"`
	Tier   string          `json:"tier"`
	Price  decimal.Decimal `json:"price"`
	Status string          `json:"status"`
}

type AvailabilityResponse struct {
	ShowId         uuid.UUID          `json:"showId"`
	TotalSeats     int                `json:"totalSeats"`
	AvailableSeats int                `json:"availableSeats"`
	BookedSeats    int                `json:"bookedSeats"`
	LockedByMe     int                `json:"lockedByMe"`
	LockedByOther  int                `json:"lockedByOther"`
	AlmostFull     bool               `json:"almostFull"`
	SeatMap        []SeatAvailability `json:"seatMap"`
}

type AddOn struct {
	Id          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Available   bool            `json:"available"`
}

type GetAddOnsParams struct {
	Category *string `validate:"omitempty,oneof=food beverage accessory upgrade"`
}

type AddOnsResponse struct {
	AddOns []AddOn `json:"addOns"`
}

type AddOnResponse struct {
	AddOn AddOn `json:"addOn"`
}

type CreateShowRequest struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Hall        string    `json:"hall" validate:"required,max=100"`
	StartsAt    time.Time `json:"startsAt" validate:"required"`
	Rows        int       `json:"rows" validate:"min=1,max=26"`
	SeatsPerRow int       `json:"seatsPerRow" validate:"min=1,max=40"`
}

type TierPrices struct {
	Standard decimal.Decimal `json:"standard"`
	Premium  decimal.Decimal `json:"premium"`
	Vip      decimal.Decimal `json:"vip"`
}

type Show struct {
	Id             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Hall           string     `json:"hall"`
	StartsAt       time.Time  `json:"startsAt"`
	EndsAt         time.Time  `json:"endsAt"`
	TotalSeats     int        `json:"totalSeats"`
	AvailableSeats int        `json:"availableSeats"`
	AlmostFull     bool       `json:"almostFull"`
	Prices         TierPrices `json:"prices"`
}

type ShowResponse struct {
	Show Show `json:"show"`
}

type RewardsResponse struct {
	Points int `json:"points"`
}
