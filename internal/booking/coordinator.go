package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/metinatakli/movie-reservation-core/internal/events"
	"github.com/shopspring/decimal"
)

// Coordinator runs the two-phase hold/confirm flow and the kiosk fast path.
// Holds are advisory; the only authoritative double-booking check is the one
// made inside the ledger transaction.
type Coordinator struct {
	settings
	ledger    domain.Ledger
	holds     domain.HoldStore
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics
}

func NewCoordinator(
	ledger domain.Ledger,
	holds domain.HoldStore,
	publisher events.Publisher,
	logger *slog.Logger,
	opts ...Option) *Coordinator {

	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}

	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Coordinator{
		settings:  s,
		ledger:    ledger,
		holds:     holds,
		publisher: publisher,
		logger:    logger,
		metrics:   newMetrics(),
	}
}

func (c *Coordinator) HoldTTL() time.Duration {
	return c.holdTTL
}

// RequestHold claims seats for holderID. A previous hold of the same holder on
// the show is replaced.
func (c *Coordinator) RequestHold(
	ctx context.Context,
	showID uuid.UUID,
	holderID string,
	seatIDs []string) (*domain.Hold, error) {

	if !c.lockStoreAvailable {
		return nil, domain.ErrLockStoreUnavailable
	}

	show, err := c.ledger.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	if err := c.validateSeats(show, seatIDs); err != nil {
		return nil, err
	}

	if booked := show.BookedAmong(seatIDs); len(booked) > 0 {
		c.metrics.conflict(ctx, "hold", domain.ErrSeatsUnavailable)
		return nil, seatsError(domain.ErrSeatsUnavailable, booked)
	}

	for _, hold := range c.liveHolds(ctx, showID) {
		if hold.HolderID != holderID && hold.Overlaps(seatIDs) {
			c.metrics.conflict(ctx, "hold", domain.ErrSeatsLocked)
			return nil, domain.ErrSeatsLocked
		}
	}

	now := c.now()
	hold := domain.Hold{
		ShowID:    showID,
		HolderID:  holderID,
		Seats:     slices.Clone(seatIDs),
		CreatedAt: now,
		ExpiresAt: now.Add(c.holdTTL),
	}

	if err := c.holds.Put(ctx, hold, c.holdTTL); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLockStoreUnavailable, err)
	}

	c.metrics.count(ctx, c.metrics.holds, string(domain.HolderKindUser))

	return &hold, nil
}

// Confirm turns the holder's live hold into a confirmed reservation. The hold
// must cover exactly seatIDs. On any failure nothing is committed and the
// hold is left as it was.
func (c *Coordinator) Confirm(
	ctx context.Context,
	showID uuid.UUID,
	holderID string,
	seatIDs []string,
	lineItems []domain.LineItemRequest) (*domain.Reservation, error) {

	if !c.lockStoreAvailable {
		return nil, domain.ErrLockStoreUnavailable
	}

	hold, err := c.holds.Get(ctx, showID, holderID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrHoldExpiredOrMismatched
		}

		return nil, fmt.Errorf("%w: %w", domain.ErrLockStoreUnavailable, err)
	}

	if !hold.Matches(seatIDs) {
		return nil, domain.ErrHoldExpiredOrMismatched
	}

	if err := validateLineItems(lineItems); err != nil {
		return nil, err
	}

	var reservation *domain.Reservation

	err = c.ledger.RunInShowTx(ctx, showID, func(tx domain.LedgerTx) error {
		show := tx.Show()

		if booked := show.BookedAmong(seatIDs); len(booked) > 0 {
			return seatsError(domain.ErrSeatsJustBooked, booked)
		}

		items, addOnsAmount, err := resolveLineItems(ctx, tx, lineItems)
		if err != nil {
			return err
		}

		reservation = c.newReservation(show, holderID, domain.HolderKindUser, seatIDs)
		reservation.LineItems = items
		reservation.AddOnsAmount = addOnsAmount
		reservation.TotalAmount = reservation.SeatsAmount.Add(addOnsAmount)

		return c.commitReservation(ctx, tx, reservation)
	})

	if err != nil {
		if errors.Is(err, domain.ErrSeatsJustBooked) {
			c.metrics.conflict(ctx, "confirm", domain.ErrSeatsJustBooked)
		}

		return nil, err
	}

	if err := c.holds.Delete(ctx, showID, holderID); err != nil {
		c.logger.Warn("failed to release hold after confirm",
			"show_id", showID,
			"holder_id", holderID,
			"error", err)
	}

	c.metrics.count(ctx, c.metrics.reservations, string(domain.HolderKindUser))
	c.publish(ctx, events.TypeReservationConfirmed, reservation)

	return reservation, nil
}

// Cancel releases the seats of a confirmed reservation owned by requesterID
// and takes back the reward points it earned.
func (c *Coordinator) Cancel(
	ctx context.Context,
	reservationID uuid.UUID,
	requesterID string) (*domain.Reservation, error) {

	existing, err := c.ledger.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !existing.OwnedBy(requesterID) {
		return nil, domain.ErrUnauthorized
	}

	if !existing.Cancellable() {
		return nil, domain.ErrNotCancellable
	}

	var cancelled *domain.Reservation

	err = c.ledger.RunInShowTx(ctx, existing.ShowID, func(tx domain.LedgerTx) error {
		reservation, err := tx.GetReservationForUpdate(ctx, reservationID)
		if err != nil {
			return err
		}

		if !reservation.Cancellable() {
			return domain.ErrNotCancellable
		}

		now := c.now()

		if err := tx.CancelReservation(ctx, reservation.ID, now); err != nil {
			return err
		}

		if err := tx.ReleaseSeats(ctx, reservation.ID, reservation.Seats); err != nil {
			return err
		}

		if err := tx.AdjustRewardPoints(ctx, reservation.HolderID, -reservation.RewardPoints); err != nil {
			return err
		}

		reservation.Cancel(now)
		cancelled = reservation

		return nil
	})

	if err != nil {
		return nil, err
	}

	c.metrics.count(ctx, c.metrics.cancellations, string(cancelled.HolderKind))
	c.publish(ctx, events.TypeReservationCancelled, cancelled)

	return cancelled, nil
}

// KioskBooking books seats directly for a walk-in customer. There is no hold
// step, but seats held by web users are still respected.
func (c *Coordinator) KioskBooking(
	ctx context.Context,
	showID uuid.UUID,
	seatIDs []string,
	kioskID string) (*domain.Reservation, error) {

	if strings.TrimSpace(kioskID) == "" {
		return nil, domain.ErrMissingKioskID
	}

	show, err := c.ledger.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}

	if err := c.validateSeats(show, seatIDs); err != nil {
		return nil, err
	}

	if booked := show.BookedAmong(seatIDs); len(booked) > 0 {
		c.metrics.conflict(ctx, "kiosk", domain.ErrSeatsUnavailable)
		return nil, seatsError(domain.ErrSeatsUnavailable, booked)
	}

	if c.lockStoreAvailable {
		for _, hold := range c.liveHolds(ctx, showID) {
			if hold.Overlaps(seatIDs) {
				c.metrics.conflict(ctx, "kiosk", domain.ErrSeatsLocked)
				return nil, domain.ErrSeatsLocked
			}
		}
	}

	var reservation *domain.Reservation

	err = c.ledger.RunInShowTx(ctx, showID, func(tx domain.LedgerTx) error {
		show := tx.Show()

		if booked := show.BookedAmong(seatIDs); len(booked) > 0 {
			return seatsError(domain.ErrSeatsUnavailable, booked)
		}

		reservation = c.newReservation(show, domain.KioskHolderID(kioskID), domain.HolderKindKiosk, seatIDs)
		reservation.KioskID = kioskID
		reservation.TotalAmount = reservation.SeatsAmount

		return c.commitReservation(ctx, tx, reservation)
	})

	if err != nil {
		if errors.Is(err, domain.ErrSeatsUnavailable) || errors.Is(err, domain.ErrSeatsJustBooked) {
			c.metrics.conflict(ctx, "kiosk", domain.ErrSeatsUnavailable)
		}

		return nil, err
	}

	c.metrics.count(ctx, c.metrics.reservations, string(domain.HolderKindKiosk))
	c.publish(ctx, events.TypeReservationConfirmed, reservation)

	return reservation, nil
}

// GetReservation returns a reservation only to its owner. Other requesters
// get ErrRecordNotFound so ids of other holders stay hidden.
func (c *Coordinator) GetReservation(
	ctx context.Context,
	reservationID uuid.UUID,
	requesterID string) (*domain.Reservation, error) {

	reservation, err := c.ledger.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if !reservation.OwnedBy(requesterID) {
		return nil, domain.ErrRecordNotFound
	}

	return reservation, nil
}

func (c *Coordinator) ListReservations(
	ctx context.Context,
	requesterID string,
	pagination domain.Pagination) ([]domain.Reservation, *domain.Metadata, error) {

	return c.ledger.GetReservationsByHolder(ctx, requesterID, pagination)
}

func (c *Coordinator) newReservation(
	show *domain.Show,
	holderID string,
	kind domain.HolderKind,
	seatIDs []string) *domain.Reservation {

	now := c.now()

	return &domain.Reservation{
		ID:           uuid.New(),
		ShowID:       show.ID,
		HolderID:     holderID,
		HolderKind:   kind,
		Seats:        slices.Clone(seatIDs),
		LineItems:    []domain.LineItem{},
		Status:       domain.ReservationStatusConfirmed,
		SeatsAmount:  show.SeatsAmount(seatIDs),
		AddOnsAmount: decimal.Zero,
		RewardPoints: rewardPointsFor(kind),
		CreatedAt:    now,
		ExpiresAt:    now.Add(c.reservationTTL),
		ConfirmedAt:  &now,
	}
}

func (c *Coordinator) commitReservation(ctx context.Context, tx domain.LedgerTx, reservation *domain.Reservation) error {
	if err := tx.InsertReservation(ctx, reservation); err != nil {
		return err
	}

	if err := tx.BookSeats(ctx, reservation.ID, reservation.Seats); err != nil {
		return err
	}

	return tx.AdjustRewardPoints(ctx, reservation.HolderID, reservation.RewardPoints)
}

// liveHolds lists the holds of a show. A failing lock store is treated as
// holding nothing; the ledger check at commit time still prevents double
// booking.
func (c *Coordinator) liveHolds(ctx context.Context, showID uuid.UUID) []domain.Hold {
	holds, err := c.holds.ListByShow(ctx, showID)
	if err != nil {
		c.logger.Warn("failed to list seat holds, ignoring holds",
			"show_id", showID,
			"error", err)

		return nil
	}

	return holds
}

func (c *Coordinator) validateSeats(show *domain.Show, seatIDs []string) error {
	if len(seatIDs) == 0 || len(seatIDs) > c.maxSeats {
		return fmt.Errorf("%w: select between 1 and %d seats", domain.ErrInvalidSeats, c.maxSeats)
	}

	seen := make(map[string]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: seat %s selected more than once", domain.ErrInvalidSeats, id)
		}
		seen[id] = struct{}{}
	}

	if missing := show.MissingSeats(seatIDs); len(missing) > 0 {
		return seatsError(domain.ErrInvalidSeats, missing)
	}

	return nil
}

func (c *Coordinator) publish(ctx context.Context, eventType string, reservation *domain.Reservation) {
	event := events.NewReservationEvent(eventType, reservation, c.now())

	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("failed to publish reservation event",
			"type", eventType,
			"reservation_id", reservation.ID,
			"error", err)
	}
}

func validateLineItems(lineItems []domain.LineItemRequest) error {
	for _, item := range lineItems {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", domain.ErrInvalidLineItems)
		}
	}

	return nil
}

// resolveLineItems snapshots name and unit price of each requested add-on.
func resolveLineItems(
	ctx context.Context,
	tx domain.LedgerTx,
	requests []domain.LineItemRequest) ([]domain.LineItem, decimal.Decimal, error) {

	items := make([]domain.LineItem, 0, len(requests))
	total := decimal.Zero

	for _, req := range requests {
		addOn, err := tx.ResolveAddOn(ctx, req.AddOnID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrAddOnUnavailable, req.AddOnID)
			}

			return nil, decimal.Zero, err
		}

		if !addOn.Available {
			return nil, decimal.Zero, fmt.Errorf("%w: %s", domain.ErrAddOnUnavailable, addOn.Name)
		}

		item := domain.LineItem{
			AddOnID:   addOn.ID,
			Name:      addOn.Name,
			UnitPrice: addOn.Price,
			Quantity:  req.Quantity,
		}

		items = append(items, item)
		total = total.Add(item.Amount())
	}

	return items, total, nil
}

// rewardPointsFor is the single place the reward policy lives. Web bookings
// earn a flat point, kiosk bookings earn nothing.
func rewardPointsFor(kind domain.HolderKind) int {
	if kind == domain.HolderKindKiosk {
		return 0
	}

	return 1
}

func seatsError(err error, seatIDs []string) error {
	return fmt.Errorf("%w: %s", err, strings.Join(seatIDs, ", "))
}
