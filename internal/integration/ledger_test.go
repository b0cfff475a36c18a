package integration_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerTestSuite struct {
	BaseSuite
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}

func (s *LedgerTestSuite) newReservation(show *domain.Show, holderID string, seats ...string) *domain.Reservation {
	now := time.Now().UTC().Truncate(time.Microsecond)

	return &domain.Reservation{
		ID:           uuid.New(),
		ShowID:       show.ID,
		HolderID:     holderID,
		HolderKind:   domain.HolderKindUser,
		Seats:        seats,
		LineItems:    []domain.LineItem{},
		Status:       domain.ReservationStatusConfirmed,
		SeatsAmount:  show.SeatsAmount(seats),
		AddOnsAmount: decimal.Zero,
		TotalAmount:  show.SeatsAmount(seats),
		RewardPoints: 1,
		CreatedAt:    now,
		ExpiresAt:    now.Add(10 * time.Minute),
		ConfirmedAt:  &now,
	}
}

func (s *LedgerTestSuite) book(reservation *domain.Reservation) error {
	return s.ledger.RunInShowTx(context.Background(), reservation.ShowID, func(tx domain.LedgerTx) error {
		if err := tx.InsertReservation(context.Background(), reservation); err != nil {
			return err
		}

		if err := tx.BookSeats(context.Background(), reservation.ID, reservation.Seats); err != nil {
			return err
		}

		return tx.AdjustRewardPoints(context.Background(), reservation.HolderID, reservation.RewardPoints)
	})
}

func (s *LedgerTestSuite) TestCreateAndGetShow() {
	show := s.createShow(10, 10)

	got, err := s.ledger.GetShow(context.Background(), show.ID)
	s.Require().NoError(err)

	s.Equal(show.Title, got.Title)
	s.Equal(100, got.TotalSeats)
	s.Equal(100, got.AvailableSeats)
	s.Empty(got.Booked)
	s.Require().Len(got.Seats, 100)
	s.Equal("A1", got.Seats[0].ID)
	s.Equal("J10", got.Seats[99].ID)
	for i, seat := range got.Seats {
		s.Equal(show.Seats[i].Tier, seat.Tier, seat.ID)
		s.True(show.Seats[i].Price.Equal(seat.Price), seat.ID)
	}
	s.True(show.StartsAt.Equal(got.StartsAt))

	_, err = s.ledger.GetShow(context.Background(), uuid.New())
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *LedgerTestSuite) TestRunInShowTx_Commits() {
	ctx := context.Background()
	show := s.createShow(2, 5)

	reservation := s.newReservation(show, "user-1", "A1", "A2")
	s.Require().NoError(s.book(reservation))

	got, err := s.ledger.GetShow(ctx, show.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"A1", "A2"}, got.Booked)
	s.Equal(8, got.AvailableSeats)

	stored, err := s.ledger.GetReservation(ctx, reservation.ID)
	s.Require().NoError(err)
	s.Equal(reservation.Seats, stored.Seats)
	s.Equal(domain.ReservationStatusConfirmed, stored.Status)
	s.True(reservation.TotalAmount.Equal(stored.TotalAmount))

	points, err := s.ledger.GetRewardPoints(ctx, "user-1")
	s.Require().NoError(err)
	s.Equal(1, points)
}

func (s *LedgerTestSuite) TestRunInShowTx_RollsBack() {
	ctx := context.Background()
	show := s.createShow(2, 5)

	errAbort := errors.New("abort")
	reservation := s.newReservation(show, "user-1", "A1")

	err := s.ledger.RunInShowTx(ctx, show.ID, func(tx domain.LedgerTx) error {
		if err := tx.InsertReservation(ctx, reservation); err != nil {
			return err
		}
		if err := tx.BookSeats(ctx, reservation.ID, reservation.Seats); err != nil {
			return err
		}

		return errAbort
	})
	s.ErrorIs(err, errAbort)

	got, err := s.ledger.GetShow(ctx, show.ID)
	s.Require().NoError(err)
	s.Empty(got.Booked)
	s.Equal(10, got.AvailableSeats)

	_, err = s.ledger.GetReservation(ctx, reservation.ID)
	s.ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *LedgerTestSuite) TestBookSeats_RejectsBookedSeat() {
	show := s.createShow(2, 5)

	s.Require().NoError(s.book(s.newReservation(show, "user-1", "A1", "A2")))

	err := s.book(s.newReservation(show, "user-2", "A2", "A3"))
	s.ErrorIs(err, domain.ErrSeatsJustBooked)

	got, err := s.ledger.GetShow(context.Background(), show.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"A1", "A2"}, got.Booked)
}

func (s *LedgerTestSuite) TestCancelReleasesSeats() {
	ctx := context.Background()
	show := s.createShow(2, 5)

	reservation := s.newReservation(show, "user-1", "B1", "B2")
	s.Require().NoError(s.book(reservation))

	cancelledAt := time.Now().UTC().Truncate(time.Microsecond)

	err := s.ledger.RunInShowTx(ctx, show.ID, func(tx domain.LedgerTx) error {
		locked, err := tx.GetReservationForUpdate(ctx, reservation.ID)
		if err != nil {
			return err
		}
		if err := tx.CancelReservation(ctx, locked.ID, cancelledAt); err != nil {
			return err
		}
		if err := tx.ReleaseSeats(ctx, locked.ID, locked.Seats); err != nil {
			return err
		}

		return tx.AdjustRewardPoints(ctx, locked.HolderID, -locked.RewardPoints)
	})
	s.Require().NoError(err)

	got, err := s.ledger.GetShow(ctx, show.ID)
	s.Require().NoError(err)
	s.Empty(got.Booked)
	s.Equal(10, got.AvailableSeats)

	stored, err := s.ledger.GetReservation(ctx, reservation.ID)
	s.Require().NoError(err)
	s.Equal(domain.ReservationStatusCancelled, stored.Status)
	s.Require().NotNil(stored.CancelledAt)
	s.True(cancelledAt.Equal(*stored.CancelledAt))

	points, err := s.ledger.GetRewardPoints(ctx, "user-1")
	s.Require().NoError(err)
	s.Zero(points)

	// a second cancellation finds nothing to cancel
	err = s.ledger.RunInShowTx(ctx, show.ID, func(tx domain.LedgerTx) error {
		return tx.CancelReservation(ctx, reservation.ID, cancelledAt)
	})
	s.ErrorIs(err, domain.ErrNotCancellable)

	// released seats can be booked again
	s.NoError(s.book(s.newReservation(show, "user-2", "B1")))
}

func (s *LedgerTestSuite) TestGetReservationsByHolder() {
	ctx := context.Background()
	show := s.createShow(2, 5)

	for _, seat := range []string{"A1", "A2", "A3"} {
		s.Require().NoError(s.book(s.newReservation(show, "user-1", seat)))
	}
	s.Require().NoError(s.book(s.newReservation(show, "user-2", "A4")))

	reservations, metadata, err := s.ledger.GetReservationsByHolder(ctx, "user-1", domain.Pagination{Page: 1, PageSize: 2})
	s.Require().NoError(err)

	s.Len(reservations, 2)
	s.Equal(3, metadata.TotalRecords)
	s.Equal(2, metadata.LastPage)

	reservations, _, err = s.ledger.GetReservationsByHolder(ctx, "user-1", domain.Pagination{Page: 2, PageSize: 2})
	s.Require().NoError(err)
	s.Len(reservations, 1)

	reservations, metadata, err = s.ledger.GetReservationsByHolder(ctx, "nobody", domain.Pagination{Page: 1, PageSize: 10})
	s.Require().NoError(err)
	s.Empty(reservations)
	s.Zero(metadata.TotalRecords)
}

func (s *LedgerTestSuite) TestAddOns() {
	ctx := context.Background()

	all, err := s.addOns.GetAll(ctx, "")
	s.Require().NoError(err)
	s.Len(all, 4, "unavailable add-ons are not listed")

	food, err := s.addOns.GetAll(ctx, domain.AddOnCategoryFood)
	s.Require().NoError(err)
	s.Len(food, 2)

	recliner, err := s.addOns.GetById(ctx, reclinerID)
	s.Require().NoError(err)
	s.False(recliner.Available)

	_, err = s.addOns.GetById(ctx, uuid.New())
	s.ErrorIs(err, domain.ErrRecordNotFound)
}
