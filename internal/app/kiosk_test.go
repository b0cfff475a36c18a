package app

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/booking"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/metinatakli/movie-reservation-core/internal/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type KioskTestSuite struct {
	suite.Suite
	app  *application
	deps *testDeps
}

func (s *KioskTestSuite) SetupTest() {
	s.app, s.deps = newTestApplication()
	s.deps.seedShow(3)
}

func TestKioskSuite(t *testing.T) {
	suite.Run(t, new(KioskTestSuite))
}

func (s *KioskTestSuite) TestKioskBookingHandler() {
	tests := []struct {
		name           string
		setup          func()
		body           any
		wantStatus     int
		wantErrMessage string
	}{
		{
			name:           "missing kiosk id",
			body:           api.KioskBookingRequest{ShowId: testShowID, Seats: []string{"A1"}},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: validator.ErrRequired,
		},
		{
			name:           "seat outside the layout",
			body:           api.KioskBookingRequest{ShowId: testShowID, Seats: []string{"B1"}, KioskId: "box-1"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: domain.ErrInvalidSeats.Error() + ": B1",
		},
		{
			name:           "unknown show",
			body:           api.KioskBookingRequest{ShowId: uuid.New(), Seats: []string{"A1"}, KioskId: "box-1"},
			wantStatus:     http.StatusNotFound,
			wantErrMessage: ErrNotFound,
		},
		{
			name: "seat held by a web user",
			setup: func() {
				_, err := s.app.coordinator.RequestHold(s.T().Context(), testShowID, "user-1", []string{"A2"})
				s.Require().NoError(err)
			},
			body:           api.KioskBookingRequest{ShowId: testShowID, Seats: []string{"A1", "A2"}, KioskId: "box-1"},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrSeatsLocked.Error(),
		},
		{
			name: "seat already booked",
			setup: func() {
				_, err := s.app.coordinator.KioskBooking(s.T().Context(), testShowID, []string{"A1"}, "box-2")
				s.Require().NoError(err)
			},
			body:           api.KioskBookingRequest{ShowId: testShowID, Seats: []string{"A1"}, KioskId: "box-1"},
			wantStatus:     http.StatusConflict,
			wantErrMessage: domain.ErrSeatsUnavailable.Error() + ": A1",
		},
		{
			name:       "booked",
			body:       api.KioskBookingRequest{ShowId: testShowID, Seats: []string{"A1", "A3"}, KioskId: "box-1"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			if tt.setup != nil {
				tt.setup()
			}

			// kiosks carry no requester identity
			w, r := executeRequest(s.T(), http.MethodPost, "/kiosk/bookings", tt.body)
			serve(s.app, w, r, "")

			s.Equal(tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusCreated {
				var response api.KioskBookingResponse
				err := json.NewDecoder(w.Body).Decode(&response)
				s.Require().NoError(err, "Failed to decode response")

				s.Equal("box-1", response.KioskId)
				s.Equal("kiosk", response.Reservation.HolderKind)
				s.Equal([]string{"A1", "A3"}, response.Reservation.Seats)
				s.True(decimal.NewFromInt(20).Equal(response.Reservation.TotalAmount))
				s.Zero(response.Reservation.RewardPoints)

				show, err := s.deps.ledger.GetShow(s.T().Context(), testShowID)
				s.Require().NoError(err)
				s.ElementsMatch([]string{"A1", "A3"}, show.Booked)
			}

			checkErrorResponse(s.T(), w, errorCase{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func (s *KioskTestSuite) TestKioskBookingHandler_LockStoreDisabled() {
	app, deps := newTestApplication(func(a *application) {
		a.config.lockStore = lockStoreNone
		a.coordinator = booking.NewCoordinator(a.ledger, a.holds, nil, nil,
			booking.WithLockStoreAvailable(false))
	})
	deps.seedShow(3)

	// a hold left in the store is ignored once holds are switched off
	err := deps.holds.Put(s.T().Context(), domain.Hold{
		ShowID:    testShowID,
		HolderID:  "user-1",
		Seats:     []string{"A1"},
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(time.Minute),
	}, time.Minute)
	s.Require().NoError(err)

	w, r := executeRequest(s.T(), http.MethodPost, "/kiosk/bookings",
		api.KioskBookingRequest{ShowId: testShowID, Seats: []string{"A1"}, KioskId: "box-1"})
	serve(app, w, r, "")

	s.Equal(http.StatusCreated, w.Code)
}
