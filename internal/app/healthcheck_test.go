package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/booking"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/metinatakli/movie-reservation-core/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(app *application)
		wantLockStore string
	}{
		{
			name:          "lock store up",
			wantLockStore: lockStoreUp,
		},
		{
			name: "lock store down",
			setup: func(app *application) {
				holds := new(mocks.MockHoldStore)
				holds.On("Ping", mock.Anything).Return(errors.New("connection refused"))

				app.holds = holds
			},
			wantLockStore: lockStoreDown,
		},
		{
			name: "lock store disabled",
			setup: func(app *application) {
				app.config.lockStore = lockStoreNone
			},
			wantLockStore: lockStoreDisabled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApplication()
			if tt.setup != nil {
				tt.setup(app)
			}

			w, r := executeRequest(t, http.MethodGet, "/healthcheck", nil)
			serve(app, w, r, "")

			require.Equal(t, http.StatusOK, w.Code)

			var response api.HealthcheckResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

			assert.Equal(t, "UP", response.Status)
			assert.Equal(t, tt.wantLockStore, response.LockStore)
			assert.Equal(t, "test", response.SystemInfo.Environment)
		})
	}
}

func TestSetupLockStore_RedisUnreachable(t *testing.T) {
	app, deps := newTestApplication(func(a *application) {
		a.config.lockStore = lockStoreRedis
		a.config.booking.holdTTL = time.Minute
		a.config.booking.reservationTTL = time.Minute
		a.config.booking.maxSeats = booking.DefaultMaxSeats
	})

	// no redis client was connected
	app.setupLockStore()
	require.True(t, app.lockStoreUnreachable)

	opts := append(app.bookingOptions(), booking.WithClock(testClock))
	app.coordinator = booking.NewCoordinator(app.ledger, app.holds, nil, app.logger, opts...)
	app.projector = booking.NewProjector(app.ledger, app.holds, app.logger, opts...)

	deps.seedShow(3)

	w, r := executeRequest(t, http.MethodPost, "/holds", api.HoldRequest{ShowId: testShowID, Seats: []string{"A1"}})
	serve(app, w, r, "user-1")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	checkErrorResponse(t, w, errorCase{
		wantStatus:     http.StatusServiceUnavailable,
		wantErrMessage: domain.ErrLockStoreUnavailable.Error(),
	})

	w, r = executeRequest(t, http.MethodPost, "/kiosk/bookings",
		api.KioskBookingRequest{ShowId: testShowID, Seats: []string{"A1"}, KioskId: "box-1"})
	serve(app, w, r, "")

	assert.Equal(t, http.StatusCreated, w.Code)

	w, r = executeRequest(t, http.MethodGet, fmt.Sprintf("/shows/%s/availability", testShowID), nil)
	serve(app, w, r, "")

	assert.Equal(t, http.StatusOK, w.Code)

	w, r = executeRequest(t, http.MethodGet, "/healthcheck", nil)
	serve(app, w, r, "")

	var response api.HealthcheckResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))

	assert.Equal(t, "UP", response.Status)
	assert.Equal(t, lockStoreDown, response.LockStore)
}
