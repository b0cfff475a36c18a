package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

func (app *application) RequestHoldHandler(w http.ResponseWriter, r *http.Request) {
	var input api.HoldRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	requesterID := app.contextGetRequesterID(r)

	hold, err := app.coordinator.RequestHold(r.Context(), input.ShowId, requesterID, input.Seats)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("seats held",
		"show_id", hold.ShowID,
		"seats", hold.Seats,
		"expires_at", hold.ExpiresAt)

	err = app.writeJSON(w, http.StatusCreated, app.toHoldResponse(hold), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toHoldResponse(hold *domain.Hold) api.HoldResponse {
	return api.HoldResponse{
		ShowId:      hold.ShowID,
		Seats:       hold.Seats,
		ExpiresAt:   hold.ExpiresAt,
		HoldSeconds: int(app.coordinator.HoldTTL().Seconds()),
	}
}
