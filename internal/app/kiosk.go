package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
)

// KioskBookingHandler serves box-office terminals. They authenticate with
// their kiosk id rather than a user session.
func (app *application) KioskBookingHandler(w http.ResponseWriter, r *http.Request) {
	var input api.KioskBookingRequest

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

	reservation, err := app.coordinator.KioskBooking(r.Context(), input.ShowId, input.Seats, input.KioskId)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("kiosk booking confirmed",
		"reservation_id", reservation.ID,
		"kiosk_id", reservation.KioskID,
		"show_id", reservation.ShowID)

	resp := api.KioskBookingResponse{
		Reservation: toApiReservation(reservation),
		KioskId:     reservation.KioskID,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
