package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

// CreateShowHandler lays out a fresh hall with the default tier prices.
func (app *application) CreateShowHandler(w http.ResponseWriter, r *http.Request) {
	var input api.CreateShowRequest

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

	show := domain.NewShow(
		input.Title,
		input.Hall,
		input.StartsAt,
		input.Rows,
		input.SeatsPerRow,
		domain.DefaultTierPrices)

	err = app.ledger.CreateShow(r.Context(), show)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("show created", "show_id", show.ID, "total_seats", show.TotalSeats)

	err = app.writeJSON(w, http.StatusCreated, api.ShowResponse{Show: toApiShow(show)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetShowHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readUUIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	show, err := app.ledger.GetShow(r.Context(), showID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.ShowResponse{Show: toApiShow(show)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiShow(show *domain.Show) api.Show {
	return api.Show{
		Id:             show.ID,
		Title:          show.Title,
		Hall:           show.Hall,
		StartsAt:       show.StartsAt,
		EndsAt:         show.EndsAt,
		TotalSeats:     show.TotalSeats,
		AvailableSeats: show.AvailableSeats,
		AlmostFull:     show.AlmostFull(),
		Prices: api.TierPrices{
			Standard: show.Prices.Standard,
			Premium:  show.Prices.Premium,
			Vip:      show.Prices.VIP,
		},
	}
}
