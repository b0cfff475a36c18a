package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
)

func (app *application) GetRewardsHandler(w http.ResponseWriter, r *http.Request) {
	points, err := app.ledger.GetRewardPoints(r.Context(), app.contextGetRequesterID(r))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.RewardsResponse{Points: points}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
