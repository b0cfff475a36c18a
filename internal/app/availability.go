package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

func (app *application) GetAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	showID, err := app.readUUIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	availability, err := app.projector.GetAvailability(r.Context(), showID, app.contextGetRequesterID(r))
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toAvailabilityResponse(availability), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toAvailabilityResponse(availability *domain.Availability) api.AvailabilityResponse {
	seatMap := make([]api.SeatAvailability, len(availability.Seats))

	for i, v := range availability.Seats {
		seatMap[i] = api.SeatAvailability{
			Id:     v.ID,
			Row:    v.Row,
			Column: v.Column,
			Tier:   string(v.Tier),
			Price:  v.Price,
			Status: string(v.Status),
		}
	}

	return api.AvailabilityResponse{
		ShowId:         availability.ShowID,
		TotalSeats:     availability.TotalSeats,
		AvailableSeats: availability.AvailableSeats,
		BookedSeats:    availability.BookedSeats,
		LockedByMe:     availability.LockedByMe,
		LockedByOther:  availability.LockedByOther,
		AlmostFull:     availability.AlmostFull,
		SeatMap:        seatMap,
	}
}
