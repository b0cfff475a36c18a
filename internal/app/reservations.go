package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

func (app *application) ConfirmReservationHandler(w http.ResponseWriter, r *http.Request) {
	var input api.ConfirmReservationRequest

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

	reservation, err := app.coordinator.Confirm(
		r.Context(),
		input.ShowId,
		requesterID,
		input.Seats,
		toLineItemRequests(input.LineItems))

	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("reservation confirmed",
		"reservation_id", reservation.ID,
		"show_id", reservation.ShowID,
		"total_amount", reservation.TotalAmount)

	resp := api.ReservationResponse{Reservation: toApiReservation(reservation)}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) CancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := app.readUUIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	requesterID := app.contextGetRequesterID(r)

	reservation, err := app.coordinator.Cancel(r.Context(), reservationID, requesterID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("reservation cancelled", "reservation_id", reservation.ID)

	resp := api.ReservationResponse{Reservation: toApiReservation(reservation)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := app.readUUIDParam(r, "reservationId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	requesterID := app.contextGetRequesterID(r)

	reservation, err := app.coordinator.GetReservation(r.Context(), reservationID, requesterID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := api.ReservationResponse{Reservation: toApiReservation(reservation)}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetReservationsHandler(w http.ResponseWriter, r *http.Request) {
	var params api.GetReservationsParams
	var err error

	params.Page, err = readIntQuery(r, "page")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	params.PageSize, err = readIntQuery(r, "pageSize")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	requesterID := app.contextGetRequesterID(r)
	pagination := toPagination(params)

	reservations, metadata, err := app.coordinator.ListReservations(r.Context(), requesterID, pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ReservationsResponse{
		Reservations: make([]api.Reservation, len(reservations)),
		Metadata:     toApiMetadata(metadata),
	}

	for i := range reservations {
		resp.Reservations[i] = toApiReservation(&reservations[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toLineItemRequests(items []api.LineItemRequest) []domain.LineItemRequest {
	requests := make([]domain.LineItemRequest, len(items))

	for i, v := range items {
		requests[i] = domain.LineItemRequest{
			AddOnID:  v.AddOnId,
			Quantity: v.Quantity,
		}
	}

	return requests
}

func toApiReservation(reservation *domain.Reservation) api.Reservation {
	lineItems := make([]api.LineItem, len(reservation.LineItems))

	for i, v := range reservation.LineItems {
		lineItems[i] = api.LineItem{
			AddOnId:   v.AddOnID,
			Name:      v.Name,
			UnitPrice: v.UnitPrice,
			Quantity:  v.Quantity,
			Amount:    v.Amount(),
		}
	}

	return api.Reservation{
		Id:           reservation.ID,
		ShowId:       reservation.ShowID,
		HolderKind:   string(reservation.HolderKind),
		KioskId:      reservation.KioskID,
		Seats:        reservation.Seats,
		LineItems:    lineItems,
		Status:       string(reservation.Status),
		SeatsAmount:  reservation.SeatsAmount,
		AddOnsAmount: reservation.AddOnsAmount,
		TotalAmount:  reservation.TotalAmount,
		RewardPoints: reservation.RewardPoints,
		CreatedAt:    reservation.CreatedAt,
		ExpiresAt:    reservation.ExpiresAt,
		ConfirmedAt:  reservation.ConfirmedAt,
		CancelledAt:  reservation.CancelledAt,
	}
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}

func toPagination(params api.GetReservationsParams) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if params.Page != nil {
		pagination.Page = *params.Page
	}
	if params.PageSize != nil {
		pagination.PageSize = *params.PageSize
	}

	return pagination
}
