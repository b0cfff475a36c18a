package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
)

func (app *application) GetAddOnsHandler(w http.ResponseWriter, r *http.Request) {
	var params api.GetAddOnsParams

	if category := r.URL.Query().Get("category"); category != "" {
		params.Category = &category
	}

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	var category domain.AddOnCategory
	if params.Category != nil {
		category = domain.AddOnCategory(*params.Category)
	}

	addOns, err := app.addOnRepo.GetAll(r.Context(), category)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.AddOnsResponse{AddOns: make([]api.AddOn, len(addOns))}

	for i := range addOns {
		resp.AddOns[i] = toApiAddOn(&addOns[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) GetAddOnHandler(w http.ResponseWriter, r *http.Request) {
	addOnID, err := app.readUUIDParam(r, "addOnId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	addOn, err := app.addOnRepo.GetById(r.Context(), addOnID)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.AddOnResponse{AddOn: toApiAddOn(addOn)}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toApiAddOn(addOn *domain.AddOn) api.AddOn {
	return api.AddOn{
		Id:          addOn.ID,
		Name:        addOn.Name,
		Description: addOn.Description,
		Category:    string(addOn.Category),
		Price:       addOn.Price,
		Available:   addOn.Available,
	}
}
