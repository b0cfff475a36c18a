package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)
	r.Use(app.loadIdentity)

	r.Get("/healthcheck", app.GetHealth)

	r.Route("/shows", func(r chi.Router) {
		r.With(app.requireIdentity, app.rateLimit).Post("/", app.CreateShowHandler)
		r.Get("/{showId}", app.GetShowHandler)
		r.Get("/{showId}/availability", app.GetAvailabilityHandler)
	})

	r.Route("/addons", func(r chi.Router) {
		r.Get("/", app.GetAddOnsHandler)
		r.Get("/{addOnId}", app.GetAddOnHandler)
	})

	r.With(app.requireIdentity, app.rateLimit).Post("/holds", app.RequestHoldHandler)

	r.With(app.requireIdentity).Route("/reservations", func(r chi.Router) {
		r.Get("/", app.GetReservationsHandler)
		r.With(app.rateLimit).Post("/", app.ConfirmReservationHandler)
		r.Get("/{reservationId}", app.GetReservationHandler)
		r.With(app.rateLimit).Delete("/{reservationId}", app.CancelReservationHandler)
	})

	r.With(app.rateLimit).Post("/kiosk/bookings", app.KioskBookingHandler)

	r.With(app.requireIdentity).Get("/users/me/rewards", app.GetRewardsHandler)

	return r
}
