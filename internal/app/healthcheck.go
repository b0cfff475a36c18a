package app

import (
	"net/http"

	"github.com/metinatakli/movie-reservation-core/api"
)

const (
	lockStoreUp       = "UP"
	lockStoreDown     = "DOWN"
	lockStoreDisabled = "DISABLED"
)

func (app *application) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "UP"
	systemInfo := api.SystemInfo{
		Version:     version,
		Environment: app.config.env,
	}

	resp := api.HealthcheckResponse{
		Status:     status,
		LockStore:  app.lockStoreStatus(r),
		SystemInfo: systemInfo,
	}

	app.writeJSON(w, http.StatusOK, resp, nil)
}

func (app *application) lockStoreStatus(r *http.Request) string {
	if app.config.lockStore == lockStoreNone {
		return lockStoreDisabled
	}

	if app.lockStoreUnreachable {
		return lockStoreDown
	}

	if err := app.holds.Ping(r.Context()); err != nil {
		app.contextGetLogger(r).Warn("lock store ping failed", "error", err)
		return lockStoreDown
	}

	return lockStoreUp
}
