package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// loadIdentity resolves the requester from the shared session, or from the
// gateway header when the service runs behind a trusted proxy.
func (app *application) loadIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requesterID := ""

		if app.sessionManager != nil {
			requesterID = app.sessionManager.GetString(r.Context(), SessionKeyUserId.String())
		}

		if requesterID == "" && app.config.trustIdentityHeader {
			requesterID = strings.TrimSpace(r.Header.Get(requesterIDHeader))
		}

		if requesterID != "" {
			ctx := context.WithValue(r.Context(), contextKeyRequesterID, requesterID)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.contextGetRequesterID(r) == "" {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
