package app

import "net/http"

type sessionKey string

// SessionKeyUserId is written by the identity provider that shares the
// session store; this service only reads it.
const SessionKeyUserId = sessionKey("userID")

func (s sessionKey) String() string {
	return string(s)
}

type contextKey string

const contextKeyRequesterID = contextKey("requesterID")

const requesterIDHeader = "X-Requester-Id"

// contextGetRequesterID returns the requester id stored by loadIdentity, or
// an empty string for anonymous requests.
func (app *application) contextGetRequesterID(r *http.Request) string {
	requesterID, _ := r.Context().Value(contextKeyRequesterID).(string)

	return requesterID
}
