package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/calebsw/unoroom/internal/auth"
)

// sessionCookieName carries the guest session token.
const sessionCookieName = "uno_session"

// EnsureGuest resolves the caller's guest identity from the session
// cookie, minting a fresh identity and cookie when none is valid. Must run
// before the WebSocket upgrade so the Set-Cookie header can still be sent.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if sub, err := auth.VerifySessionToken(cookie.Value); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return id, nil
			}
		}
	}

	id := uuid.New()
	token, err := auth.NewSessionToken(id.String())
	if err != nil {
		return uuid.Nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return id, nil
}
