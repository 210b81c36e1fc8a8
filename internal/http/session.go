package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const sessionCookie = "bv_session"

type ctxKey int

const sessionIDKey ctxKey = iota

// SessionMiddleware issues a browser session id as a cookie. The id keys the
// persisted cart and the checkout handoff; concurrent tabs of the same
// browser share it (last write wins, as with the storage it replaces).
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
			id = c.Value
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   60 * 60 * 24 * 30,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session id placed by SessionMiddleware, or "" when
// the middleware did not run.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}
