package dashboard

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// SessionCookie names the cookie that scopes stored keys and history to
// one browser.
const SessionCookie = "partscope_session"

const sessionMaxAge = 365 * 24 * 60 * 60

type sessionKey struct{}

// sessionMiddleware makes sure every request carries a session id,
// issuing a fresh one when the cookie is missing or malformed.
func (d *Dashboard) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   sessionMaxAge,
				HttpOnly: true,
				Secure:   d.cfg.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, id)))
	})
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}
