package session

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/brandadmin/internal/logging"
)

// CookieName is the session id cookie.
const CookieName = "brandadmin_session"

type ctxKey struct{}

// WithID stores a session id in ctx.
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sid)
}

// IDFromContext returns the session id, or "" outside a session.
func IDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKey{}).(string)
	return sid
}

// Middleware makes sure every request carries a session id, issuing a new
// one when the cookie is missing or malformed, and refreshes the session's
// lifetime.
func (s *Store) Middleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(CookieName); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					sid = id.String()
				}
			}
			if sid == "" {
				sid = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(s.ttl / time.Second),
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			if err := s.Touch(r.Context(), sid); err != nil {
				logging.FromContext(r.Context()).Warn("session refresh failed", "error", err)
			}
			next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
		})
	}
}
