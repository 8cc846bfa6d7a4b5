package middleware

import (
	"net/http"

	"homezen/pkg/session"
)

// Sessions opens the cookie-backed session store of every request and
// puts it on the request context.
func Sessions(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			repo := m.Open(w, r)
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), repo)))
		})
	}
}
