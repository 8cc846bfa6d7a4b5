package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"homezen/pkg/apiclient"
)

// Panic recovers handler panics into a 500 page. fallback may be nil.
func Panic(logger *slog.Logger, fallback http.Handler) func(http.Handler) http.Handler {
	if fallback == nil {
		fallback = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error("panic recovered",
						"error", err,
						"path", r.URL.Path,
						"request_id", apiclient.RequestIDFromContext(r.Context()),
						"stack", string(debug.Stack()),
					)
					fallback.ServeHTTP(w, r)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
