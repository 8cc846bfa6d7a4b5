package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"homezen/pkg/apiclient"
	"homezen/pkg/auth"
	"homezen/pkg/nav"
	"homezen/pkg/role"
	"homezen/pkg/session"
)

const (
	LoginPath   = "/login"
	ExpiredPath = "/login?expired=1"
)

type GuardConfig struct {
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// Loading is rendered while the session store has not initialized.
	Loading http.Handler
	// Forbidden is rendered for paths outside the role's navigation set.
	Forbidden http.Handler
}

// Guard wraps the protected routes. Every request re-runs the session
// check; nothing is cached between requests.
func Guard(cfg GuardConfig) func(http.Handler) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Loading == nil {
		cfg.Loading = http.HandlerFunc(loading)
	}
	if cfg.Forbidden == nil {
		cfg.Forbidden = http.HandlerFunc(forbidden)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			repo, ok := session.FromContext(r.Context())
			if ok {
				if err := repo.Initialize(); err != nil {
					cfg.Logger.Error("session initialize", "error", err)
					redirectToLogin(w, r)
					return
				}
			}

			state := evaluate(repo, ok, cfg.Now())
			switch state {
			case auth.Loading:
				cfg.Loading.ServeHTTP(w, r)
			case auth.Unauthenticated:
				redirectToLogin(w, r)
			case auth.Expired:
				cfg.Logger.Info("session expired", "path", r.URL.Path)
				EndSession(w, r, repo, cfg.Logger)
			case auth.Authenticated:
				sess := repo.Current()
				if !nav.Allows(sess.Role, r.URL.Path) {
					cfg.Logger.Warn("path outside role", "path", r.URL.Path, "role", sess.Role.String(), "user_id", sess.UserID)
					cfg.Forbidden.ServeHTTP(w, r)
					return
				}
				ctx := apiclient.WithToken(r.Context(), sess.Token)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// evaluate fails closed: a panic while reading the session is an expiry.
func evaluate(repo session.Repository, ok bool, now time.Time) (state auth.State) {
	if !ok {
		return auth.Loading
	}
	defer func() {
		if rec := recover(); rec != nil {
			state = auth.Expired
		}
	}()
	return auth.Evaluate(auth.Input{Loading: repo.Loading(), Session: repo.Current()}, now)
}

// EndSession clears the session and sends the browser to the login
// page. Nothing may be written to w afterwards.
func EndSession(w http.ResponseWriter, r *http.Request, repo session.Repository, logger *slog.Logger) {
	if repo != nil {
		if err := repo.Logout(); err != nil {
			logger.Error("logout", "error", err)
		}
	}
	http.Redirect(w, r, ExpiredPath, http.StatusSeeOther)
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := LoginPath
	if next := r.URL.RequestURI(); r.Method == http.MethodGet && next != "/" {
		target += "?next=" + url.QueryEscape(next)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// RequireRole narrows a route inside the guarded area to one role.
func RequireRole(want role.Role, deny http.Handler) func(http.Handler) http.Handler {
	if deny == nil {
		deny = http.HandlerFunc(forbidden)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := session.Current(r.Context())
			if sess == nil || sess.Role != want {
				deny.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func loading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	http.Error(w, "Loading...", http.StatusServiceUnavailable)
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Forbidden", http.StatusForbidden)
}
