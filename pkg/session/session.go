package session

import (
	"context"
	"strconv"

	"homezen/pkg/role"
)

// Persisted keys. Nothing outside this package reads or writes them.
const (
	KeyToken       = "token"
	KeyUserID      = "user_id"
	KeyUserRole    = "user_role"
	KeyTokenExpiry = "user_token_exp"
)

var persistedKeys = [...]string{KeyToken, KeyUserID, KeyUserRole, KeyTokenExpiry}

// Session is the authenticated identity of the browser making a request.
// TokenExpiry keeps the persisted epoch-seconds text; the auth guard is
// the only place that interprets it.
type Session struct {
	UserID      string
	Role        role.Role
	TokenExpiry string
	Token       string
}

func New(userID string, r role.Role, expiresAt int64, token string) Session {
	return Session{
		UserID:      userID,
		Role:        r,
		TokenExpiry: strconv.FormatInt(expiresAt, 10),
		Token:       token,
	}
}

// Notification is a one-shot toast shown on the next rendered page.
type Notification struct {
	Kind    string
	Message string
}

const (
	NotifySuccess = "success"
	NotifyError   = "error"
	NotifyInfo    = "info"
)

// Repository is the request-scoped session store. Initialize runs once
// per request before any decision is made on the session.
type Repository interface {
	Initialize() error
	Loading() bool
	Current() *Session
	Login(sess Session) error
	Logout() error
	Notify(kind, message string) error
	Notifications() []Notification
}

type contextKey string

const repoContextKey contextKey = "session"

func NewContext(ctx context.Context, repo Repository) context.Context {
	return context.WithValue(ctx, repoContextKey, repo)
}

func FromContext(ctx context.Context) (Repository, bool) {
	repo, ok := ctx.Value(repoContextKey).(Repository)
	return repo, ok && repo != nil
}

// Current returns the session of the request, or nil when none is open.
func Current(ctx context.Context) *Session {
	repo, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return repo.Current()
}
