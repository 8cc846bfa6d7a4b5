package auth

import (
	"math"
	"strconv"
	"strings"
	"time"

	"homezen/pkg/session"
)

// State is the outcome of evaluating a navigation into the protected area.
type State int

const (
	Loading State = iota
	Unauthenticated
	Expired
	Authenticated
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Expired:
		return "expired"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Expiry is a parsed token expiry. Invalid expiries never authenticate.
type Expiry struct {
	At    time.Time
	Valid bool
}

// ParseExpiry reads the persisted epoch-seconds expiry. Empty,
// non-numeric, non-positive and out-of-range values are invalid.
func ParseExpiry(raw string) Expiry {
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || secs <= 0 || secs > math.MaxInt64/1000 {
		return Expiry{}
	}
	return Expiry{At: time.UnixMilli(secs * 1000), Valid: true}
}

// Passed reports whether the expiry lies before now at millisecond
// resolution. Invalid expiries count as passed.
func (e Expiry) Passed(now time.Time) bool {
	if !e.Valid {
		return true
	}
	return e.At.UnixMilli() < now.UnixMilli()
}

type Input struct {
	Loading bool
	Session *session.Session
}

// Evaluate decides a single navigation. It is re-run on every request.
func Evaluate(in Input, now time.Time) State {
	switch {
	case in.Loading:
		return Loading
	case in.Session == nil:
		return Unauthenticated
	case ParseExpiry(in.Session.TokenExpiry).Passed(now):
		return Expired
	default:
		return Authenticated
	}
}
