package session

import (
	"crypto/sha256"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
	"homezen/pkg/role"
)

const (
	CookieName    = "homezen"
	DefaultMaxAge = 60 * 60 * 24 * 7
	minSecretLen  = 16
)

var ErrWeakSecret = errors.New("session secret must be at least 16 bytes")

func init() {
	gob.Register(Notification{})
}

type Options struct {
	Secure bool
	MaxAge int
}

// Manager opens the per-request cookie repository.
type Manager struct {
	store  *sessions.CookieStore
	logger *slog.Logger
}

func NewManager(secret string, opts Options, logger *slog.Logger) (*Manager, error) {
	if len(secret) < minSecretLen {
		return nil, ErrWeakSecret
	}
	hashKey, err := deriveKey(secret, "homezen session hash", 64)
	if err != nil {
		return nil, err
	}
	blockKey, err := deriveKey(secret, "homezen session block", 32)
	if err != nil {
		return nil, err
	}

	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}

	store := sessions.NewCookieStore(hashKey, blockKey)
	store.MaxAge(maxAge)
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = opts.Secure
	store.Options.SameSite = http.SameSiteLaxMode

	return &Manager{store: store, logger: logger}, nil
}

func deriveKey(secret, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %s: %w", info, err)
	}
	return key, nil
}

func (m *Manager) Open(w http.ResponseWriter, r *http.Request) *CookieRepo {
	return &CookieRepo{
		store:   m.store,
		w:       w,
		r:       r,
		logger:  m.logger,
		loading: true,
	}
}

// CookieRepo keeps the four session keys in one signed and encrypted
// cookie, so a save writes all of them or none.
type CookieRepo struct {
	store   sessions.Store
	w       http.ResponseWriter
	r       *http.Request
	logger  *slog.Logger
	raw     *sessions.Session
	current *Session
	loading bool
}

func (c *CookieRepo) load() *sessions.Session {
	if c.raw != nil {
		return c.raw
	}
	raw, err := c.store.Get(c.r, CookieName)
	if err != nil {
		// tampered cookie or rotated secret: start from an empty session
		c.logger.Debug("session cookie rejected", "error", err)
	}
	c.raw = raw
	return raw
}

func (c *CookieRepo) Initialize() error {
	if !c.loading {
		return nil
	}
	c.current = fromValues(c.load().Values)
	c.loading = false
	return nil
}

func fromValues(values map[interface{}]interface{}) *Session {
	fields := make(map[string]string, len(persistedKeys))
	for _, key := range persistedKeys {
		v, ok := values[key].(string)
		if !ok || v == "" {
			return nil
		}
		fields[key] = v
	}

	r, err := role.Parse(fields[KeyUserRole])
	if err != nil {
		return nil
	}

	return &Session{
		UserID:      fields[KeyUserID],
		Role:        r,
		TokenExpiry: fields[KeyTokenExpiry],
		Token:       fields[KeyToken],
	}
}

func (c *CookieRepo) Loading() bool {
	return c.loading
}

func (c *CookieRepo) Current() *Session {
	return c.current
}

func (c *CookieRepo) Login(sess Session) error {
	raw := c.load()
	raw.Values[KeyToken] = sess.Token
	raw.Values[KeyUserID] = sess.UserID
	raw.Values[KeyUserRole] = strconv.Itoa(sess.Role.Code())
	raw.Values[KeyTokenExpiry] = sess.TokenExpiry
	raw.Options.MaxAge = c.maxAge()

	if err := raw.Save(c.r, c.w); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	c.current = &sess
	c.loading = false
	return nil
}

func (c *CookieRepo) maxAge() int {
	if cs, ok := c.store.(*sessions.CookieStore); ok && cs.Options.MaxAge > 0 {
		return cs.Options.MaxAge
	}
	return DefaultMaxAge
}

func (c *CookieRepo) Logout() error {
	raw := c.load()
	for key := range raw.Values {
		delete(raw.Values, key)
	}
	raw.Options.MaxAge = -1

	c.current = nil
	c.loading = false

	if err := raw.Save(c.r, c.w); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (c *CookieRepo) Notify(kind, message string) error {
	raw := c.load()
	raw.AddFlash(Notification{Kind: kind, Message: message})
	return raw.Save(c.r, c.w)
}

// Notifications drains pending toasts. It must run before the response
// body is written.
func (c *CookieRepo) Notifications() []Notification {
	raw := c.load()
	flashes := raw.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := raw.Save(c.r, c.w); err != nil {
		c.logger.Error("failed to consume notifications", "error", err)
	}

	out := make([]Notification, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(Notification); ok {
			out = append(out, n)
		}
	}
	return out
}
