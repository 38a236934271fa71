package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	localsKey = "sessionContext"

	defaultExpiry = 24 * time.Hour
)

// Manager loads and persists session contexts in a fiber.Storage backend.
// The session cookie is written by the manager itself, see cookie.
type Manager struct {
	store  *fibersession.Store
	secure bool
}

// NewManager creates a manager on storage. A nil storage selects fiber's in-memory storage.
func NewManager(storage fiber.Storage, expiry time.Duration, secureCookie bool) *Manager {
	if expiry <= 0 {
		expiry = defaultExpiry
	}

	// only the resolved storage and expiration of the store are used
	return &Manager{
		store: fibersession.New(fibersession.Config{
			Storage:    storage,
			Expiration: expiry,
		}),
		secure: secureCookie,
	}
}

// Storage returns the storage backend.
func (m *Manager) Storage() fiber.Storage {
	return m.store.Storage
}

// Load reads the session id from the storage. An unknown or empty id yields an empty context.
func (m *Manager) Load(id string) (*Context, error) {
	if id == "" {
		return NewContext("", Data{}), nil
	}

	raw, err := m.store.Storage.Get(id)
	if err != nil {
		return NewContext("", Data{}), errors.Wrap(err, "failed to read session")
	}

	if len(raw) == 0 {
		return NewContext("", Data{}), nil
	}

	var data Data
	if err = json.Unmarshal(raw, &data); err != nil {
		return NewContext("", Data{}), errors.Wrap(err, "failed to decode session")
	}

	return NewContext(id, data), nil
}

// Save writes sess back when it was modified and sets or expires the cookie.
func (m *Manager) Save(c *fiber.Ctx, sess *Context) error {
	if !sess.Modified() {
		return nil
	}

	if (sess.cleared || sess.regenerate) && sess.id != "" {
		if err := m.store.Storage.Delete(sess.id); err != nil {
			return errors.Wrap(err, "failed to delete session")
		}

		sess.id = ""
	}

	if !sess.dirty || sess.data.User == nil {
		c.Cookie(m.cookie("", time.Now().Add(-time.Hour)))
		return nil
	}

	id, err := GenerateSessionID()
	if err != nil {
		return errors.Wrap(err, "failed to generate session id")
	}

	raw, err := sess.marshal()
	if err != nil {
		return errors.Wrap(err, "failed to encode session")
	}

	if err = m.store.Storage.Set(id, raw, m.store.Expiration); err != nil {
		return errors.Wrap(err, "failed to write session")
	}

	sess.id = id
	sess.dirty = false
	sess.regenerate = false
	sess.cleared = false

	c.Cookie(m.cookie(id, time.Now().Add(m.store.Expiration)))

	return nil
}

func (m *Manager) cookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   m.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// Middleware attaches the session context to the request and persists it after the chain returns.
func (m *Manager) Middleware(c *fiber.Ctx) error {
	sess, err := m.Load(c.Cookies(CookieName))
	if err != nil {
		log.Warn().Err(err).Msg("discarding unreadable session")
	}

	Attach(c, sess)

	chainErr := c.Next()

	if err = m.Save(c, sess); err != nil {
		log.Error().Err(err).Msg("failed to persist session")

		if chainErr == nil {
			return err
		}
	}

	return chainErr
}

// Attach makes sess the session context of the request.
func Attach(c *fiber.Ctx, sess *Context) {
	c.Locals(localsKey, sess)
}

// FromCtx returns the session context of the request. Outside of Middleware it returns
// an empty context that is never persisted.
func FromCtx(c *fiber.Ctx) *Context {
	if sess, ok := c.Locals(localsKey).(*Context); ok {
		return sess
	}

	return NewContext("", Data{})
}
