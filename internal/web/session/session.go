// Package session keeps the per-request session context.
//
// A Context is created by Manager.Middleware at request start from the storage entry
// named by the session cookie, is available to handlers through FromCtx and is
// written back to the storage when the handler chain returns.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// Data is the persisted part of a session.
type Data struct {
	User *models.User `json:"user,omitempty"`
}

// Context is the session state of one request.
type Context struct {
	id          string
	data        Data
	dirty       bool
	regenerate  bool
	cleared     bool
	permissions []models.Permission
	loaded      bool
}

// NewContext returns a context for the session id with the given data.
func NewContext(id string, data Data) *Context {
	return &Context{id: id, data: data}
}

// ID returns the session id, empty for a session that was never persisted.
func (s *Context) ID() string {
	return s.id
}

// User returns the logged-in user, nil if there is none.
func (s *Context) User() *models.User {
	return s.data.User
}

// SetUser stores u as the logged-in user. The session id is renewed on save.
func (s *Context) SetUser(u models.User) {
	u.PasswordHash = ""
	s.data.User = &u
	s.dirty = true
	s.regenerate = true
	s.permissions = nil
	s.loaded = false
}

// Clear removes the logged-in user and drops the session on save.
func (s *Context) Clear() {
	s.data = Data{}
	s.dirty = false
	s.cleared = true
	s.permissions = nil
	s.loaded = false
}

// Permissions returns the permissions cached for this request and whether they were loaded.
func (s *Context) Permissions() ([]models.Permission, bool) {
	return s.permissions, s.loaded
}

// SetPermissions caches the user's permissions for the rest of the request. They are never persisted.
func (s *Context) SetPermissions(permissions []models.Permission) {
	s.permissions = permissions
	s.loaded = true
}

// Modified reports whether the context must be written back.
func (s *Context) Modified() bool {
	return s.dirty || s.cleared
}

func (s *Context) marshal() ([]byte, error) {
	return json.Marshal(s.data)
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}
