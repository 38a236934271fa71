package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/user"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
)

// LoginPath is the path of the login page.
const LoginPath = "/pages/login"

// UserFinder looks up users by username.
type UserFinder interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// LoginService authenticates users against the local database.
type LoginService struct {
	users UserFinder
}

// NewLoginService creates a login service.
func NewLoginService(users UserFinder) *LoginService {
	return &LoginService{users: users}
}

// IsLoggedIn reports whether sess holds a stored user.
func (s *LoginService) IsLoggedIn(sess *session.Context) bool {
	u := sess.User()
	return u != nil && u.ID > 0
}

// Login verifies the credentials and stores the user in sess. The session is left
// untouched on failure.
func (s *LoginService) Login(ctx context.Context, sess *session.Context, username, password string) error {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, gateway.ErrNotFound) || errors.Is(err, user.ErrUsernameEmpty) {
		return pkgerrors.Wrapf(ErrUserNotFound, "username [%s]", username)
	}

	if err != nil {
		return pkgerrors.Wrap(err, "failed to query user")
	}

	match, err := u.VerifyPassword(password)
	if err != nil {
		return err
	}

	if !match {
		log.Warn().Str("username", username).Msg("login with invalid password")
		return ErrInvalidCredentials
	}

	sess.SetUser(*u)

	log.Info().Uint64("user_id", u.ID).Str("username", u.Username).Msg("user logged in")

	return nil
}

// Logout removes the user from sess.
func (s *LoginService) Logout(sess *session.Context) {
	if u := sess.User(); u != nil {
		log.Info().Uint64("user_id", u.ID).Msg("user logged out")
	}

	sess.Clear()
}

// Guard returns ErrNotLoggedIn for requests without a logged-in user.
func (s *LoginService) Guard(c *fiber.Ctx) error {
	if !s.IsLoggedIn(session.FromCtx(c)) {
		return ErrNotLoggedIn
	}

	return nil
}

// RequireLogin is a Fiber middleware that rejects requests without a logged-in user.
func (s *LoginService) RequireLogin(c *fiber.Ctx) error {
	if err := s.Guard(c); err != nil {
		return err
	}

	return c.Next()
}

// LoginRedirectURL returns the login page URL remembering from for the redirect back.
func LoginRedirectURL(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return LoginPath
	}

	return LoginPath + "?from=" + url.QueryEscape(from)
}
