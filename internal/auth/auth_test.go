package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/dbtest"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/service"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
)

// countingLoader returns fixed permissions and counts the loads.
type countingLoader struct {
	permissions []models.Permission
	err         error
	calls       int
}

func (l *countingLoader) GetPermissionsByUserID(_ context.Context, _ uint64) ([]models.Permission, error) {
	l.calls++
	return l.permissions, l.err
}

func loggedIn(id uint64) *session.Context {
	sess := session.NewContext("", session.Data{})
	sess.SetUser(models.User{ID: id, Username: "alice"})

	return sess
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := service.NewUsers(dbtest.Open(t))

	_, err := users.Create(ctx, service.UserInput{Username: "alice", Password: "correct", Email: "a@example.org"})
	require.NoError(t, err)

	logins := NewLoginService(users)

	t.Run("valid credentials", func(t *testing.T) {
		sess := session.NewContext("", session.Data{})

		require.NoError(t, logins.Login(ctx, sess, "alice", "correct"))
		assert.True(t, logins.IsLoggedIn(sess))
		assert.Equal(t, "alice", sess.User().Username)
		assert.Empty(t, sess.User().PasswordHash)
		assert.False(t, sess.User().PermissionsLoaded())
	})

	t.Run("wrong password", func(t *testing.T) {
		sess := session.NewContext("", session.Data{})

		err := logins.Login(ctx, sess, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.False(t, logins.IsLoggedIn(sess))
		assert.False(t, sess.Modified())
	})

	t.Run("unknown user", func(t *testing.T) {
		sess := session.NewContext("", session.Data{})

		err := logins.Login(ctx, sess, "ghost", "anything")
		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.False(t, logins.IsLoggedIn(sess))
	})

	t.Run("logout", func(t *testing.T) {
		sess := loggedIn(1)

		logins.Logout(sess)
		assert.False(t, logins.IsLoggedIn(sess))
	})
}

func TestLoginRedirectURL(t *testing.T) {
	assert.Equal(t, "/pages/login?from=%2Fpages%2Fusers", LoginRedirectURL("/pages/users"))
	assert.Equal(t, "/pages/login", LoginRedirectURL(""))
	assert.Equal(t, "/pages/login", LoginRedirectURL("//evil.example.org"))
	assert.Equal(t, "/pages/login", LoginRedirectURL("https://evil.example.org"))
}

func TestCheckPermission(t *testing.T) {
	ctx := context.Background()
	loader := &countingLoader{permissions: []models.Permission{{ID: 1, UniquePermission: PermManageUsers}}}
	checks := NewPermissionCheckService(loader)

	sess := loggedIn(1)

	require.NoError(t, checks.CheckPermission(ctx, sess, PermManageUsers))
	assert.ErrorIs(t, checks.CheckPermission(ctx, sess, PermManagePermissions), ErrForbidden)
	assert.ErrorIs(t, checks.CheckPermission(ctx, sess, "manage_users"), ErrForbidden)
	assert.Equal(t, 1, loader.calls, "permissions are loaded once per request")

	anonymous := session.NewContext("", session.Data{})
	assert.ErrorIs(t, checks.CheckPermission(ctx, anonymous, PermManageUsers), ErrForbidden)
	assert.Equal(t, 1, loader.calls)
}

func TestCheckPermissionLoadFailure(t *testing.T) {
	loadErr := errors.New("db down")
	checks := NewPermissionCheckService(&countingLoader{err: loadErr})

	err := checks.CheckPermission(context.Background(), loggedIn(1), PermManageUsers)
	require.ErrorIs(t, err, loadErr)
	assert.NotErrorIs(t, err, ErrForbidden)
}

func TestCheckPermissionWithStore(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	permissions := service.NewPermissions(db)
	users := service.NewUsers(db)

	p, err := permissions.Create(ctx, service.PermissionInput{UniquePermission: PermManageUsers, PermissionName: "Manage users"})
	require.NoError(t, err)

	alice, err := users.Create(ctx, service.UserInput{
		Username: "alice", Password: "pw", Email: "a@example.org", PermissionIDs: []uint64{p.ID},
	})
	require.NoError(t, err)

	bob, err := users.Create(ctx, service.UserInput{Username: "bob", Password: "pw", Email: "b@example.org"})
	require.NoError(t, err)

	checks := NewPermissionCheckService(users)

	assert.NoError(t, checks.CheckPermission(ctx, loggedIn(alice.ID), PermManageUsers))
	assert.ErrorIs(t, checks.CheckPermission(ctx, loggedIn(bob.ID), PermManageUsers), ErrForbidden)
}

func TestMiddleware(t *testing.T) {
	loader := &countingLoader{permissions: []models.Permission{{ID: 1, UniquePermission: PermManageUsers}}}
	checks := NewPermissionCheckService(loader)
	logins := NewLoginService(nil)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, ErrNotLoggedIn):
				return c.SendStatus(fiber.StatusUnauthorized)
			case errors.Is(err, ErrForbidden):
				return c.SendStatus(fiber.StatusForbidden)
			default:
				return c.SendStatus(fiber.StatusInternalServerError)
			}
		},
	})

	var user *models.User

	app.Use(func(c *fiber.Ctx) error {
		session.Attach(c, session.NewContext("", session.Data{User: user}))

		return c.Next()
	})

	ok := func(c *fiber.Ctx) error { return c.SendString("ok") }
	app.Get("/users", logins.RequireLogin, checks.RequirePermission(PermManageUsers), ok)
	app.Get("/groups", logins.RequireLogin, checks.RequirePermission(PermManageUserGroups), ok)

	status := func(path string) int {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)

		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, status("/users"))

	user = &models.User{ID: 1, Username: "alice"}

	assert.Equal(t, fiber.StatusOK, status("/users"))
	assert.Equal(t, fiber.StatusForbidden, status("/groups"))
}
