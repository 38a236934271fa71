package router

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/webtest"
)

// getOnly implements GET and leaves the other verbs unsupported.
type getOnly struct {
	Unsupported
	name string
}

func (g getOnly) Get(c *fiber.Ctx) error {
	return c.SendString(g.name)
}

func newTestApp(table *Table) *fiber.App {
	app := fiber.New(fiber.Config{
		Views: webtest.NoOpViews{},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(apperror.StatusCode(err)).SendString(err.Error())
		},
	})
	app.Use(table.Dispatch)

	return app
}

func call(t *testing.T, app *fiber.App, method, path string) (int, string) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestMatch(t *testing.T) {
	table := New().Add(
		APIRoute("/api", getOnly{name: "api"}),
		APIRoute("/api/users", getOnly{name: "users"}),
		APIRoute("/api/users/", getOnly{name: "users-duplicate"}),
		PageRoute("/", "home"),
		CallableRoute("/pages/users", func(c *fiber.Ctx) error { return nil }),
	)

	testCases := []struct {
		path     string
		expected string
	}{
		{path: "/api/users", expected: "/api/users"},
		{path: "/api/users/", expected: "/api/users"},
		{path: "/api/users/12", expected: "/api/users"},
		{path: "/api/usersx", expected: "/api"},
		{path: "/api/other", expected: "/api"},
		{path: "/", expected: "/"},
		{path: "/pages/users", expected: "/pages/users"},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			r, err := table.Match(tc.path)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r.Path)
		})
	}

	// equal length prefixes resolve to the first binding
	r, err := table.Match("/api/users/3")
	require.NoError(t, err)
	assert.Equal(t, "users", r.Controller.(getOnly).name)

	_, err = table.Match("/pages/users/3")

	var re *apperror.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
}

func TestDispatch(t *testing.T) {
	guardErr := apperror.NewRequest(http.StatusForbidden, "guarded")

	table := New().Add(
		APIRoute("/api/users", getOnly{name: "users"}),
		APIRoute("/api/secret", getOnly{name: "secret"}, func(*fiber.Ctx) error { return guardErr }),
		PageRoute("/", "home"),
		CallableRoute("/pages/login", func(c *fiber.Ctx) error { return c.SendString("login page") }),
	)
	app := newTestApp(table)

	status, body := call(t, app, http.MethodGet, "/api/users")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "users", body)

	status, _ = call(t, app, http.MethodPost, "/api/users")
	assert.Equal(t, http.StatusNotImplemented, status)

	status, _ = call(t, app, http.MethodPatch, "/api/users")
	assert.Equal(t, http.StatusNotImplemented, status)

	status, _ = call(t, app, http.MethodGet, "/api/bogus")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = call(t, app, http.MethodGet, "/api/secret")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "guarded", body)

	status, body = call(t, app, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "home", body)

	status, body = call(t, app, http.MethodGet, "/pages/login")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "login page", body)
}

func TestUnsupported(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var re *apperror.RequestError
			if errors.As(err, &re) {
				return c.SendStatus(re.Status)
			}

			return c.SendStatus(http.StatusInternalServerError)
		},
	})
	app.Use(New().Add(APIRoute("/api/nothing", Unsupported{})).Dispatch)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		status, _ := call(t, app, method, "/api/nothing")
		assert.Equal(t, http.StatusNotImplemented, status, method)
	}
}
