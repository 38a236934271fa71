package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/daemon"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/dbtest"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/service"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/webtest"
)

type client struct {
	t      *testing.T
	app    *fiber.App
	cookie string
}

type response struct {
	status  int
	header  http.Header
	body    string
	cookies []*http.Cookie
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(r.body), v), r.body)
}

func (c *client) do(method, target, contentType, body string) response {
	c.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}

	if c.cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: c.cookie})
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	if hasSessionCookie(resp.Cookies()) {
		c.cookie = webtest.CookieValue(resp.Cookies(), session.CookieName)
	}

	return response{status: resp.StatusCode, header: resp.Header, body: string(raw), cookies: resp.Cookies()}
}

func hasSessionCookie(cookies []*http.Cookie) bool {
	for _, ck := range cookies {
		if ck.Name == session.CookieName {
			return true
		}
	}

	return false
}

func (c *client) json(method, target, body string) response {
	c.t.Helper()
	return c.do(method, target, fiber.MIMEApplicationJSON, body)
}

func (c *client) login(username, password string) response {
	c.t.Helper()
	return c.json(fiber.MethodPost, "/api/login", `{"username":"`+username+`","password":"`+password+`"}`)
}

func newTestService(t *testing.T) (*web.Service, *handler.Deps) {
	t.Helper()

	cfg := &config.Config{
		Title:   "GoAccessAdmin",
		Session: config.Session{ExpiryTime: time.Hour},
		Admin:   config.Admin{Username: "admin", Password: "changeme", Email: "admin@example.com"},
	}

	deps := handler.NewDeps(cfg, dbtest.Open(t))
	require.NoError(t, daemon.Seed(context.Background(), cfg, deps))

	s, err := web.New(cfg, deps, webtest.NewStorage())
	require.NoError(t, err)

	return s, deps
}

func newClient(t *testing.T) (*client, *handler.Deps) {
	t.Helper()

	s, deps := newTestService(t)

	return &client{t: t, app: s.App}, deps
}

func TestNewRequiresDeps(t *testing.T) {
	_, err := web.New(nil, nil, nil)
	assert.ErrorIs(t, err, web.ErrNilDeps)
}

func TestShutdown(t *testing.T) {
	s, _ := newTestService(t)

	select {
	case <-s.Stopped():
		t.Fatal("stopped before shutdown")
	default:
	}

	s.Shutdown()

	select {
	case <-s.Stopped():
	case <-time.After(time.Second):
		t.Fatal("shutdown did not complete")
	}

	assert.NotPanics(t, s.Shutdown)
}

func TestInfrastructureRoutes(t *testing.T) {
	c, _ := newClient(t)

	resp := c.do(fiber.MethodGet, web.CheckAlivePath, "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, "OK", resp.body)

	resp = c.do(fiber.MethodGet, web.MetricsPath, "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Contains(t, resp.body, "go_goroutines")

	resp = c.do(fiber.MethodGet, "/static/js/app.js", "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Contains(t, resp.body, "/api/login")
}

func TestNotLoggedIn(t *testing.T) {
	c, _ := newClient(t)

	resp := c.do(fiber.MethodGet, "/api/users?id=1", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
	assert.Equal(t, handler.ContentTypeJSON, resp.header.Get(fiber.HeaderContentType))

	resp = c.do(fiber.MethodGet, "/pages/users", "", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.status)
	assert.Equal(t, "/pages/login?from="+url.QueryEscape("/pages/users"), resp.header.Get(fiber.HeaderLocation))

	resp = c.do(fiber.MethodGet, "/", "", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.status)

	resp = c.do(fiber.MethodGet, "/pages/login?from=%2Fpages%2Fusers", "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Contains(t, resp.body, `data-from="/pages/users"`)
	assert.Contains(t, resp.body, "<title>Login - GoAccessAdmin</title>")
}

func TestLogin(t *testing.T) {
	c, _ := newClient(t)

	resp := c.login("admin", "wrong")
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)

	var body struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
		Causes  []struct {
			Message string `json:"message"`
		} `json:"causes"`
	}
	resp.decode(t, &body)
	assert.Equal(t, "failure to log user in", body.Message)
	assert.Equal(t, fiber.StatusUnauthorized, body.Status)
	assert.NotEmpty(t, body.Causes)
	assert.Empty(t, c.cookie)

	resp = c.json(fiber.MethodPost, "/api/login", `{"username":"admin","password":"changeme","from":"/pages/users"}`)
	require.Equal(t, fiber.StatusOK, resp.status, resp.body)
	assert.JSONEq(t, `{"navigateTo":"/pages/users"}`, resp.body)
	require.NotEmpty(t, c.cookie)

	resp = c.do(fiber.MethodGet, "/", "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Contains(t, resp.body, "Welcome admin")
	assert.Contains(t, resp.body, `href="/pages/permissions"`)

	resp = c.json(fiber.MethodDelete, "/api/login", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.JSONEq(t, `{"navigateTo":"/pages/login"}`, resp.body)
	assert.Empty(t, c.cookie)

	resp = c.do(fiber.MethodGet, "/api/users?id=1", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
}

func TestLoginFromForm(t *testing.T) {
	c, _ := newClient(t)

	resp := c.do(fiber.MethodPost, "/api/login", fiber.MIMEApplicationForm,
		"username=admin&password=changeme&from=https%3A%2F%2Fevil.example")
	require.Equal(t, fiber.StatusOK, resp.status, resp.body)
	assert.JSONEq(t, `{"navigateTo":"/"}`, resp.body)
}

func TestRouting(t *testing.T) {
	c, _ := newClient(t)
	require.Equal(t, fiber.StatusOK, c.login("admin", "changeme").status)

	tests := []struct {
		name    string
		method  string
		target  string
		status  int
		message string
	}{
		{"missing id", fiber.MethodGet, "/api/users", fiber.StatusBadRequest, "parameter [id] not found"},
		{"non numeric id", fiber.MethodGet, "/api/users?id=abc", fiber.StatusBadRequest, "parameter [id] must be numeric"},
		{"unknown id", fiber.MethodGet, "/api/users?id=999", fiber.StatusNotFound, "user id# [999] not found"},
		{"unknown api route", fiber.MethodGet, "/api/bogus", fiber.StatusNotFound, ""},
		{"unsupported verb", fiber.MethodPatch, "/api/users", fiber.StatusNotImplemented, ""},
		{"login does not answer GET", fiber.MethodGet, "/api/login", fiber.StatusNotImplemented, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.do(tt.method, tt.target, "", "")
			assert.Equal(t, tt.status, resp.status, resp.body)
			assert.Equal(t, handler.ContentTypeJSON, resp.header.Get(fiber.HeaderContentType))

			if tt.message != "" {
				var body apperrorBody
				resp.decode(t, &body)
				assert.Equal(t, tt.message, body.Message)
			}
		})
	}
}

type apperrorBody struct {
	Exception string `json:"exception"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
}

type userView struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	Created     string `json:"creationDate"`
	Modified    string `json:"lastModificationDate"`
	Permissions map[string]struct {
		ID               uint64 `json:"id"`
		UniquePermission string `json:"uniquePermission"`
	} `json:"permissions"`
}

func TestUserCRUD(t *testing.T) {
	c, deps := newClient(t)
	require.Equal(t, fiber.StatusOK, c.login("admin", "changeme").status)

	permissions, err := deps.Permissions.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, permissions, 3)

	resp := c.json(fiber.MethodPost, "/api/users",
		`{"username":"jdoe","password":"secret","email":"jdoe@example.com","permissions":[1,2]}`)
	require.Equal(t, fiber.StatusOK, resp.status, resp.body)
	assert.NotContains(t, resp.body, "secret")
	assert.NotContains(t, resp.body, "assword")

	var created userView
	resp.decode(t, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "jdoe", created.Username)
	assert.NotEmpty(t, created.Created)
	assert.Len(t, created.Permissions, 2)

	id := jsonID(created.ID)

	resp = c.json(fiber.MethodPut, "/api/users",
		`{"id":`+id+`,"username":"jdoe","password":"changed","email":"john@example.com","permissions":"3"}`)
	require.Equal(t, fiber.StatusOK, resp.status, resp.body)

	var updated userView
	resp.decode(t, &updated)
	assert.Equal(t, "john@example.com", updated.Email)
	assert.NotEmpty(t, updated.Modified)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, uint64(3), updated.Permissions["3"].ID)

	other := &client{t: t, app: c.app}
	assert.Equal(t, fiber.StatusUnauthorized, other.login("jdoe", "secret").status)
	assert.Equal(t, fiber.StatusOK, other.login("jdoe", "changed").status)

	resp = c.do(fiber.MethodGet, "/api/users?id="+id, "", "")
	require.Equal(t, fiber.StatusOK, resp.status)

	var read userView
	resp.decode(t, &read)
	assert.Equal(t, updated, read)

	resp = c.do(fiber.MethodDelete, "/api/users?id="+id, "", "")
	assert.Equal(t, fiber.StatusNoContent, resp.status)

	resp = c.do(fiber.MethodGet, "/api/users?id="+id, "", "")
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestUserCreateValidation(t *testing.T) {
	c, _ := newClient(t)
	require.Equal(t, fiber.StatusOK, c.login("admin", "changeme").status)

	long := strings.Repeat("x", 65)

	tests := []struct {
		name string
		body string
	}{
		{"missing password", `{"username":"jdoe","email":"jdoe@example.com"}`},
		{"username too long", `{"username":"` + long + `","password":"secret","email":"jdoe@example.com"}`},
		{"bad permission list", `{"username":"jdoe","password":"secret","email":"jdoe@example.com","permissions":"1,x"}`},
		{"broken json", `{"username":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.json(fiber.MethodPost, "/api/users", tt.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.status, resp.body)
		})
	}
}

func TestPermissionFromForm(t *testing.T) {
	c, deps := newClient(t)
	require.Equal(t, fiber.StatusOK, c.login("admin", "changeme").status)

	form := url.Values{
		"unique_permission": {"VIEW_REPORTS"},
		"permission_name":   {"View reports"},
		"description":       {"Read the monthly reports."},
	}

	resp := c.do(fiber.MethodPost, "/api/permissions", fiber.MIMEApplicationForm, form.Encode())
	require.Equal(t, fiber.StatusOK, resp.status, resp.body)

	var created struct {
		ID               uint64 `json:"id"`
		UniquePermission string `json:"uniquePermission"`
		Description      string `json:"description"`
	}
	resp.decode(t, &created)
	assert.Equal(t, "VIEW_REPORTS", created.UniquePermission)
	assert.Equal(t, "Read the monthly reports.", created.Description)

	stored, err := deps.Permissions.GetByUniquePermission(context.Background(), "VIEW_REPORTS")
	require.NoError(t, err)
	assert.Equal(t, created.ID, stored.ID)

	delete(form, "description")
	form.Set("unique_permission", "OTHER")

	resp = c.do(fiber.MethodPost, "/api/permissions", fiber.MIMEApplicationForm, form.Encode())
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Contains(t, resp.body, "parameter [description] not found")
}

func TestUserGroupCRUD(t *testing.T) {
	c, _ := newClient(t)
	require.Equal(t, fiber.StatusOK, c.login("admin", "changeme").status)

	resp := c.json(fiber.MethodPost, "/api/userGroups", `{"group_name":"ops","permissions":"1,3"}`)
	require.Equal(t, fiber.StatusOK, resp.status, resp.body)

	var created struct {
		ID          uint64  `json:"id"`
		GroupName   string  `json:"groupName"`
		Description *string `json:"description"`
		Permissions map[string]struct {
			ID uint64 `json:"id"`
		} `json:"permissions"`
	}
	resp.decode(t, &created)
	assert.Equal(t, "ops", created.GroupName)
	assert.Nil(t, created.Description)
	assert.Len(t, created.Permissions, 2)

	id := jsonID(created.ID)

	resp = c.json(fiber.MethodPut, "/api/userGroups", `{"id":"`+id+`","group_name":"operations","permissions":[]}`)
	require.Equal(t, fiber.StatusOK, resp.status, resp.body)
	resp.decode(t, &created)
	assert.Equal(t, "operations", created.GroupName)
	assert.Empty(t, created.Permissions)

	resp = c.do(fiber.MethodDelete, "/api/userGroups?id="+id, "", "")
	assert.Equal(t, fiber.StatusNoContent, resp.status)
}

func TestForbidden(t *testing.T) {
	c, deps := newClient(t)

	_, err := deps.Users.Create(context.Background(), service.UserInput{
		Username: "viewer",
		Password: "secret",
		Email:    "viewer@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, c.login("viewer", "secret").status)

	resp := c.do(fiber.MethodGet, "/api/users?id=1", "", "")
	assert.Equal(t, fiber.StatusForbidden, resp.status)

	var body apperrorBody
	resp.decode(t, &body)
	assert.Equal(t, fiber.StatusForbidden, body.Status)

	resp = c.do(fiber.MethodGet, "/pages/users", "", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.status)
	assert.Equal(t, handler.AccessDeniedPath, resp.header.Get(fiber.HeaderLocation))

	resp = c.do(fiber.MethodGet, handler.AccessDeniedPath, "", "")
	assert.Equal(t, fiber.StatusForbidden, resp.status)
	assert.Contains(t, resp.body, "Access denied")

	resp = c.do(fiber.MethodGet, "/", "", "")
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.NotContains(t, resp.body, `href="/pages/users"`)
}

func TestManagementPages(t *testing.T) {
	c, _ := newClient(t)
	require.Equal(t, fiber.StatusOK, c.login("admin", "changeme").status)

	tests := []struct {
		path string
		want []string
	}{
		{"/pages/users", []string{"<td>admin</td>", "MANAGE_USERS", `data-entity="/api/users"`}},
		{"/pages/permissions", []string{"MANAGE_PERMISSIONS", "Create, edit and delete user accounts.", `name="unique_permission"`, `name="permission_name"`}},
		{"/pages/usergroups", []string{`data-entity="/api/userGroups"`, `name="group_name"`, "MANAGE_USERGROUPS"}},
		{"/index.php", []string{"Welcome admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := c.do(fiber.MethodGet, tt.path, "", "")
			require.Equal(t, fiber.StatusOK, resp.status, resp.body)

			for _, w := range tt.want {
				assert.Contains(t, resp.body, w)
			}
		})
	}
}

func TestAPISurface(t *testing.T) {
	c, deps := newClient(t)
	require.Equal(t, fiber.StatusOK, c.login("admin", "changeme").status)

	ctx := context.Background()

	description := "Read the monthly reports."
	p, err := deps.Permissions.Create(ctx, service.PermissionInput{
		UniquePermission: "VIEW_REPORTS", PermissionName: "View reports", Description: &description,
	})
	require.NoError(t, err)

	u, err := deps.Users.Create(ctx, service.UserInput{Username: "jdoe", Password: "secret", Email: "jdoe@example.com"})
	require.NoError(t, err)

	g, err := deps.UserGroups.Create(ctx, service.UserGroupInput{GroupName: "ops"})
	require.NoError(t, err)

	pid, uid, gid := jsonID(p.ID), jsonID(u.ID), jsonID(g.ID)

	tests := []struct {
		name        string
		method      string
		target      string
		contentType string
		body        string
		status      int
		contains    string
	}{
		{
			"users get", fiber.MethodGet, "/api/users?id=" + uid, "", "",
			fiber.StatusOK, `"username":"jdoe"`,
		},
		{
			"users post", fiber.MethodPost, "/api/users", fiber.MIMEApplicationForm,
			"username=amy&password=pw&email=amy%40example.com&permissions=" + pid,
			fiber.StatusOK, `"username":"amy"`,
		},
		{
			"users post without password", fiber.MethodPost, "/api/users", fiber.MIMEApplicationForm,
			"username=bob&email=bob%40example.com",
			fiber.StatusBadRequest, "parameter [password] not found",
		},
		{
			"users put", fiber.MethodPut, "/api/users", fiber.MIMEApplicationForm,
			"id=" + uid + "&username=jdoe&password=new&email=jdoe%40example.org&permissions=" + pid,
			fiber.StatusOK, `"email":"jdoe@example.org"`,
		},
		{
			"users put without password", fiber.MethodPut, "/api/users", fiber.MIMEApplicationForm,
			"id=" + uid + "&username=jdoe&email=jdoe%40example.org",
			fiber.StatusBadRequest, "parameter [password] not found",
		},
		{
			"permissions get", fiber.MethodGet, "/api/permissions?id=" + pid, "", "",
			fiber.StatusOK, `"uniquePermission":"VIEW_REPORTS"`,
		},
		{
			"permissions post form", fiber.MethodPost, "/api/permissions", fiber.MIMEApplicationForm,
			"unique_permission=X_KEY&permission_name=X&description=d",
			fiber.StatusOK, `"uniquePermission":"X_KEY"`,
		},
		{
			"permissions post json", fiber.MethodPost, "/api/permissions", fiber.MIMEApplicationJSON,
			`{"unique_permission":"Y_KEY","permission_name":"Y","description":"d"}`,
			fiber.StatusOK, `"permissionName":"Y"`,
		},
		{
			"permissions put", fiber.MethodPut, "/api/permissions", fiber.MIMEApplicationJSON,
			`{"id":` + pid + `,"unique_permission":"VIEW_REPORTS","permission_name":"View all reports","description":"d"}`,
			fiber.StatusOK, `"permissionName":"View all reports"`,
		},
		{
			"permissions post with response field names", fiber.MethodPost, "/api/permissions", fiber.MIMEApplicationForm,
			"uniquePermission=Z_KEY&permissionName=Z&description=d",
			fiber.StatusBadRequest, "parameter [unique_permission] not found",
		},
		{
			"user groups get", fiber.MethodGet, "/api/userGroups?id=" + gid, "", "",
			fiber.StatusOK, `"groupName":"ops"`,
		},
		{
			"user groups post", fiber.MethodPost, "/api/userGroups", fiber.MIMEApplicationForm,
			"group_name=g",
			fiber.StatusOK, `"groupName":"g"`,
		},
		{
			"user groups put", fiber.MethodPut, "/api/userGroups", fiber.MIMEApplicationForm,
			"id=" + gid + "&group_name=operators&permissions=" + pid,
			fiber.StatusOK, `"groupName":"operators"`,
		},
		{
			"user groups put without name", fiber.MethodPut, "/api/userGroups", fiber.MIMEApplicationForm,
			"id=" + gid,
			fiber.StatusBadRequest, "parameter [group_name] not found",
		},
		{
			"user groups path is case sensitive", fiber.MethodPost, "/api/usergroups", fiber.MIMEApplicationForm,
			"group_name=h",
			fiber.StatusNotFound, "",
		},
		{
			"login put", fiber.MethodPut, "/api/login", "", "",
			fiber.StatusNotImplemented, "",
		},
		{
			"users delete", fiber.MethodDelete, "/api/users", fiber.MIMEApplicationForm,
			"id=" + uid,
			fiber.StatusNoContent, "",
		},
		{
			"permissions delete", fiber.MethodDelete, "/api/permissions", fiber.MIMEApplicationForm,
			"id=" + pid,
			fiber.StatusNoContent, "",
		},
		{
			"user groups delete", fiber.MethodDelete, "/api/userGroups", fiber.MIMEApplicationForm,
			"id=" + gid,
			fiber.StatusNoContent, "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.do(tt.method, tt.target, tt.contentType, tt.body)
			assert.Equal(t, tt.status, resp.status, resp.body)

			if tt.contains != "" {
				assert.Contains(t, resp.body, tt.contains)
			}
		})
	}

	other := &client{t: t, app: c.app}
	assert.Equal(t, fiber.StatusOK, other.login("amy", "pw").status)
}

func jsonID(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
