// Package page registers the HTML pages of the panel.
package page

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/auth"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/navigation"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/router"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
)

const (
	// LoginPath is the login page.
	LoginPath = auth.LoginPath
	// UsersPath is the user management page.
	UsersPath = "/pages/users"
	// PermissionsPath is the permission management page.
	PermissionsPath = "/pages/permissions"
	// UserGroupsPath is the user group management page.
	UserGroupsPath = "/pages/usergroups"
	// AccessDeniedPath is shown when a permission is missing.
	AccessDeniedPath = handler.AccessDeniedPath

	// TemplateHome is the landing page template.
	TemplateHome = "home"
	// TemplateLogin is the login form template.
	TemplateLogin = "login"
	// TemplateUsers lists users.
	TemplateUsers = "users"
	// TemplatePermissions lists permissions.
	TemplatePermissions = "permissions"
	// TemplateUserGroups lists user groups.
	TemplateUserGroups = "usergroups"
	// TemplateAccessDenied is the access denied page.
	TemplateAccessDenied = "access_denied"
)

// Service renders the pages.
type Service struct {
	deps *handler.Deps
}

// Init registers the page routes. Management pages require login and their permission.
func (s *Service) Init(table *router.Table, deps *handler.Deps) error {
	if table == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.deps = deps

	table.WithPageData(s.data)

	table.Add(
		router.PageRoute(handler.RootPath, TemplateHome, deps.Logins.Guard),
		router.PageRoute("/index.php", TemplateHome, deps.Logins.Guard),
		router.CallableRoute(LoginPath, s.Login),
		router.CallableRoute(UsersPath, s.Users,
			deps.Logins.Guard, deps.Checks.Guard(auth.PermManageUsers)),
		router.CallableRoute(PermissionsPath, s.Permissions,
			deps.Logins.Guard, deps.Checks.Guard(auth.PermManagePermissions)),
		router.CallableRoute(UserGroupsPath, s.UserGroups,
			deps.Logins.Guard, deps.Checks.Guard(auth.PermManageUserGroups)),
		router.CallableRoute(AccessDeniedPath, s.AccessDenied),
	)

	return nil
}

// data returns the bind data shared by all pages.
func (s *Service) data(c *fiber.Ctx) fiber.Map {
	return fiber.Map{
		"Title":      s.deps.Cfg.Title,
		"Navigation": navigation.ForPage("Home", navigation.SectionHome),
		"LoggedIn":   session.FromCtx(c).User() != nil,
	}
}

func (s *Service) render(c *fiber.Ctx, template string, nav *navigation.Context, data fiber.Map) error {
	bind := s.data(c)
	bind["Navigation"] = nav

	for k, v := range data {
		bind[k] = v
	}

	return c.Render(template, bind, handler.BaseLayout)
}

// Login renders the login form. The form posts to the login API and follows its answer.
func (s *Service) Login(c *fiber.Ctx) error {
	return s.render(c, TemplateLogin, navigation.ForPage("Login", navigation.SectionLogin), fiber.Map{
		"From": c.Query("from"),
	})
}

// Users lists the users and the permissions that can be granted.
func (s *Service) Users(c *fiber.Ctx) error {
	ctx := c.UserContext()

	users, err := s.deps.Users.GetAll(ctx)
	if err != nil {
		return err
	}

	permissions, err := s.deps.Permissions.GetAll(ctx)
	if err != nil {
		return err
	}

	return s.render(c, TemplateUsers, navigation.ForPage("Users", navigation.SectionUsers), fiber.Map{
		"Users":       users,
		"Permissions": permissions,
	})
}

// Permissions lists the permissions.
func (s *Service) Permissions(c *fiber.Ctx) error {
	permissions, err := s.deps.Permissions.GetAll(c.UserContext())
	if err != nil {
		return err
	}

	return s.render(c, TemplatePermissions, navigation.ForPage("Permissions", navigation.SectionPermissions), fiber.Map{
		"Permissions": permissions,
	})
}

// UserGroups lists the user groups and the permissions that can be granted.
func (s *Service) UserGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()

	groups, err := s.deps.UserGroups.GetAll(ctx)
	if err != nil {
		return err
	}

	permissions, err := s.deps.Permissions.GetAll(ctx)
	if err != nil {
		return err
	}

	return s.render(c, TemplateUserGroups, navigation.ForPage("User groups", navigation.SectionUserGroups), fiber.Map{
		"UserGroups":  groups,
		"Permissions": permissions,
	})
}

// AccessDenied renders the access denied page with status 403.
func (s *Service) AccessDenied(c *fiber.Ctx) error {
	c.Status(fiber.StatusForbidden)

	return s.render(c, TemplateAccessDenied, navigation.ForPage("Access denied", navigation.SectionHome), nil)
}
