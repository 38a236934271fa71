// Package login provides the JSON API to log in and out.
package login

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/auth"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/router"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
)

// Path is the API path of the login resource.
const Path = handler.APIPrefix + "/login"

type loginInput struct {
	Username handler.Param `json:"username" form:"username" query:"username" validate:"required"`
	Password handler.Param `json:"password" form:"password" query:"password" validate:"required"`
	From     handler.Param `json:"from"     form:"from"     query:"from"`
}

type logoutInput struct {
	From handler.Param `json:"from" form:"from" query:"from"`
}

// navigation is the answer telling the client where to go next.
type navigation struct {
	NavigateTo string `json:"navigateTo"`
}

// Service is the login API controller. GET and PUT are not supported.
type Service struct {
	router.Unsupported
	logins *auth.LoginService
}

// Init registers the controller.
func (s *Service) Init(table *router.Table, deps *handler.Deps) error {
	if table == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.logins = deps.Logins

	table.Add(router.APIRoute(Path, s))

	return nil
}

// Post logs the user in.
func (s *Service) Post(c *fiber.Ctx) error {
	var in loginInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	err := s.logins.Login(c.UserContext(), session.FromCtx(c), in.Username.String(), in.Password.String())
	if err != nil {
		return apperror.NewRequest(http.StatusUnauthorized, "failure to log user in").WithCause(err)
	}

	return handler.JSON(c, fiber.StatusOK, navigation{NavigateTo: localPath(in.From.String(), handler.RootPath)})
}

// Delete logs the user out.
func (s *Service) Delete(c *fiber.Ctx) error {
	var in logoutInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	s.logins.Logout(session.FromCtx(c))

	return handler.JSON(c, fiber.StatusOK, navigation{NavigateTo: localPath(in.From.String(), auth.LoginPath)})
}

// localPath returns from when it is a path on this site, fallback otherwise.
func localPath(from, fallback string) string {
	if !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return fallback
	}

	return from
}
