// Package user provides the JSON API for user accounts.
package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/auth"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/service"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/router"
)

// Path is the API path of users.
const Path = handler.APIPrefix + "/users"

type idInput struct {
	ID handler.Param `json:"id" form:"id" query:"id" validate:"required,numeric"`
}

type createInput struct {
	Username    handler.Param `json:"username"    form:"username"    query:"username"    validate:"required"`
	Password    handler.Param `json:"password"    form:"password"    query:"password"    validate:"required"`
	Email       handler.Param `json:"email"       form:"email"       query:"email"       validate:"required"`
	Permissions handler.Param `json:"permissions" form:"permissions" query:"permissions"`
}

type updateInput struct {
	ID          handler.Param `json:"id"          form:"id"          query:"id"          validate:"required,numeric"`
	Username    handler.Param `json:"username"    form:"username"    query:"username"    validate:"required"`
	Password    handler.Param `json:"password"    form:"password"    query:"password"    validate:"required"`
	Email       handler.Param `json:"email"       form:"email"       query:"email"       validate:"required"`
	Permissions handler.Param `json:"permissions" form:"permissions" query:"permissions"`
}

// Service is the users API controller.
type Service struct {
	users *service.Users
}

// Init registers the controller, gated by MANAGE_USERS.
func (s *Service) Init(table *router.Table, deps *handler.Deps) error {
	if table == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.users = deps.Users

	table.Add(router.APIRoute(Path, s, deps.Logins.Guard, deps.Checks.Guard(auth.PermManageUsers)))

	return nil
}

// Get answers the user with its permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	var in idInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	u, err := s.users.GetByID(c.UserContext(), id)
	if errors.Is(err, gateway.ErrNotFound) {
		return apperror.NotFound("user id# [%d] not found", id).WithCause(err)
	}

	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, u.View())
}

// Post creates a user.
func (s *Service) Post(c *fiber.Ctx) error {
	var in createInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	permissions, err := handler.ParseIDList("permissions", in.Permissions)
	if err != nil {
		return err
	}

	u, err := s.users.Create(c.UserContext(), service.UserInput{
		Username:      in.Username.String(),
		Password:      in.Password.String(),
		Email:         in.Email.String(),
		PermissionIDs: permissions,
	})
	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, u.View())
}

// Put replaces the user's fields, password and permissions.
func (s *Service) Put(c *fiber.Ctx) error {
	var in updateInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	permissions, err := handler.ParseIDList("permissions", in.Permissions)
	if err != nil {
		return err
	}

	u, err := s.users.Update(c.UserContext(), id, service.UserInput{
		Username:      in.Username.String(),
		Password:      in.Password.String(),
		Email:         in.Email.String(),
		PermissionIDs: permissions,
	})
	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, u.View())
}

// Delete removes the user.
func (s *Service) Delete(c *fiber.Ctx) error {
	var in idInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	if err = s.users.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
