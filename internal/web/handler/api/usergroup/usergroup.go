// Package usergroup provides the JSON API for user groups.
package usergroup

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

// Path is the API path of user groups.
const Path = handler.APIPrefix + "/userGroups"

type idInput struct {
	ID handler.Param `json:"id" form:"id" query:"id" validate:"required,numeric"`
}

type createInput struct {
	GroupName   handler.Param `json:"group_name"  form:"group_name"  query:"group_name"  validate:"required"`
	Description handler.Param `json:"description" form:"description" query:"description"`
	Permissions handler.Param `json:"permissions" form:"permissions" query:"permissions"`
}

type updateInput struct {
	ID          handler.Param `json:"id"          form:"id"          query:"id"          validate:"required,numeric"`
	GroupName   handler.Param `json:"group_name"  form:"group_name"  query:"group_name"  validate:"required"`
	Description handler.Param `json:"description" form:"description" query:"description"`
	Permissions handler.Param `json:"permissions" form:"permissions" query:"permissions"`
}

// Service is the user groups API controller.
type Service struct {
	groups *service.UserGroups
}

// Init registers the controller, gated by MANAGE_USERGROUPS.
func (s *Service) Init(table *router.Table, deps *handler.Deps) error {
	if table == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.groups = deps.UserGroups

	table.Add(router.APIRoute(Path, s, deps.Logins.Guard, deps.Checks.Guard(auth.PermManageUserGroups)))

	return nil
}

// Get answers the group with its permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	var in idInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	g, err := s.groups.GetByID(c.UserContext(), id)
	if errors.Is(err, gateway.ErrNotFound) {
		return apperror.NotFound("user group id# [%d] not found", id).WithCause(err)
	}

	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, g.View())
}

// Post creates a group.
func (s *Service) Post(c *fiber.Ctx) error {
	var in createInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	permissions, err := handler.ParseIDList("permissions", in.Permissions)
	if err != nil {
		return err
	}

	g, err := s.groups.Create(c.UserContext(), service.UserGroupInput{
		GroupName:     in.GroupName.String(),
		Description:   in.Description.Optional(),
		PermissionIDs: permissions,
	})
	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, g.View())
}

// Put replaces the group's fields and permissions.
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

	g, err := s.groups.Update(c.UserContext(), id, service.UserGroupInput{
		GroupName:     in.GroupName.String(),
		Description:   in.Description.Optional(),
		PermissionIDs: permissions,
	})
	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, g.View())
}

// Delete removes the group.
func (s *Service) Delete(c *fiber.Ctx) error {
	var in idInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	if err = s.groups.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
