// Package permission provides the JSON API for permissions.
package permission

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

// Path is the API path of permissions.
const Path = handler.APIPrefix + "/permissions"

type idInput struct {
	ID handler.Param `json:"id" form:"id" query:"id" validate:"required,numeric"`
}

type fieldsInput struct {
	UniquePermission handler.Param `json:"unique_permission" form:"unique_permission" query:"unique_permission" validate:"required"`
	PermissionName   handler.Param `json:"permission_name"   form:"permission_name"   query:"permission_name"   validate:"required"`
	Description      handler.Param `json:"description"       form:"description"       query:"description"       validate:"required"`
}

type updateInput struct {
	ID               handler.Param `json:"id"                form:"id"                query:"id"                validate:"required,numeric"`
	UniquePermission handler.Param `json:"unique_permission" form:"unique_permission" query:"unique_permission" validate:"required"`
	PermissionName   handler.Param `json:"permission_name"   form:"permission_name"   query:"permission_name"   validate:"required"`
	Description      handler.Param `json:"description"       form:"description"       query:"description"       validate:"required"`
}

func (in fieldsInput) toService() service.PermissionInput {
	return service.PermissionInput{
		UniquePermission: in.UniquePermission.String(),
		PermissionName:   in.PermissionName.String(),
		Description:      in.Description.Optional(),
	}
}

// Service is the permissions API controller.
type Service struct {
	permissions *service.Permissions
}

// Init registers the controller, gated by MANAGE_PERMISSIONS.
func (s *Service) Init(table *router.Table, deps *handler.Deps) error {
	if table == nil || !deps.Valid() {
		return errors.New(handler.ErrNilDepsFatalLogMsg)
	}

	s.permissions = deps.Permissions

	table.Add(router.APIRoute(Path, s, deps.Logins.Guard, deps.Checks.Guard(auth.PermManagePermissions)))

	return nil
}

// Get answers one permission.
func (s *Service) Get(c *fiber.Ctx) error {
	var in idInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	p, err := s.permissions.GetByID(c.UserContext(), id)
	if errors.Is(err, gateway.ErrNotFound) {
		return apperror.NotFound("permission id# [%d] not found", id).WithCause(err)
	}

	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, p.View())
}

// Post creates a permission.
func (s *Service) Post(c *fiber.Ctx) error {
	var in fieldsInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	p, err := s.permissions.Create(c.UserContext(), in.toService())
	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, p.View())
}

// Put replaces the permission's fields.
func (s *Service) Put(c *fiber.Ctx) error {
	var in updateInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	p, err := s.permissions.Update(c.UserContext(), id, fieldsInput{
		UniquePermission: in.UniquePermission,
		PermissionName:   in.PermissionName,
		Description:      in.Description,
	}.toService())
	if err != nil {
		return err
	}

	return handler.JSON(c, fiber.StatusOK, p.View())
}

// Delete removes the permission and every grant of it.
func (s *Service) Delete(c *fiber.Ctx) error {
	var in idInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	id, err := handler.ParseID(in.ID)
	if err != nil {
		return err
	}

	if err = s.permissions.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return handler.NoContent(c)
}
