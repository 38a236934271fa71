package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
)

// PermissionLoader reads the permissions granted to a user.
type PermissionLoader interface {
	GetPermissionsByUserID(ctx context.Context, userID uint64) ([]models.Permission, error)
}

// PermissionCheckService authorizes the session user against permission keys.
type PermissionCheckService struct {
	loader PermissionLoader
}

// NewPermissionCheckService creates a permission check service.
func NewPermissionCheckService(loader PermissionLoader) *PermissionCheckService {
	return &PermissionCheckService{loader: loader}
}

// Permissions returns the session user's permissions, loading them on first access in the request.
func (s *PermissionCheckService) Permissions(ctx context.Context, sess *session.Context) ([]models.Permission, error) {
	u := sess.User()
	if u == nil || u.ID == 0 {
		return nil, nil
	}

	if permissions, loaded := sess.Permissions(); loaded {
		return permissions, nil
	}

	permissions, err := s.loader.GetPermissionsByUserID(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	sess.SetPermissions(permissions)

	return permissions, nil
}

// HasPermission reports whether the session user holds the permission key.
func (s *PermissionCheckService) HasPermission(ctx context.Context, sess *session.Context, key string) (bool, error) {
	permissions, err := s.Permissions(ctx, sess)
	if err != nil {
		return false, err
	}

	for _, p := range permissions {
		if p.UniquePermission == key {
			return true, nil
		}
	}

	return false, nil
}

// CheckPermission returns ErrForbidden unless the session user holds the permission key.
func (s *PermissionCheckService) CheckPermission(ctx context.Context, sess *session.Context, key string) error {
	ok, err := s.HasPermission(ctx, sess, key)
	if err != nil {
		return err
	}

	if !ok {
		var userID uint64
		if u := sess.User(); u != nil {
			userID = u.ID
		}

		log.Warn().Uint64("user_id", userID).Str("permission", key).Msg("user lacks required permission")

		return ErrForbidden
	}

	return nil
}

// Guard returns a check of the permission key against the request's session user.
func (s *PermissionCheckService) Guard(key string) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		return s.CheckPermission(c.UserContext(), session.FromCtx(c), key)
	}
}

// RequirePermission creates Fiber middleware that requires a specific permission.
func (s *PermissionCheckService) RequirePermission(key string) fiber.Handler {
	guard := s.Guard(key)

	return func(c *fiber.Ctx) error {
		if err := guard(c); err != nil {
			return err
		}

		return c.Next()
	}
}
