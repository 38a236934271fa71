package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/session"
)

// AddPermissionsToLocals is a Fiber middleware that adds the current user and a
// permission predicate to fiber.Locals for template rendering.
func AddPermissionsToLocals(checks *PermissionCheckService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := session.FromCtx(c)

		u := sess.User()
		if u == nil {
			return c.Next()
		}

		c.Locals("CurrentUser", *u)
		c.Locals("hasPermission", func(key string) bool {
			ok, err := checks.HasPermission(c.UserContext(), sess, key)
			if err != nil {
				log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to check permission")
				return false
			}

			return ok
		})

		return c.Next()
	}
}
