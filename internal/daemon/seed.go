package daemon

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/auth"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/service"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/web/handler"
)

// Seed creates the missing management permissions. If no user exists yet,
// the configured admin is created holding all of them.
func Seed(ctx context.Context, cfg *config.Config, deps *handler.Deps) error {
	ids := make([]uint64, 0, len(auth.Definitions()))

	for _, def := range auth.Definitions() {
		p, err := deps.Permissions.GetByUniquePermission(ctx, def.Key)
		if errors.Is(err, gateway.ErrNotFound) {
			description := def.Description

			p, err = deps.Permissions.Create(ctx, service.PermissionInput{
				UniquePermission: def.Key,
				PermissionName:   def.Name,
				Description:      &description,
			})
			if err == nil {
				log.Info().Str("permission", def.Key).Msg("seeded permission")
			}
		}

		if err != nil {
			return pkgerrors.Wrapf(err, "failed to seed permission %s", def.Key)
		}

		ids = append(ids, p.ID)
	}

	users, err := deps.Users.GetAll(ctx)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to count users")
	}

	if len(users) > 0 {
		return nil
	}

	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		log.Warn().Msg("no users and no initial admin configured, nobody can log in")
		return nil
	}

	admin, err := deps.Users.Create(ctx, service.UserInput{
		Username:      cfg.Admin.Username,
		Password:      cfg.Admin.Password,
		Email:         cfg.Admin.Email,
		PermissionIDs: ids,
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to seed admin user")
	}

	log.Warn().Str("username", admin.Username).Msg("created initial admin user, change its password")

	return nil
}
