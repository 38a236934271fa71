// Package user provides persistence for user accounts and their direct permissions.
package user

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// ErrUsernameEmpty is returned when looking up an empty username.
var ErrUsernameEmpty = errors.New("username cannot be empty")

// Gateway is the users table gateway.
type Gateway struct {
	gateway.Gateway[models.User, *models.User]
	permissions gateway.Associations[models.UserPermission]
}

// New returns a users gateway on db.
func New(db *gorm.DB) Gateway {
	return Gateway{
		Gateway:     gateway.New[models.User](db),
		permissions: gateway.NewAssociations[models.UserPermission](db),
	}
}

// WithTx returns a copy of the gateway bound to the transaction tx.
func (g Gateway) WithTx(tx *gorm.DB) Gateway {
	return Gateway{
		Gateway:     g.Gateway.WithTx(tx),
		permissions: g.permissions.WithTx(tx),
	}
}

// Permissions returns the user_permissions association gateway.
func (g Gateway) Permissions() gateway.Associations[models.UserPermission] {
	return g.permissions
}

// GetByUsername retrieves a user by its unique username.
func (g Gateway) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	db, err := g.Session(ctx)
	if err != nil {
		return nil, err
	}

	var u models.User

	result := db.Where("username = ?", username).Take(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gateway.ErrNotFound
		}

		return nil, pkgerrors.Wrapf(result.Error, "failed to read user [%s]", username)
	}

	if err = u.CheckStored(); err != nil {
		return nil, err
	}

	return &u, nil
}

// GetPermissionsByUserID returns the permissions granted directly to the user.
func (g Gateway) GetPermissionsByUserID(ctx context.Context, userID uint64) ([]models.Permission, error) {
	return g.permissions.GetPermissions(ctx, userID)
}
