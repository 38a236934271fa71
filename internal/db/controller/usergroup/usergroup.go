// Package usergroup provides persistence for user groups and their permissions.
package usergroup

import (
	"context"

	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// Gateway is the user_groups table gateway.
type Gateway struct {
	gateway.Gateway[models.UserGroup, *models.UserGroup]
	permissions gateway.Associations[models.UserGroupPermission]
}

// New returns a user groups gateway on db.
func New(db *gorm.DB) Gateway {
	return Gateway{
		Gateway:     gateway.New[models.UserGroup](db),
		permissions: gateway.NewAssociations[models.UserGroupPermission](db),
	}
}

// WithTx returns a copy of the gateway bound to the transaction tx.
func (g Gateway) WithTx(tx *gorm.DB) Gateway {
	return Gateway{
		Gateway:     g.Gateway.WithTx(tx),
		permissions: g.permissions.WithTx(tx),
	}
}

// Permissions returns the user_group_permissions association gateway.
func (g Gateway) Permissions() gateway.Associations[models.UserGroupPermission] {
	return g.permissions
}

// GetPermissionsByUserGroupID returns the permissions granted to the group.
func (g Gateway) GetPermissionsByUserGroupID(ctx context.Context, groupID uint64) ([]models.Permission, error) {
	return g.permissions.GetPermissions(ctx, groupID)
}
