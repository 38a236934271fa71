// Package permission provides persistence for permissions and the reverse
// traversal to the users and groups holding them.
package permission

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// ErrUniquePermissionEmpty is returned when looking up an empty permission key.
var ErrUniquePermissionEmpty = errors.New("unique permission cannot be empty")

// Gateway is the permissions table gateway.
type Gateway struct {
	gateway.Gateway[models.Permission, *models.Permission]
	users  gateway.Associations[models.UserPermission]
	groups gateway.Associations[models.UserGroupPermission]
}

// New returns a permissions gateway on db.
func New(db *gorm.DB) Gateway {
	return Gateway{
		Gateway: gateway.New[models.Permission](db),
		users:   gateway.NewAssociations[models.UserPermission](db),
		groups:  gateway.NewAssociations[models.UserGroupPermission](db),
	}
}

// WithTx returns a copy of the gateway bound to the transaction tx.
func (g Gateway) WithTx(tx *gorm.DB) Gateway {
	return Gateway{
		Gateway: g.Gateway.WithTx(tx),
		users:   g.users.WithTx(tx),
		groups:  g.groups.WithTx(tx),
	}
}

// UserAssociations returns the user_permissions association gateway.
func (g Gateway) UserAssociations() gateway.Associations[models.UserPermission] {
	return g.users
}

// GroupAssociations returns the user_group_permissions association gateway.
func (g Gateway) GroupAssociations() gateway.Associations[models.UserGroupPermission] {
	return g.groups
}

// GetByUniquePermission retrieves a permission by its authorization key.
func (g Gateway) GetByUniquePermission(ctx context.Context, key string) (*models.Permission, error) {
	if key == "" {
		return nil, ErrUniquePermissionEmpty
	}

	db, err := g.Session(ctx)
	if err != nil {
		return nil, err
	}

	var p models.Permission

	result := db.Where("unique_permission = ?", key).Take(&p)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, gateway.ErrNotFound
		}

		return nil, pkgerrors.Wrapf(result.Error, "failed to read permission [%s]", key)
	}

	if err = p.CheckStored(); err != nil {
		return nil, err
	}

	return &p, nil
}

// GetUsersByPermissionID returns the users holding the permission directly.
func (g Gateway) GetUsersByPermissionID(ctx context.Context, permissionID uint64) ([]models.User, error) {
	ids, err := g.users.GetOwnerIDs(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	return loadByIDs[models.User](ctx, g.DB(), ids)
}

// GetUserGroupsByPermissionID returns the groups holding the permission.
func (g Gateway) GetUserGroupsByPermissionID(ctx context.Context, permissionID uint64) ([]models.UserGroup, error) {
	ids, err := g.groups.GetOwnerIDs(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	return loadByIDs[models.UserGroup](ctx, g.DB(), ids)
}

func loadByIDs[T any, PT gateway.EntityPtr[T]](ctx context.Context, db *gorm.DB, ids []uint64) ([]T, error) {
	rows := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return rows, nil
	}

	if err := db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read permission holders")
	}

	for i := range rows {
		if err := PT(&rows[i]).CheckStored(); err != nil {
			return nil, err
		}
	}

	return rows, nil
}
