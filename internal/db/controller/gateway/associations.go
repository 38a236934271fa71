package gateway

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// Associations manages one owner to permission join table.
type Associations[R models.Association[R]] struct {
	db *gorm.DB
}

// NewAssociations returns an association gateway on db.
func NewAssociations[R models.Association[R]](db *gorm.DB) Associations[R] {
	return Associations[R]{db: db}
}

// WithTx returns a copy bound to the transaction tx.
func (a Associations[R]) WithTx(tx *gorm.DB) Associations[R] {
	a.db = tx
	return a
}

func (a Associations[R]) session(ctx context.Context) (*gorm.DB, error) {
	if a.db == nil {
		return nil, ErrDBNil
	}

	return a.db.WithContext(ctx), nil
}

func (a Associations[R]) meta() (table, ownerColumn string) {
	var zero R
	return zero.TableName(), zero.OwnerColumn()
}

// CreateForOwnerAndPermission inserts one association row.
func (a Associations[R]) CreateForOwnerAndPermission(ctx context.Context, ownerID, permissionID uint64) error {
	db, err := a.session(ctx)
	if err != nil {
		return err
	}

	var zero R

	row := zero.ForOwner(ownerID, permissionID)
	if err = db.Create(&row).Error; err != nil {
		table, _ := a.meta()
		return pkgerrors.Wrapf(err, "failed to insert into %s owner id# [%d] permission id# [%d]",
			table, ownerID, permissionID)
	}

	return nil
}

// CreateManyForOwner inserts one row per permission id with a single statement.
// An empty set is a no-op. Ids are inserted as given, duplicates fail on the primary key.
func (a Associations[R]) CreateManyForOwner(ctx context.Context, ownerID uint64, permissionIDs []uint64) error {
	if len(permissionIDs) == 0 {
		return nil
	}

	db, err := a.session(ctx)
	if err != nil {
		return err
	}

	var zero R

	rows := make([]R, 0, len(permissionIDs))
	for _, id := range permissionIDs {
		rows = append(rows, zero.ForOwner(ownerID, id))
	}

	if err = db.Create(&rows).Error; err != nil {
		table, _ := a.meta()
		return pkgerrors.Wrapf(err, "failed to insert into %s owner id# [%d]", table, ownerID)
	}

	return nil
}

// DeleteAllByOwnerID removes every association of the owner and returns the number of rows removed.
func (a Associations[R]) DeleteAllByOwnerID(ctx context.Context, ownerID uint64) (int64, error) {
	_, ownerColumn := a.meta()
	return a.deleteWhere(ctx, ownerColumn, ownerID)
}

// DeleteAllByPermissionID removes every association of the permission.
func (a Associations[R]) DeleteAllByPermissionID(ctx context.Context, permissionID uint64) (int64, error) {
	return a.deleteWhere(ctx, "permission_id", permissionID)
}

func (a Associations[R]) deleteWhere(ctx context.Context, column string, id uint64) (int64, error) {
	db, err := a.session(ctx)
	if err != nil {
		return 0, err
	}

	table, _ := a.meta()

	result := db.Where(column+" = ?", id).Delete(new(R))
	if result.Error != nil {
		return 0, pkgerrors.Wrapf(result.Error, "failed to delete from %s where %s = %d", table, column, id)
	}

	return result.RowsAffected, nil
}

// GetPermissions returns the permissions associated with the owner, ordered by id.
func (a Associations[R]) GetPermissions(ctx context.Context, ownerID uint64) ([]models.Permission, error) {
	db, err := a.session(ctx)
	if err != nil {
		return nil, err
	}

	table, ownerColumn := a.meta()

	var permissions []models.Permission

	err = db.
		Joins("JOIN "+table+" ON "+table+".permission_id = permissions.id").
		Where(table+"."+ownerColumn+" = ?", ownerID).
		Order("permissions.id").
		Find(&permissions).Error
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read permissions of %s owner id# [%d]", table, ownerID)
	}

	for i := range permissions {
		if err = permissions[i].CheckStored(); err != nil {
			return nil, err
		}
	}

	return permissions, nil
}

// GetOwnerIDs returns the owner ids associated with the permission.
func (a Associations[R]) GetOwnerIDs(ctx context.Context, permissionID uint64) ([]uint64, error) {
	db, err := a.session(ctx)
	if err != nil {
		return nil, err
	}

	table, ownerColumn := a.meta()

	var ids []uint64

	err = db.Table(table).
		Where("permission_id = ?", permissionID).
		Order(ownerColumn).
		Pluck(ownerColumn, &ids).Error
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read owners of permission id# [%d] from %s", permissionID, table)
	}

	return ids, nil
}
