// Package gateway provides generic persistence for the entity records and their
// permission association tables.
package gateway

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

var (
	// ErrNotFound is returned when no row exists for the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRereadFailed is returned when a freshly written row can not be read back.
	ErrRereadFailed = errors.New("failed to read back written record")
)

// EntityPtr constrains PT to a pointer to T implementing models.Entity.
type EntityPtr[T any] interface {
	*T
	models.Entity
}

// Gateway implements the CRUD operations shared by all entity tables.
type Gateway[T any, PT EntityPtr[T]] struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a gateway on db.
func New[T any, PT EntityPtr[T]](db *gorm.DB) Gateway[T, PT] {
	return Gateway[T, PT]{db: db, now: time.Now}
}

// WithTx returns a copy of the gateway bound to the transaction tx.
func (g Gateway[T, PT]) WithTx(tx *gorm.DB) Gateway[T, PT] {
	g.db = tx
	return g
}

// DB returns the underlying connection or transaction.
func (g Gateway[T, PT]) DB() *gorm.DB {
	return g.db
}

// Session returns the connection bound to ctx.
func (g Gateway[T, PT]) Session(ctx context.Context) (*gorm.DB, error) {
	if g.db == nil {
		return nil, ErrDBNil
	}

	return g.db.WithContext(ctx), nil
}

func tableOf[T any, PT EntityPtr[T]]() string {
	var row T
	return PT(&row).TableName()
}

// GetAll retrieves all rows ordered by id.
func (g Gateway[T, PT]) GetAll(ctx context.Context) ([]T, error) {
	db, err := g.Session(ctx)
	if err != nil {
		return nil, err
	}

	var rows []T
	if err = db.Order("id").Find(&rows).Error; err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to read %s", tableOf[T, PT]())
	}

	for i := range rows {
		if err = PT(&rows[i]).CheckStored(); err != nil {
			return nil, err
		}
	}

	return rows, nil
}

// GetByID retrieves one row, ErrNotFound if there is none.
func (g Gateway[T, PT]) GetByID(ctx context.Context, id uint64) (*T, error) {
	db, err := g.Session(ctx)
	if err != nil {
		return nil, err
	}

	row := new(T)

	result := db.Where("id = ?", id).Take(row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, pkgerrors.Wrapf(result.Error, "failed to read %s id# [%d]", tableOf[T, PT](), id)
	}

	if err = PT(row).CheckStored(); err != nil {
		return nil, err
	}

	return row, nil
}

// Create inserts entity and returns the row as stored.
func (g Gateway[T, PT]) Create(ctx context.Context, entity *T) (*T, error) {
	if err := PT(entity).ValidateForCreate(); err != nil {
		return nil, err
	}

	db, err := g.Session(ctx)
	if err != nil {
		return nil, err
	}

	if err = db.Create(entity).Error; err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to insert into %s", tableOf[T, PT]())
	}

	return g.reread(ctx, PT(entity).GetID())
}

// Update writes the updatable columns of entity and returns the row as stored.
func (g Gateway[T, PT]) Update(ctx context.Context, entity *T) (*T, error) {
	e := PT(entity)

	if err := e.ValidateForUpdate(); err != nil {
		return nil, err
	}

	db, err := g.Session(ctx)
	if err != nil {
		return nil, err
	}

	e.Touch(g.now())

	result := db.Model(entity).Select(e.UpdatableColumns()).Updates(entity)
	if result.Error != nil {
		return nil, pkgerrors.Wrapf(result.Error, "failed to update %s id# [%d]", e.TableName(), e.GetID())
	}

	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return g.reread(ctx, e.GetID())
}

// Delete removes the row of entity.
func (g Gateway[T, PT]) Delete(ctx context.Context, entity *T) error {
	if err := PT(entity).ValidateForDelete(); err != nil {
		return err
	}

	return g.DeleteByID(ctx, PT(entity).GetID())
}

// DeleteByID removes the row with id, ErrNotFound if there is none.
func (g Gateway[T, PT]) DeleteByID(ctx context.Context, id uint64) error {
	db, err := g.Session(ctx)
	if err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return pkgerrors.Wrapf(result.Error, "failed to delete %s id# [%d]", tableOf[T, PT](), id)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (g Gateway[T, PT]) reread(ctx context.Context, id uint64) (*T, error) {
	row, err := g.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, pkgerrors.Wrapf(ErrRereadFailed, "%s id# [%d]", tableOf[T, PT](), id)
	}

	return row, err
}
