package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/permission"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// PermissionInput holds the business fields of a permission create or update.
type PermissionInput struct {
	UniquePermission string
	PermissionName   string
	Description      *string
}

// Permissions manages the permission catalogue.
type Permissions struct {
	db          *gorm.DB
	permissions permission.Gateway
}

// NewPermissions creates a permissions service on db.
func NewPermissions(db *gorm.DB) *Permissions {
	return &Permissions{db: db, permissions: permission.New(db)}
}

// GetAll returns every permission ordered by id.
func (s *Permissions) GetAll(ctx context.Context) ([]models.Permission, error) {
	return s.permissions.GetAll(ctx)
}

// GetByID returns one permission.
func (s *Permissions) GetByID(ctx context.Context, id uint64) (*models.Permission, error) {
	return s.permissions.GetByID(ctx, id)
}

// GetByUniquePermission returns the permission with the given key.
func (s *Permissions) GetByUniquePermission(ctx context.Context, key string) (*models.Permission, error) {
	return s.permissions.GetByUniquePermission(ctx, key)
}

// GetUsersByPermissionID returns the users holding the permission.
func (s *Permissions) GetUsersByPermissionID(ctx context.Context, id uint64) ([]models.User, error) {
	return s.permissions.GetUsersByPermissionID(ctx, id)
}

// GetUserGroupsByPermissionID returns the user groups holding the permission.
func (s *Permissions) GetUserGroupsByPermissionID(ctx context.Context, id uint64) ([]models.UserGroup, error) {
	return s.permissions.GetUserGroupsByPermissionID(ctx, id)
}

// Create inserts a permission.
func (s *Permissions) Create(ctx context.Context, in PermissionInput) (*models.Permission, error) {
	p, err := models.NewPermission(in.UniquePermission, in.PermissionName, in.Description)
	if err == nil {
		p, err = s.permissions.Create(ctx, p)
	}

	if err != nil {
		return nil, errors.Wrapf(err, "failure to create permission [%s]", in.UniquePermission)
	}

	log.Info().Uint64("id", p.ID).Str("permission", p.UniquePermission).Msg("permission created")

	return p, nil
}

// Update replaces the permission's fields in one transaction.
func (s *Permissions) Update(ctx context.Context, id uint64, in PermissionInput) (*models.Permission, error) {
	var updated *models.Permission

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permissions := s.permissions.WithTx(tx)

		p, err := permissions.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err = p.SetUniquePermission(in.UniquePermission); err != nil {
			return err
		}

		if err = p.SetPermissionName(in.PermissionName); err != nil {
			return err
		}

		if err = p.SetDescription(in.Description); err != nil {
			return err
		}

		updated, err = permissions.Update(ctx, p)

		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failure to update permission id# [%d]", id)
	}

	log.Info().Uint64("id", id).Msg("permission updated")

	return updated, nil
}

// Delete removes the permission together with every user and group association of it.
func (s *Permissions) Delete(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		permissions := s.permissions.WithTx(tx)

		p, err := permissions.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if _, err = permissions.UserAssociations().DeleteAllByPermissionID(ctx, p.ID); err != nil {
			return err
		}

		if _, err = permissions.GroupAssociations().DeleteAllByPermissionID(ctx, p.ID); err != nil {
			return err
		}

		return permissions.Delete(ctx, p)
	})
	if err != nil {
		return errors.Wrapf(err, "failure to delete permission id# [%d]", id)
	}

	log.Info().Uint64("id", id).Msg("permission deleted")

	return nil
}
