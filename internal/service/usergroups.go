package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/usergroup"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// UserGroupInput holds the business fields of a user group create or update.
type UserGroupInput struct {
	GroupName     string
	Description   *string
	PermissionIDs []uint64
}

// UserGroups manages user groups and their permissions.
type UserGroups struct {
	db     *gorm.DB
	groups usergroup.Gateway
}

// NewUserGroups creates a user groups service on db.
func NewUserGroups(db *gorm.DB) *UserGroups {
	return &UserGroups{db: db, groups: usergroup.New(db)}
}

// GetAll returns all groups without permissions.
func (s *UserGroups) GetAll(ctx context.Context) ([]models.UserGroup, error) {
	return s.groups.GetAll(ctx)
}

// GetByID returns the group with its permissions loaded.
func (s *UserGroups) GetByID(ctx context.Context, id uint64) (*models.UserGroup, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = s.LoadPermissions(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

// LoadPermissions reads the group's permissions and attaches them to g.
func (s *UserGroups) LoadPermissions(ctx context.Context, g *models.UserGroup) error {
	permissions, err := s.groups.GetPermissionsByUserGroupID(ctx, g.ID)
	if err != nil {
		return err
	}

	g.SetPermissions(permissions)

	return nil
}

// Create inserts a group then grants it the requested permissions.
// The two steps are not atomic.
func (s *UserGroups) Create(ctx context.Context, in UserGroupInput) (*models.UserGroup, error) {
	g, err := s.create(ctx, in)
	if err != nil {
		return nil, errors.Wrapf(err, "failure to create user group [%s]", in.GroupName)
	}

	log.Info().Uint64("id", g.ID).Str("group", g.GroupName).Msg("user group created")

	return g, nil
}

func (s *UserGroups) create(ctx context.Context, in UserGroupInput) (*models.UserGroup, error) {
	g, err := models.NewUserGroup(in.GroupName, in.Description)
	if err != nil {
		return nil, err
	}

	if g, err = s.groups.Create(ctx, g); err != nil {
		return nil, err
	}

	if err = s.groups.Permissions().CreateManyForOwner(ctx, g.ID, in.PermissionIDs); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, g.ID)
}

// Update replaces the group's fields and its whole permission set in one transaction.
func (s *UserGroups) Update(ctx context.Context, id uint64, in UserGroupInput) (*models.UserGroup, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups := s.groups.WithTx(tx)

		g, err := groups.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err = g.SetGroupName(in.GroupName); err != nil {
			return err
		}

		if err = g.SetDescription(in.Description); err != nil {
			return err
		}

		if _, err = groups.Update(ctx, g); err != nil {
			return err
		}

		return replacePermissions(ctx, groups.Permissions(), id, in.PermissionIDs)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failure to update user group id# [%d]", id)
	}

	log.Info().Uint64("id", id).Int("permissions", len(in.PermissionIDs)).Msg("user group updated")

	g, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failure to update user group id# [%d]", id)
	}

	return g, nil
}

// Delete removes the group's permission associations and then the group, in one transaction.
func (s *UserGroups) Delete(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups := s.groups.WithTx(tx)

		g, err := groups.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if _, err = groups.Permissions().DeleteAllByOwnerID(ctx, g.ID); err != nil {
			return err
		}

		return groups.Delete(ctx, g)
	})
	if err != nil {
		return errors.Wrapf(err, "failure to delete user group id# [%d]", id)
	}

	log.Info().Uint64("id", id).Msg("user group deleted")

	return nil
}
