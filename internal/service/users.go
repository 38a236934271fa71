package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/user"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// UserInput holds the business fields of a user create or update.
type UserInput struct {
	Username string
	// Password is the plaintext password. It is hashed on create and on every update.
	Password      string
	Email         string
	PermissionIDs []uint64
}

// Users manages user accounts and their direct permissions.
type Users struct {
	db    *gorm.DB
	users user.Gateway
}

// NewUsers creates a users service on db.
func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db, users: user.New(db)}
}

// Gateway returns the underlying users gateway.
func (s *Users) Gateway() user.Gateway {
	return s.users
}

// GetAll returns all users without permissions.
func (s *Users) GetAll(ctx context.Context) ([]models.User, error) {
	return s.users.GetAll(ctx)
}

// GetByID returns the user with its permissions loaded.
func (s *Users) GetByID(ctx context.Context, id uint64) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = s.LoadPermissions(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// GetByUsername returns the user without permissions.
func (s *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// LoadPermissions reads the user's permissions and attaches them to u.
func (s *Users) LoadPermissions(ctx context.Context, u *models.User) error {
	permissions, err := s.users.GetPermissionsByUserID(ctx, u.ID)
	if err != nil {
		return err
	}

	u.SetPermissions(permissions)

	return nil
}

// GetPermissionsByUserID returns the permissions granted to the user.
func (s *Users) GetPermissionsByUserID(ctx context.Context, id uint64) ([]models.Permission, error) {
	return s.users.GetPermissionsByUserID(ctx, id)
}

// Create inserts a user then grants it the requested permissions.
// The two steps are not atomic: a failed grant leaves the user without permissions.
func (s *Users) Create(ctx context.Context, in UserInput) (*models.User, error) {
	u, err := s.create(ctx, in)
	if err != nil {
		return nil, errors.Wrapf(err, "failure to create user [%s, %s]", in.Username, in.Email)
	}

	log.Info().Uint64("id", u.ID).Str("username", u.Username).Msg("user created")

	return u, nil
}

func (s *Users) create(ctx context.Context, in UserInput) (*models.User, error) {
	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u, err := models.NewUser(in.Username, hash, in.Email)
	if err != nil {
		return nil, err
	}

	if u, err = s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err = s.users.Permissions().CreateManyForOwner(ctx, u.ID, in.PermissionIDs); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, u.ID)
}

// Update replaces the user's fields and its whole permission set in one transaction.
func (s *Users) Update(ctx context.Context, id uint64, in UserInput) (*models.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if err = u.SetUsername(in.Username); err != nil {
			return err
		}

		if err = u.SetEmail(in.Email); err != nil {
			return err
		}

		hash, err := models.HashPassword(in.Password)
		if err != nil {
			return err
		}

		if err = u.SetPasswordHash(hash); err != nil {
			return err
		}

		if _, err = users.Update(ctx, u); err != nil {
			return err
		}

		return replacePermissions(ctx, users.Permissions(), id, in.PermissionIDs)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failure to update user id# [%d]", id)
	}

	log.Info().Uint64("id", id).Int("permissions", len(in.PermissionIDs)).Msg("user updated")

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failure to update user id# [%d]", id)
	}

	return u, nil
}

// Delete removes the user's permission associations and then the user, in one transaction.
func (s *Users) Delete(ctx context.Context, id uint64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)

		u, err := users.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if _, err = users.Permissions().DeleteAllByOwnerID(ctx, u.ID); err != nil {
			return err
		}

		return users.Delete(ctx, u)
	})
	if err != nil {
		return errors.Wrapf(err, "failure to delete user id# [%d]", id)
	}

	log.Info().Uint64("id", id).Msg("user deleted")

	return nil
}
