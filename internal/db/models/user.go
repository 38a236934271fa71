package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

const (
	// UsernameMaxLength is the maximum username length.
	UsernameMaxLength = 64
	// PasswordHashMaxLength is the maximum length of an encoded argon2id hash.
	PasswordHashMaxLength = 256
	// EmailMaxLength is the maximum email length.
	EmailMaxLength = 256
)

// User represents a user account of the admin panel.
// Permissions are never loaded implicitly, see SetPermissions.
type User struct {
	// ID is the unique identifier for the user, assigned by the store.
	ID uint64 `gorm:"primaryKey"`
	// Username is the unique username for login.
	Username string `gorm:"column:username;unique;size:64;not null" validate:"required,max=64"`
	// PasswordHash is the argon2id encoded hash of the password.
	PasswordHash string `gorm:"column:password_hash;size:256;not null" validate:"required,max=256"`
	// Email is the user's email address.
	Email string `gorm:"column:email;size:256;not null" validate:"required,max=256"`
	// CreatedAt is assigned by the store on insert.
	CreatedAt time.Time `gorm:"column:created_at"`
	// LastModifiedAt is nil until the first update.
	LastModifiedAt *time.Time `gorm:"column:last_modified_at"`

	permissions       map[uint64]Permission
	permissionsLoaded bool
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// NewUser creates a user ready for insertion. The lengths are checked by the setters.
func NewUser(username, passwordHash, email string) (*User, error) {
	u := new(User)

	if err := u.SetUsername(username); err != nil {
		return nil, err
	}

	if err := u.SetPasswordHash(passwordHash); err != nil {
		return nil, err
	}

	if err := u.SetEmail(email); err != nil {
		return nil, err
	}

	return u, nil
}

// GetID returns the user id.
func (u *User) GetID() uint64 {
	return u.ID
}

// SetUsername sets the username if it fits UsernameMaxLength.
func (u *User) SetUsername(username string) error {
	if err := checkLength("Username", username, UsernameMaxLength); err != nil {
		return err
	}

	u.Username = username

	return nil
}

// SetPasswordHash sets the password hash if it fits PasswordHashMaxLength.
func (u *User) SetPasswordHash(hash string) error {
	if err := checkLength("Password hash", hash, PasswordHashMaxLength); err != nil {
		return err
	}

	u.PasswordHash = hash

	return nil
}

// SetEmail sets the email if it fits EmailMaxLength.
func (u *User) SetEmail(email string) error {
	if err := checkLength("Email", email, EmailMaxLength); err != nil {
		return err
	}

	u.Email = email

	return nil
}

// UpdatableColumns lists the columns written on update.
func (User) UpdatableColumns() []string {
	return []string{"username", "password_hash", "email", "last_modified_at"}
}

// Touch sets the last modification date.
func (u *User) Touch(t time.Time) {
	u.LastModifiedAt = &t
}

// ValidateForCreate checks that no store managed value is set and all fields are present.
func (u *User) ValidateForCreate() error {
	switch {
	case u.ID != 0:
		return apperror.NewValidation("user is not valid for creation: id value already set")
	case !u.CreatedAt.IsZero():
		return apperror.NewValidation("user is not valid for creation: creation date already set")
	case u.LastModifiedAt != nil:
		return apperror.NewValidation("user is not valid for creation: last modification date already set")
	}

	return checkStruct("user", u)
}

// ValidateForUpdate checks the id is set and all fields are present.
func (u *User) ValidateForUpdate() error {
	if u.ID == 0 {
		return apperror.NewValidation("user is not valid for update: id value is not set")
	}

	return checkStruct("user", u)
}

// ValidateForDelete checks the id is set.
func (u *User) ValidateForDelete() error {
	if u.ID == 0 {
		return apperror.NewValidation("user is not valid for deletion: id value is not set")
	}

	return nil
}

// CheckStored validates a row read back from the store.
func (u *User) CheckStored() error {
	switch {
	case u.ID == 0:
		return apperror.NewStoredValidation("user record has no id, check column names")
	case u.Username == "":
		return apperror.NewStoredValidation("user record id# [%d] has no username, check column names", u.ID)
	case u.PasswordHash == "":
		return apperror.NewStoredValidation("user record id# [%d] has no password hash, check column names", u.ID)
	case u.CreatedAt.IsZero():
		return apperror.NewStoredValidation("user record id# [%d] has no creation date, check column types", u.ID)
	}

	return nil
}

// SetPermissions stores the explicitly loaded permissions of the user.
func (u *User) SetPermissions(permissions []Permission) {
	u.permissions = make(map[uint64]Permission, len(permissions))
	for _, p := range permissions {
		u.permissions[p.ID] = p
	}

	u.permissionsLoaded = true
}

// Permissions returns the loaded permissions keyed by id, nil if never loaded.
func (u *User) Permissions() map[uint64]Permission {
	return u.permissions
}

// PermissionsLoaded reports whether SetPermissions was called.
func (u *User) PermissionsLoaded() bool {
	return u.permissionsLoaded
}

// HasPermissionKey reports whether a loaded permission has the given unique key.
func (u *User) HasPermissionKey(key string) bool {
	for _, p := range u.permissions {
		if p.UniquePermission == key {
			return true
		}
	}

	return false
}

// UserView is the JSON representation of a user.
type UserView struct {
	ID                   uint64                    `json:"id"`
	Username             string                    `json:"username"`
	Email                string                    `json:"email"`
	CreationDate         *string                   `json:"creationDate"`
	LastModificationDate *string                   `json:"lastModificationDate"`
	Permissions          map[uint64]PermissionView `json:"permissions"`
}

// View converts the user into its JSON representation.
// Only already loaded permissions are included.
func (u *User) View() UserView {
	return UserView{
		ID:                   u.ID,
		Username:             u.Username,
		Email:                u.Email,
		CreationDate:         formatDate(&u.CreatedAt),
		LastModificationDate: formatDate(u.LastModifiedAt),
		Permissions:          permissionViews(u.permissions),
	}
}

// HashPassword hashes a plaintext password using the Argon2id algorithm. An empty
// password is a ValidationError.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperror.NewValidation("password cannot be empty")
	}

	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	return hash, nil
}

// VerifyPassword verifies a plaintext password against the stored hash in constant time.
func (u *User) VerifyPassword(password string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		return false, errors.Wrap(err, "failed to verify password")
	}

	return match, nil
}
