package models

import (
	"time"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

const (
	// UniquePermissionMaxLength is the maximum length of the authorization token.
	UniquePermissionMaxLength = 256
	// PermissionMaxLength is the maximum length of the display name.
	PermissionMaxLength = 256
	// PermissionDescriptionMaxLength is the maximum description length.
	PermissionDescriptionMaxLength = 1024
)

// Permission is a named authorization token (e.g. "MANAGE_USERS") granted to users
// and user groups.
type Permission struct {
	// ID is the unique identifier for the permission.
	ID uint64 `gorm:"primaryKey"`
	// UniquePermission is the token compared by authorization checks.
	UniquePermission string `gorm:"column:unique_permission;unique;size:256;not null" validate:"required,max=256"`
	// PermissionName is the human-readable name.
	PermissionName string `gorm:"column:permission_name;size:256;not null" validate:"required,max=256"`
	// Description is optional.
	Description *string `gorm:"column:description;size:1024" validate:"omitempty,max=1024"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	// LastModifiedAt is nil until the first update.
	LastModifiedAt *time.Time `gorm:"column:last_modified_at"`
}

// TableName specifies the database table name for the Permission model.
func (Permission) TableName() string {
	return "permissions"
}

// NewPermission creates a permission ready for insertion.
func NewPermission(uniquePermission, permissionName string, description *string) (*Permission, error) {
	p := new(Permission)

	if err := p.SetUniquePermission(uniquePermission); err != nil {
		return nil, err
	}

	if err := p.SetPermissionName(permissionName); err != nil {
		return nil, err
	}

	if err := p.SetDescription(description); err != nil {
		return nil, err
	}

	return p, nil
}

// GetID returns the permission id.
func (p *Permission) GetID() uint64 {
	return p.ID
}

// SetUniquePermission sets the authorization token.
func (p *Permission) SetUniquePermission(uniquePermission string) error {
	if err := checkLength("Unique permission", uniquePermission, UniquePermissionMaxLength); err != nil {
		return err
	}

	p.UniquePermission = uniquePermission

	return nil
}

// SetPermissionName sets the display name.
func (p *Permission) SetPermissionName(name string) error {
	if err := checkLength("Permission name", name, PermissionMaxLength); err != nil {
		return err
	}

	p.PermissionName = name

	return nil
}

// SetDescription sets or clears (nil) the description.
func (p *Permission) SetDescription(description *string) error {
	if description != nil {
		if err := checkLength("Description", *description, PermissionDescriptionMaxLength); err != nil {
			return err
		}
	}

	p.Description = description

	return nil
}

// UpdatableColumns lists the columns written on update.
func (Permission) UpdatableColumns() []string {
	return []string{"unique_permission", "permission_name", "description", "last_modified_at"}
}

// Touch sets the last modification date.
func (p *Permission) Touch(t time.Time) {
	p.LastModifiedAt = &t
}

// ValidateForCreate checks that no store managed value is set and all fields are present.
func (p *Permission) ValidateForCreate() error {
	switch {
	case p.ID != 0:
		return apperror.NewValidation("permission is not valid for creation: id value already set")
	case !p.CreatedAt.IsZero():
		return apperror.NewValidation("permission is not valid for creation: creation date already set")
	case p.LastModifiedAt != nil:
		return apperror.NewValidation("permission is not valid for creation: last modification date already set")
	}

	return checkStruct("permission", p)
}

// ValidateForUpdate checks the id is set and all fields are present.
func (p *Permission) ValidateForUpdate() error {
	if p.ID == 0 {
		return apperror.NewValidation("permission is not valid for update: id value is not set")
	}

	return checkStruct("permission", p)
}

// ValidateForDelete checks the id is set.
func (p *Permission) ValidateForDelete() error {
	if p.ID == 0 {
		return apperror.NewValidation("permission is not valid for deletion: id value is not set")
	}

	return nil
}

// CheckStored validates a row read back from the store.
func (p *Permission) CheckStored() error {
	switch {
	case p.ID == 0:
		return apperror.NewStoredValidation("permission record has no id, check column names")
	case p.UniquePermission == "":
		return apperror.NewStoredValidation("permission record id# [%d] has no unique permission, check column names", p.ID)
	case p.PermissionName == "":
		return apperror.NewStoredValidation("permission record id# [%d] has no permission name, check column names", p.ID)
	case p.CreatedAt.IsZero():
		return apperror.NewStoredValidation("permission record id# [%d] has no creation date, check column types", p.ID)
	}

	return nil
}

// PermissionView is the JSON representation of a permission.
type PermissionView struct {
	ID                   uint64  `json:"id"`
	UniquePermission     string  `json:"uniquePermission"`
	PermissionName       string  `json:"permissionName"`
	Description          *string `json:"description"`
	CreationDate         *string `json:"creationDate"`
	LastModificationDate *string `json:"lastModificationDate"`
}

// View converts the permission into its JSON representation.
func (p *Permission) View() PermissionView {
	return PermissionView{
		ID:                   p.ID,
		UniquePermission:     p.UniquePermission,
		PermissionName:       p.PermissionName,
		Description:          p.Description,
		CreationDate:         formatDate(&p.CreatedAt),
		LastModificationDate: formatDate(p.LastModifiedAt),
	}
}

// permissionViews keeps nil for a never loaded set so it serializes as null.
func permissionViews(permissions map[uint64]Permission) map[uint64]PermissionView {
	if permissions == nil {
		return nil
	}

	views := make(map[uint64]PermissionView, len(permissions))
	for id, p := range permissions {
		views[id] = p.View()
	}

	return views
}
