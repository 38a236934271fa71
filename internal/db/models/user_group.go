package models

import (
	"time"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

const (
	// GroupNameMaxLength is the maximum group name length.
	GroupNameMaxLength = 64
	// GroupDescriptionMaxLength is the maximum group description length.
	GroupDescriptionMaxLength = 256
)

// UserGroup is a named set of permissions.
// Permissions are never loaded implicitly, see SetPermissions.
type UserGroup struct {
	ID        uint64  `gorm:"primaryKey"`
	GroupName string  `gorm:"column:group_name;size:64;not null" validate:"required,max=64"`
	// Description is optional.
	Description    *string    `gorm:"column:description;size:256" validate:"omitempty,max=256"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	LastModifiedAt *time.Time `gorm:"column:last_modified_at"`

	permissions       map[uint64]Permission
	permissionsLoaded bool
}

// TableName specifies the database table name for the UserGroup model.
func (UserGroup) TableName() string {
	return "user_groups"
}

// NewUserGroup creates a user group ready for insertion.
func NewUserGroup(groupName string, description *string) (*UserGroup, error) {
	g := new(UserGroup)

	if err := g.SetGroupName(groupName); err != nil {
		return nil, err
	}

	if err := g.SetDescription(description); err != nil {
		return nil, err
	}

	return g, nil
}

// GetID returns the group id.
func (g *UserGroup) GetID() uint64 {
	return g.ID
}

// SetGroupName sets the group name.
func (g *UserGroup) SetGroupName(name string) error {
	if err := checkLength("Group name", name, GroupNameMaxLength); err != nil {
		return err
	}

	g.GroupName = name

	return nil
}

// SetDescription sets or clears (nil) the description.
func (g *UserGroup) SetDescription(description *string) error {
	if description != nil {
		if err := checkLength("Description", *description, GroupDescriptionMaxLength); err != nil {
			return err
		}
	}

	g.Description = description

	return nil
}

// UpdatableColumns lists the columns written on update.
func (UserGroup) UpdatableColumns() []string {
	return []string{"group_name", "description", "last_modified_at"}
}

// Touch sets the last modification date.
func (g *UserGroup) Touch(t time.Time) {
	g.LastModifiedAt = &t
}

func (g *UserGroup) ValidateForCreate() error {
	switch {
	case g.ID != 0:
		return apperror.NewValidation("user group is not valid for creation: id value already set")
	case !g.CreatedAt.IsZero():
		return apperror.NewValidation("user group is not valid for creation: creation date already set")
	case g.LastModifiedAt != nil:
		return apperror.NewValidation("user group is not valid for creation: last modification date already set")
	}

	return checkStruct("user group", g)
}

func (g *UserGroup) ValidateForUpdate() error {
	if g.ID == 0 {
		return apperror.NewValidation("user group is not valid for update: id value is not set")
	}

	return checkStruct("user group", g)
}

func (g *UserGroup) ValidateForDelete() error {
	if g.ID == 0 {
		return apperror.NewValidation("user group is not valid for deletion: id value is not set")
	}

	return nil
}

// CheckStored validates a row read back from the store.
func (g *UserGroup) CheckStored() error {
	switch {
	case g.ID == 0:
		return apperror.NewStoredValidation("user group record has no id, check column names")
	case g.GroupName == "":
		return apperror.NewStoredValidation("user group record id# [%d] has no group name, check column names", g.ID)
	case g.CreatedAt.IsZero():
		return apperror.NewStoredValidation("user group record id# [%d] has no creation date, check column types", g.ID)
	}

	return nil
}

// SetPermissions stores the explicitly loaded permissions of the group.
func (g *UserGroup) SetPermissions(permissions []Permission) {
	g.permissions = make(map[uint64]Permission, len(permissions))
	for _, p := range permissions {
		g.permissions[p.ID] = p
	}

	g.permissionsLoaded = true
}

// Permissions returns the loaded permissions keyed by id, nil if never loaded.
func (g *UserGroup) Permissions() map[uint64]Permission {
	return g.permissions
}

// PermissionsLoaded reports whether SetPermissions was called.
func (g *UserGroup) PermissionsLoaded() bool {
	return g.permissionsLoaded
}

// UserGroupView is the JSON representation of a user group.
type UserGroupView struct {
	ID                   uint64                    `json:"id"`
	GroupName            string                    `json:"groupName"`
	Description          *string                   `json:"description"`
	CreationDate         *string                   `json:"creationDate"`
	LastModificationDate *string                   `json:"lastModificationDate"`
	Permissions          map[uint64]PermissionView `json:"permissions"`
}

// View converts the group into its JSON representation.
func (g *UserGroup) View() UserGroupView {
	return UserGroupView{
		ID:                   g.ID,
		GroupName:            g.GroupName,
		Description:          g.Description,
		CreationDate:         formatDate(&g.CreatedAt),
		LastModificationDate: formatDate(g.LastModifiedAt),
		Permissions:          permissionViews(g.permissions),
	}
}
