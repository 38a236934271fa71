package models

// UserPermission grants a permission directly to a user.
type UserPermission struct {
	UserID       uint64 `gorm:"primaryKey;column:user_id;autoIncrement:false"`
	PermissionID uint64 `gorm:"primaryKey;column:permission_id;autoIncrement:false"`
}

// TableName specifies the database table name for the UserPermission model.
func (UserPermission) TableName() string {
	return "user_permissions"
}

// OwnerColumn returns the column referencing the user.
func (UserPermission) OwnerColumn() string {
	return "user_id"
}

// ForOwner returns the association row for the user and permission pair.
func (UserPermission) ForOwner(ownerID, permissionID uint64) UserPermission {
	return UserPermission{UserID: ownerID, PermissionID: permissionID}
}

// UserGroupPermission grants a permission to a user group.
type UserGroupPermission struct {
	UserGroupID  uint64 `gorm:"primaryKey;column:user_group_id;autoIncrement:false"`
	PermissionID uint64 `gorm:"primaryKey;column:permission_id;autoIncrement:false"`
}

// TableName specifies the database table name for the UserGroupPermission model.
func (UserGroupPermission) TableName() string {
	return "user_group_permissions"
}

// OwnerColumn returns the column referencing the user group.
func (UserGroupPermission) OwnerColumn() string {
	return "user_group_id"
}

// ForOwner returns the association row for the group and permission pair.
func (UserGroupPermission) ForOwner(ownerID, permissionID uint64) UserGroupPermission {
	return UserGroupPermission{UserGroupID: ownerID, PermissionID: permissionID}
}

// Association is the capability set the association gateway needs from a join row.
type Association[R any] interface {
	TableName() string
	OwnerColumn() string
	ForOwner(ownerID, permissionID uint64) R
}
