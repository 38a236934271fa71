package auth

// Permission keys checked by the panel. They match Permission.UniquePermission.
const (
	// PermManageUsers allows managing user accounts.
	PermManageUsers = "MANAGE_USERS"
	// PermManagePermissions allows managing the permission catalogue.
	PermManagePermissions = "MANAGE_PERMISSIONS"
	// PermManageUserGroups allows managing user groups.
	PermManageUserGroups = "MANAGE_USERGROUPS"
)

// Definition describes a permission the panel relies on.
type Definition struct {
	Key         string
	Name        string
	Description string
}

// Definitions returns the permissions the panel needs to exist, used for seeding.
func Definitions() []Definition {
	return []Definition{
		{Key: PermManageUsers, Name: "Manage users", Description: "Create, edit and delete user accounts."},
		{Key: PermManagePermissions, Name: "Manage permissions", Description: "Create, edit and delete permissions."},
		{Key: PermManageUserGroups, Name: "Manage user groups", Description: "Create, edit and delete user groups."},
	}
}
