package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

func TestSettersEnforceLength(t *testing.T) {
	testCases := []struct {
		name  string
		set   func(string) error
		limit int
	}{
		{name: "username", set: new(User).SetUsername, limit: UsernameMaxLength},
		{name: "email", set: new(User).SetEmail, limit: EmailMaxLength},
		{name: "password hash", set: new(User).SetPasswordHash, limit: PasswordHashMaxLength},
		{name: "unique permission", set: new(Permission).SetUniquePermission, limit: UniquePermissionMaxLength},
		{name: "permission name", set: new(Permission).SetPermissionName, limit: PermissionMaxLength},
		{name: "group name", set: new(UserGroup).SetGroupName, limit: GroupNameMaxLength},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.set(strings.Repeat("x", tc.limit)))

			err := tc.set(strings.Repeat("x", tc.limit+1))

			var ve *apperror.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, 400, ve.Status)
		})
	}
}

func TestLengthCountsRunes(t *testing.T) {
	u := new(User)
	require.NoError(t, u.SetUsername(strings.Repeat("é", UsernameMaxLength)))
}

func TestSetterKeepsValueOnFailure(t *testing.T) {
	g := &UserGroup{GroupName: "ops"}

	require.Error(t, g.SetGroupName(strings.Repeat("x", GroupNameMaxLength+1)))
	assert.Equal(t, "ops", g.GroupName)

	desc := strings.Repeat("d", GroupDescriptionMaxLength+1)
	require.Error(t, g.SetDescription(&desc))
	assert.Nil(t, g.Description)
}

func TestPermissionDescriptionLimit(t *testing.T) {
	desc := strings.Repeat("d", PermissionDescriptionMaxLength)

	p, err := NewPermission("KEY", "name", &desc)
	require.NoError(t, err)
	assert.Equal(t, desc, *p.Description)

	desc += "d"
	_, err = NewPermission("KEY", "name", &desc)
	assert.Error(t, err)
}

func TestValidateForCreate(t *testing.T) {
	u, err := NewUser("alice", "hash", "a@example.org")
	require.NoError(t, err)
	require.NoError(t, u.ValidateForCreate())

	withID := *u
	withID.ID = 1
	assert.Error(t, withID.ValidateForCreate())

	withDate := *u
	withDate.CreatedAt = time.Now()
	assert.Error(t, withDate.ValidateForCreate())

	noEmail := *u
	noEmail.Email = ""

	err = noEmail.ValidateForCreate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email value not set")
}

func TestValidateForUpdateAndDelete(t *testing.T) {
	g, err := NewUserGroup("ops", nil)
	require.NoError(t, err)

	assert.Error(t, g.ValidateForUpdate())
	assert.Error(t, g.ValidateForDelete())

	g.ID = 3
	assert.NoError(t, g.ValidateForUpdate())
	assert.NoError(t, g.ValidateForDelete())

	g.GroupName = ""
	assert.Error(t, g.ValidateForUpdate())
	assert.NoError(t, g.ValidateForDelete())
}

func TestCheckStored(t *testing.T) {
	p := &Permission{ID: 1, UniquePermission: "KEY", PermissionName: "name"}

	err := p.CheckStored()

	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 500, ve.Status)

	p.CreatedAt = time.Now()
	assert.NoError(t, p.CheckStored())
}

func TestUserViewOmitsHashAndUnloadedPermissions(t *testing.T) {
	created := time.Date(2024, 4, 2, 13, 45, 10, 0, time.UTC)
	u := &User{ID: 5, Username: "alice", PasswordHash: "secret", Email: "a@example.org", CreatedAt: created}

	raw, err := json.Marshal(u.View())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.Contains(t, string(raw), `"creationDate":"2024-04-02T13:45"`)
	assert.Contains(t, string(raw), `"lastModificationDate":null`)
	assert.Contains(t, string(raw), `"permissions":null`)

	u.SetPermissions([]Permission{{ID: 9, UniquePermission: "MANAGE_USERS", PermissionName: "Manage users"}})
	assert.True(t, u.HasPermissionKey("MANAGE_USERS"))
	assert.False(t, u.HasPermissionKey("manage_users"))

	raw, err = json.Marshal(u.View())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"permissions":{"9":{"id":9,"uniquePermission":"MANAGE_USERS"`)
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("")

	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 400, apperror.StatusCode(err))

	hash, err := HashPassword("secret")
	require.NoError(t, err)

	u := &User{PasswordHash: hash}

	ok, err := u.VerifyPassword("secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = u.VerifyPassword("other")
	require.NoError(t, err)
	assert.False(t, ok)
}
