package gateway

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/dbtest"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

func newPermission(t *testing.T, key string) *models.Permission {
	t.Helper()

	p, err := models.NewPermission(key, strings.ToLower(key), nil)
	require.NoError(t, err)

	return p
}

func TestGatewayCreateAndGet(t *testing.T) {
	ctx := context.Background()
	g := New[models.Permission](dbtest.Open(t))

	created, err := g.Create(ctx, newPermission(t, "MANAGE_USERS"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Nil(t, created.LastModifiedAt)

	got, err := g.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "MANAGE_USERS", got.UniquePermission)
	assert.Equal(t, "manage_users", got.PermissionName)

	all, err := g.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGatewayGetByIDNotFound(t *testing.T) {
	g := New[models.Permission](dbtest.Open(t))

	_, err := g.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGatewayCreateRejectsStoreManagedValues(t *testing.T) {
	g := New[models.Permission](dbtest.Open(t))

	p := newPermission(t, "MANAGE_USERS")
	p.ID = 7

	_, err := g.Create(context.Background(), p)

	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 400, ve.Status)
}

func TestGatewayUpdate(t *testing.T) {
	ctx := context.Background()
	g := New[models.Permission](dbtest.Open(t))

	created, err := g.Create(ctx, newPermission(t, "MANAGE_USERS"))
	require.NoError(t, err)

	desc := "manage all user accounts"
	require.NoError(t, created.SetDescription(&desc))

	updated, err := g.Update(ctx, created)
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, desc, *updated.Description)
	assert.NotNil(t, updated.LastModifiedAt)

	missing := *updated
	missing.ID = 999
	_, err = g.Update(ctx, &missing)
	assert.ErrorIs(t, err, ErrNotFound)

	noID := *updated
	noID.ID = 0
	_, err = g.Update(ctx, &noID)

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestGatewayDelete(t *testing.T) {
	ctx := context.Background()
	g := New[models.Permission](dbtest.Open(t))

	created, err := g.Create(ctx, newPermission(t, "MANAGE_USERS"))
	require.NoError(t, err)

	require.NoError(t, g.Delete(ctx, created))

	_, err = g.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, g.DeleteByID(ctx, created.ID), ErrNotFound)
}

func TestGatewayNilDB(t *testing.T) {
	g := New[models.Permission](nil)

	_, err := g.GetAll(context.Background())
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestGatewayRejectsCorruptRow(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	g := New[models.Permission](db)

	created, err := g.Create(ctx, newPermission(t, "MANAGE_USERS"))
	require.NoError(t, err)

	require.NoError(t, db.Exec("UPDATE permissions SET permission_name = '' WHERE id = ?", created.ID).Error)

	_, err = g.GetByID(ctx, created.ID)

	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 500, ve.Status)
}

func TestAssociations(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	perms := New[models.Permission](db)
	assoc := NewAssociations[models.UserPermission](db)

	var ids []uint64

	for _, key := range []string{"A", "B", "C"} {
		p, err := perms.Create(ctx, newPermission(t, key))
		require.NoError(t, err)

		ids = append(ids, p.ID)
	}

	require.NoError(t, assoc.CreateManyForOwner(ctx, 1, ids[:2]))
	require.NoError(t, assoc.CreateForOwnerAndPermission(ctx, 2, ids[2]))
	require.NoError(t, assoc.CreateManyForOwner(ctx, 3, nil))

	got, err := assoc.GetPermissions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].UniquePermission)
	assert.Equal(t, "B", got[1].UniquePermission)

	owners, err := assoc.GetOwnerIDs(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, owners)

	// duplicate pair violates the composite key
	assert.Error(t, assoc.CreateManyForOwner(ctx, 2, []uint64{ids[0], ids[0]}))

	n, err := assoc.DeleteAllByOwnerID(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	n, err = assoc.DeleteAllByPermissionID(ctx, ids[2])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = assoc.GetPermissions(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}
