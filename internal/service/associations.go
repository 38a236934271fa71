package service

import (
	"context"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/controller/gateway"
	"github.com/GoAccessAdmin/GoAccessAdmin/internal/db/models"
)

// replacePermissions deletes every association of the owner, then inserts ids.
// An empty set leaves the owner without permissions.
func replacePermissions[R models.Association[R]](
	ctx context.Context, assoc gateway.Associations[R], ownerID uint64, ids []uint64,
) error {
	if _, err := assoc.DeleteAllByOwnerID(ctx, ownerID); err != nil {
		return err
	}

	if len(ids) == 0 {
		return nil
	}

	return assoc.CreateManyForOwner(ctx, ownerID, ids)
}
