package galleries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/dbtest"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.NewClient(t)
	svc, err := NewService(client)
	require.NoError(t, err)
	return svc, client
}

func strPtr(s string) *string { return &s }

func TestCreateAndListScopedToOwner(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	rate := decimal.RequireFromString("35")
	created, err := svc.Create(ctx, owner, CreateGalleryRequest{Name: " Riverside ", CommissionRate: &rate})
	require.NoError(t, err)
	require.Equal(t, "Riverside", created.Name)
	require.True(t, created.IsActive)

	_, err = svc.Create(ctx, other, CreateGalleryRequest{Name: "Riverside"})
	require.NoError(t, err, "same name under another owner is allowed")

	list, err := svc.List(ctx, owner, false)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Get(ctx, other, created.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateDuplicateNameConflicts(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	_, err := svc.Create(ctx, owner, CreateGalleryRequest{Name: "North"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, owner, CreateGalleryRequest{Name: "North"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestUpdateAppliesOnlyPresentFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, CreateGalleryRequest{Name: "North", City: strPtr("Oslo"), Phone: strPtr("123")})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, owner, created.ID, UpdateGalleryRequest{
		City:     types.NullableOf("Bergen"),
		Phone:    types.Nullable[string]{Set: true},
		IsActive: &inactive,
	})
	require.NoError(t, err)
	require.Equal(t, "North", updated.Name)
	require.Equal(t, "Bergen", *updated.City)
	require.Nil(t, updated.Phone)
	require.False(t, updated.IsActive)

	active, err := svc.List(ctx, owner, true)
	require.NoError(t, err)
	require.Empty(t, active)

	_, err = svc.Update(ctx, uuid.New(), created.ID, UpdateGalleryRequest{Name: strPtr("x")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteDetachesPieces(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	g, err := svc.Create(ctx, owner, CreateGalleryRequest{Name: "South"})
	require.NoError(t, err)
	piece := models.Piece{UserID: owner, UniqueID: "P-1", Name: "Vase", Status: enums.PieceStatusInGallery, GalleryID: &g.ID}
	require.NoError(t, client.DB().Create(&piece).Error)

	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, uuid.New(), g.ID), pkgerrors.CodeNotFound))
	require.NoError(t, svc.Delete(ctx, owner, g.ID))

	var reloaded models.Piece
	require.NoError(t, client.DB().First(&reloaded, "id = ?", piece.ID).Error)
	require.Nil(t, reloaded.GalleryID)

	_, err = svc.Get(ctx, owner, g.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
