package pieces

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/dbtest"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.NewClient(t)
	svc, err := NewService(client)
	require.NoError(t, err)
	return svc, client
}

func TestCreateDefaultsAndUniqueIDPerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	price := decimal.RequireFromString("120.50")
	p, err := svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "GW-001", Name: "Amber vase", Price: &price})
	require.NoError(t, err)
	require.Equal(t, enums.PieceStatusInProgress, p.Status)
	require.True(t, p.Price.Equal(price))

	_, err = svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "GW-001", Name: "Copy"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.Create(ctx, other, CreatePieceRequest{UniqueID: "GW-001", Name: "Other owner"})
	require.NoError(t, err)
}

func TestCreateRejectsForeignReferences(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	foreignGallery := models.Gallery{UserID: other, Name: "Theirs", IsActive: true}
	require.NoError(t, client.DB().Create(&foreignGallery).Error)

	_, err := svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "X", Name: "X", GalleryID: &foreignGallery.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	missing := uuid.New()
	_, err = svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "X", Name: "X", PieceTypeID: &missing})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestSubtypeMustMatchType(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	vase := models.PieceType{UserID: owner, Name: "Vase"}
	bowl := models.PieceType{UserID: owner, Name: "Bowl"}
	require.NoError(t, client.DB().Create(&vase).Error)
	require.NoError(t, client.DB().Create(&bowl).Error)
	bud := models.PieceSubtype{UserID: owner, PieceTypeID: vase.ID, Name: "Bud"}
	require.NoError(t, client.DB().Create(&bud).Error)

	_, err := svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "A", Name: "A", PieceTypeID: &bowl.ID, PieceSubtypeID: &bud.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	p, err := svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "B", Name: "B", PieceSubtypeID: &bud.ID})
	require.NoError(t, err)
	require.NotNil(t, p.PieceTypeID)
	require.Equal(t, vase.ID, *p.PieceTypeID)

	updated, err := svc.Update(ctx, owner, p.ID, UpdatePieceRequest{PieceTypeID: types.Nullable[uuid.UUID]{Set: true}})
	require.NoError(t, err)
	require.Nil(t, updated.PieceTypeID)
	require.Nil(t, updated.PieceSubtypeID)
}

func TestUpdatePartialFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	loc := "shelf 3"
	p, err := svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "U-1", Name: "Bowl", Location: &loc})
	require.NoError(t, err)

	sold := enums.PieceStatusSold
	completed, err := types.ParseDate("2025-04-02")
	require.NoError(t, err)
	updated, err := svc.Update(ctx, owner, p.ID, UpdatePieceRequest{
		Status:      &sold,
		Location:    types.Nullable[string]{Set: true},
		CompletedAt: types.NullableOf(types.Date{Time: completed}),
	})
	require.NoError(t, err)
	require.Equal(t, "Bowl", updated.Name)
	require.Equal(t, enums.PieceStatusSold, updated.Status)
	require.Nil(t, updated.Location)
	require.NotNil(t, updated.CompletedAt)

	_, err = svc.Update(ctx, uuid.New(), p.ID, UpdatePieceRequest{Name: &loc})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListFiltersAndPaginates(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		status := enums.PieceStatusAvailable
		if i%2 == 0 {
			status = enums.PieceStatusSold
		}
		row := models.Piece{
			UserID:    owner,
			UniqueID:  fmt.Sprintf("L-%d", i),
			Name:      fmt.Sprintf("Lamp %d", i),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		}
		require.NoError(t, client.DB().Create(&row).Error)
	}
	other := models.Piece{UserID: uuid.New(), UniqueID: "L-9", Name: "Lamp 9", Status: enums.PieceStatusSold}
	require.NoError(t, client.DB().Create(&other).Error)

	first, err := svc.List(ctx, owner, ListFilter{Page: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.Equal(t, "L-4", first.Items[0].UniqueID)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, owner, ListFilter{Page: pagination.Params{Limit: 2, Cursor: first.NextCursor}})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	require.Equal(t, "L-2", second.Items[0].UniqueID)

	third, err := svc.List(ctx, owner, ListFilter{Page: pagination.Params{Limit: 2, Cursor: second.NextCursor}})
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	require.Empty(t, third.NextCursor)

	sold := enums.PieceStatusSold
	soldOnly, err := svc.List(ctx, owner, ListFilter{Status: &sold})
	require.NoError(t, err)
	require.Len(t, soldOnly.Items, 3)

	search, err := svc.List(ctx, owner, ListFilter{Search: "lamp 3"})
	require.NoError(t, err)
	require.Len(t, search.Items, 1)

	_, err = svc.List(ctx, owner, ListFilter{Page: pagination.Params{Cursor: "%%%"}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDeleteUnlinksOrderItemsAndEvents(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	p, err := svc.Create(ctx, owner, CreatePieceRequest{UniqueID: "D-1", Name: "Doomed"})
	require.NoError(t, err)

	order := models.Order{UserID: owner, OrderNumber: "O-1", CustomerName: "Ana", Status: enums.OrderStatusPending, OrderDate: time.Now().UTC(), TotalAmount: decimal.RequireFromString("10")}
	require.NoError(t, client.DB().Create(&order).Error)
	item := models.OrderItem{UserID: owner, OrderID: order.ID, PieceID: &p.ID, Description: "Doomed", Price: decimal.RequireFromString("10")}
	require.NoError(t, client.DB().Create(&item).Error)
	event := models.Event{UserID: owner, Name: "Fair", EventType: enums.EventTypeFair, Status: enums.EventStatusPlanned, StartDate: time.Now().UTC()}
	require.NoError(t, client.DB().Create(&event).Error)
	require.NoError(t, client.DB().Create(&models.EventPiece{UserID: owner, EventID: event.ID, PieceID: p.ID}).Error)

	require.NoError(t, svc.Delete(ctx, owner, p.ID))

	var reloaded models.OrderItem
	require.NoError(t, client.DB().First(&reloaded, "id = ?", item.ID).Error)
	require.Nil(t, reloaded.PieceID)

	var links int64
	require.NoError(t, client.DB().Model(&models.EventPiece{}).Where("piece_id = ?", p.ID).Count(&links).Error)
	require.Zero(t, links)

	require.True(t, pkgerrors.IsCode(svc.Delete(ctx, owner, p.ID), pkgerrors.CodeNotFound))
}
