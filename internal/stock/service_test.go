package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/dbtest"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/metrics"
)

func newTestService(t *testing.T) (Service, *db.Client, *prometheus.Registry) {
	t.Helper()
	client := dbtest.NewClient(t)
	reg := prometheus.NewRegistry()
	svc, err := NewService(client, metrics.NewStockMetrics(reg))
	require.NoError(t, err)
	return svc, client, reg
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func quantityOf(t *testing.T, client *db.Client, id uuid.UUID) decimal.Decimal {
	t.Helper()
	var row models.StockItem
	require.NoError(t, client.DB().First(&row, "id = ?", id).Error)
	return row.CurrentQuantity
}

func requireQuantity(t *testing.T, client *db.Client, id uuid.UUID, want string) {
	t.Helper()
	got := quantityOf(t, client, id)
	require.Truef(t, got.Equal(decimal.RequireFromString(want)), "quantity = %s, want %s", got, want)
}

func TestCreateItemDefaults(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "  Clear rod  "})
	require.NoError(t, err)
	require.Equal(t, "Clear rod", item.Name)
	require.Equal(t, enums.StockUnitPiece, item.Unit)
	require.True(t, item.CurrentQuantity.IsZero())
	require.True(t, item.LowStock)

	_, err = svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Clear rod"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Frit", CurrentQuantity: dec("-1")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestMovementsAdjustQuantity(t *testing.T) {
	svc, client, reg := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Frit", CurrentQuantity: dec("10"), MinimumQuantity: dec("2")})
	require.NoError(t, err)

	in, err := svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeIn, Quantity: dec("5")})
	require.NoError(t, err)
	require.True(t, in.Delta.Equal(decimal.RequireFromString("5")))
	requireQuantity(t, client, item.ID, "15")

	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeOut, Quantity: dec("12.5")})
	require.NoError(t, err)
	requireQuantity(t, client, item.ID, "2.5")

	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeAdjustment, Quantity: dec("-0.5")})
	require.NoError(t, err)
	requireQuantity(t, client, item.ID, "2")

	low, err := svc.ListItems(ctx, owner, ItemFilter{LowStockOnly: true})
	require.NoError(t, err)
	require.Len(t, low, 1)

	require.Equal(t, float64(3), counterValue(t, reg, "stock_movements_applied_total", opCreate))
}

func TestMovementRejectedWhenStockWouldGoNegative(t *testing.T) {
	svc, client, reg := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Sheet", CurrentQuantity: dec("3")})
	require.NoError(t, err)

	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeOut, Quantity: dec("4")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	requireQuantity(t, client, item.ID, "3")

	movements, err := svc.ListMovements(ctx, owner, &item.ID)
	require.NoError(t, err)
	require.Empty(t, movements)
	require.Equal(t, float64(1), counterValue(t, reg, "stock_movements_rejected_total", opCreate))
}

func TestMovementValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Rod"})
	require.NoError(t, err)

	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeIn, Quantity: dec("-1")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeAdjustment, Quantity: dec("0")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.CreateMovement(ctx, uuid.New(), CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeIn, Quantity: dec("1")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestUpdateMovementAppliesNetDelta(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Frit", CurrentQuantity: dec("10")})
	require.NoError(t, err)
	m, err := svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeOut, Quantity: dec("4")})
	require.NoError(t, err)
	requireQuantity(t, client, item.ID, "6")

	_, err = svc.UpdateMovement(ctx, owner, m.ID, UpdateMovementRequest{Quantity: dec("1")})
	require.NoError(t, err)
	requireQuantity(t, client, item.ID, "9")

	in := enums.MovementTypeIn
	_, err = svc.UpdateMovement(ctx, owner, m.ID, UpdateMovementRequest{MovementType: &in})
	require.NoError(t, err)
	requireQuantity(t, client, item.ID, "11")

	out := enums.MovementTypeOut
	_, err = svc.UpdateMovement(ctx, owner, m.ID, UpdateMovementRequest{MovementType: &out, Quantity: dec("20")})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	requireQuantity(t, client, item.ID, "11")
}

func TestUpdateMovementToAnotherItem(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	a, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "A"})
	require.NoError(t, err)
	b, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "B", CurrentQuantity: dec("1")})
	require.NoError(t, err)

	m, err := svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: a.ID, MovementType: enums.MovementTypeIn, Quantity: dec("5")})
	require.NoError(t, err)

	moved, err := svc.UpdateMovement(ctx, owner, m.ID, UpdateMovementRequest{StockItemID: &b.ID})
	require.NoError(t, err)
	require.Equal(t, b.ID, moved.StockItemID)
	requireQuantity(t, client, a.ID, "0")
	requireQuantity(t, client, b.ID, "6")

	foreign := models.StockItem{UserID: uuid.New(), Name: "Theirs", Unit: enums.StockUnitPiece}
	require.NoError(t, client.DB().Create(&foreign).Error)
	_, err = svc.UpdateMovement(ctx, owner, m.ID, UpdateMovementRequest{StockItemID: &foreign.ID})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	requireQuantity(t, client, b.ID, "6")
}

func TestDeleteMovementRevertsDelta(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Frit"})
	require.NoError(t, err)
	in, err := svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeIn, Quantity: dec("5")})
	require.NoError(t, err)
	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeOut, Quantity: dec("4")})
	require.NoError(t, err)

	err = svc.DeleteMovement(ctx, owner, in.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
	requireQuantity(t, client, item.ID, "1")

	err = svc.DeleteMovement(ctx, uuid.New(), in.ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteItemRemovesMovements(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Frit"})
	require.NoError(t, err)
	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{StockItemID: item.ID, MovementType: enums.MovementTypeIn, Quantity: dec("5")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteItem(ctx, owner, item.ID))
	var count int64
	require.NoError(t, client.DB().Model(&models.StockMovement{}).Where("stock_item_id = ?", item.ID).Count(&count).Error)
	require.Zero(t, count)

	require.True(t, pkgerrors.IsCode(svc.DeleteItem(ctx, owner, item.ID), pkgerrors.CodeNotFound))
}

func TestUpdateItemKeepsQuantity(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Frit", CurrentQuantity: dec("7")})
	require.NoError(t, err)
	kg := enums.StockUnitKilogram
	updated, err := svc.UpdateItem(ctx, owner, item.ID, UpdateItemRequest{Unit: &kg, MinimumQuantity: dec("1")})
	require.NoError(t, err)
	require.Equal(t, enums.StockUnitKilogram, updated.Unit)
	require.False(t, updated.LowStock)
	requireQuantity(t, client, item.ID, "7")
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, op string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "operation" && l.GetValue() == op {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s{operation=%q} not found", name, op)
	return 0
}

func TestSaveItemKeepsMovementQuantity(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	item, err := svc.CreateItem(ctx, owner, CreateItemRequest{Name: "Amber rod", CurrentQuantity: dec("4")})
	require.NoError(t, err)

	repo := NewRepository(client.DB())
	stale, err := repo.GetItem(ctx, owner, item.ID)
	require.NoError(t, err)

	_, err = svc.CreateMovement(ctx, owner, CreateMovementRequest{
		StockItemID:  item.ID,
		MovementType: enums.MovementTypeIn,
		Quantity:     dec("6"),
	})
	require.NoError(t, err)

	stale.Name = "Amber rod 6mm"
	require.NoError(t, repo.SaveItem(ctx, stale))
	requireQuantity(t, client, item.ID, "10")

	name := "Amber rod 8mm"
	updated, err := svc.UpdateItem(ctx, owner, item.ID, UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Amber rod 8mm", updated.Name)
	assert.True(t, updated.CurrentQuantity.Equal(decimal.RequireFromString("10")))
	requireQuantity(t, client, item.ID, "10")
}
