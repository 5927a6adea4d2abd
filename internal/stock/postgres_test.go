package stock

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/glassworks-backend/pkg/db/dbtest"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
)

func TestPostgresConcurrentMovementsNeverGoNegative(t *testing.T) {
	client := dbtest.NewPostgres(t)
	ctx := context.Background()

	owner := &models.User{Username: "kiln", Email: "kiln@example.com", PasswordHash: "x"}
	require.NoError(t, client.DB().Create(owner).Error)

	svc, err := NewService(client, nil)
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, owner.ID, CreateItemRequest{Name: "Cobalt frit", CurrentQuantity: dec("10")})
	require.NoError(t, err)

	const attempts = 15
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateMovement(ctx, owner.ID, CreateMovementRequest{
				StockItemID:  item.ID,
				MovementType: enums.MovementTypeOut,
				Quantity:     dec("1"),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
				rejected++
			default:
				t.Errorf("unexpected movement error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, ok)
	require.Equal(t, attempts-10, rejected)
	requireQuantity(t, client, item.ID, "0")

	movements, err := svc.ListMovements(ctx, owner.ID, &item.ID)
	require.NoError(t, err)
	require.Len(t, movements, 10)
}

func TestPostgresRejectsForeignOwner(t *testing.T) {
	client := dbtest.NewPostgres(t)
	ctx := context.Background()

	owner := &models.User{Username: "kiln", Email: "kiln@example.com", PasswordHash: "x"}
	require.NoError(t, client.DB().Create(owner).Error)

	svc, err := NewService(client, nil)
	require.NoError(t, err)
	item, err := svc.CreateItem(ctx, owner.ID, CreateItemRequest{Name: "Clear rod"})
	require.NoError(t, err)

	_, err = svc.CreateMovement(ctx, uuid.New(), CreateMovementRequest{
		StockItemID:  item.ID,
		MovementType: enums.MovementTypeIn,
		Quantity:     dec("1"),
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
