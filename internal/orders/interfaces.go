package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
)

// Repository defines persistence operations for orders and their items.
// Every method is scoped to the owning user.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListOrders(ctx context.Context, userID uuid.UUID, f ListFilter, cursor *pagination.Cursor) ([]models.Order, error)
	FindOrder(ctx context.Context, userID, id uuid.UUID) (*models.Order, error)
	LockOrder(ctx context.Context, userID, id uuid.UUID) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	SaveOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, userID, id uuid.UUID) error
	UpdateOrderTotal(ctx context.Context, userID, id uuid.UUID, total decimal.Decimal) error

	ListItems(ctx context.Context, userID, orderID uuid.UUID) ([]models.OrderItem, error)
	FindItem(ctx context.Context, userID, id uuid.UUID) (*models.OrderItem, error)
	CreateItem(ctx context.Context, item *models.OrderItem) error
	SaveItem(ctx context.Context, item *models.OrderItem) error
	DeleteItem(ctx context.Context, userID, id uuid.UUID) error
}
