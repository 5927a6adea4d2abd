package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/enums"
)

// Order is a customer or gallery sale. TotalAmount is derived from its items.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_orders_user_number,priority:1"`
	OrderNumber   string            `gorm:"column:order_number;not null;uniqueIndex:ux_orders_user_number,priority:2"`
	CustomerName  string            `gorm:"column:customer_name;not null"`
	CustomerEmail *string           `gorm:"column:customer_email"`
	CustomerPhone *string           `gorm:"column:customer_phone"`
	GalleryID     *uuid.UUID        `gorm:"column:gallery_id;type:uuid;index"`
	Status        enums.OrderStatus `gorm:"column:status;type:text;not null"`
	OrderDate     time.Time         `gorm:"column:order_date;not null"`
	DueDate       *time.Time        `gorm:"column:due_date"`
	TotalAmount   decimal.Decimal   `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Notes         *string           `gorm:"column:notes"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	OrderID     uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	PieceID     *uuid.UUID      `gorm:"column:piece_id;type:uuid;index"`
	Description string          `gorm:"column:description;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
