package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/enums"
)

// StockItem is a consumable material (glass rods, frit, sheets) with a
// running quantity.
type StockItem struct {
	ID              uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UserID          uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_stock_items_user_name,priority:1"`
	Name            string           `gorm:"column:name;not null;uniqueIndex:ux_stock_items_user_name,priority:2"`
	Category        *string          `gorm:"column:category"`
	Unit            enums.StockUnit  `gorm:"column:unit;type:text;not null"`
	CurrentQuantity decimal.Decimal  `gorm:"column:current_quantity;type:numeric(12,3);not null"`
	MinimumQuantity decimal.Decimal  `gorm:"column:minimum_quantity;type:numeric(12,3);not null"`
	CostPerUnit     *decimal.Decimal `gorm:"column:cost_per_unit;type:numeric(12,2)"`
	Supplier        *string          `gorm:"column:supplier"`
	Notes           *string          `gorm:"column:notes"`
	CreatedAt       time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *StockItem) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// StockMovement records one change to a stock item's quantity.
type StockMovement struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	UserID       uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	StockItemID  uuid.UUID          `gorm:"column:stock_item_id;type:uuid;not null;index"`
	MovementType enums.MovementType `gorm:"column:movement_type;type:text;not null"`
	Quantity     decimal.Decimal    `gorm:"column:quantity;type:numeric(12,3);not null"`
	Reason       *string            `gorm:"column:reason"`
	Reference    *string            `gorm:"column:reference"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *StockMovement) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// Delta is the signed change this movement applies to its item.
func (m StockMovement) Delta() decimal.Decimal {
	return m.MovementType.SignedDelta(m.Quantity)
}
