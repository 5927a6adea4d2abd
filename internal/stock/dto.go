package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

type ItemDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Category        *string          `json:"category"`
	Unit            enums.StockUnit  `json:"unit"`
	CurrentQuantity decimal.Decimal  `json:"current_quantity"`
	MinimumQuantity decimal.Decimal  `json:"minimum_quantity"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit"`
	Supplier        *string          `json:"supplier"`
	Notes           *string          `json:"notes"`
	LowStock        bool             `json:"low_stock"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

type MovementDTO struct {
	ID           uuid.UUID          `json:"id"`
	StockItemID  uuid.UUID          `json:"stock_item_id"`
	MovementType enums.MovementType `json:"movement_type"`
	Quantity     decimal.Decimal    `json:"quantity"`
	Delta        decimal.Decimal    `json:"delta"`
	Reason       *string            `json:"reason"`
	Reference    *string            `json:"reference"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// CreateItemRequest registers a material. CurrentQuantity is the opening
// balance; later changes go through movements.
type CreateItemRequest struct {
	Name            string           `json:"name" validate:"required,max=200"`
	Category        *string          `json:"category,omitempty" validate:"omitempty,max=100"`
	Unit            *enums.StockUnit `json:"unit,omitempty" validate:"omitempty,enum"`
	CurrentQuantity *decimal.Decimal `json:"current_quantity,omitempty" validate:"omitempty,gte=0"`
	MinimumQuantity *decimal.Decimal `json:"minimum_quantity,omitempty" validate:"omitempty,gte=0"`
	CostPerUnit     *decimal.Decimal `json:"cost_per_unit,omitempty" validate:"omitempty,gte=0"`
	Supplier        *string          `json:"supplier,omitempty" validate:"omitempty,max=200"`
	Notes           *string          `json:"notes,omitempty"`
}

// UpdateItemRequest cannot change current_quantity; record a movement instead.
type UpdateItemRequest struct {
	Name            *string                         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Category        types.Nullable[string]          `json:"category" validate:"omitempty,max=100"`
	Unit            *enums.StockUnit                `json:"unit,omitempty" validate:"omitempty,enum"`
	MinimumQuantity *decimal.Decimal                `json:"minimum_quantity,omitempty" validate:"omitempty,gte=0"`
	CostPerUnit     types.Nullable[decimal.Decimal] `json:"cost_per_unit" validate:"omitempty,gte=0"`
	Supplier        types.Nullable[string]          `json:"supplier" validate:"omitempty,max=200"`
	Notes           types.Nullable[string]          `json:"notes"`
}

type CreateMovementRequest struct {
	StockItemID  uuid.UUID          `json:"stock_item_id" validate:"required"`
	MovementType enums.MovementType `json:"movement_type" validate:"required,enum"`
	Quantity     *decimal.Decimal   `json:"quantity" validate:"required"`
	Reason       *string            `json:"reason,omitempty" validate:"omitempty,max=500"`
	Reference    *string            `json:"reference,omitempty" validate:"omitempty,max=200"`
}

// UpdateMovementRequest may retarget the movement to another item.
type UpdateMovementRequest struct {
	StockItemID  *uuid.UUID             `json:"stock_item_id,omitempty"`
	MovementType *enums.MovementType    `json:"movement_type,omitempty" validate:"omitempty,enum"`
	Quantity     *decimal.Decimal       `json:"quantity,omitempty"`
	Reason       types.Nullable[string] `json:"reason" validate:"omitempty,max=500"`
	Reference    types.Nullable[string] `json:"reference" validate:"omitempty,max=200"`
}

type ItemFilter struct {
	LowStockOnly bool
	Category     string
}

func FromItemModel(i *models.StockItem) ItemDTO {
	return ItemDTO{
		ID:              i.ID,
		Name:            i.Name,
		Category:        i.Category,
		Unit:            i.Unit,
		CurrentQuantity: i.CurrentQuantity,
		MinimumQuantity: i.MinimumQuantity,
		CostPerUnit:     i.CostPerUnit,
		Supplier:        i.Supplier,
		Notes:           i.Notes,
		LowStock:        i.CurrentQuantity.LessThanOrEqual(i.MinimumQuantity),
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func FromMovementModel(m *models.StockMovement) MovementDTO {
	return MovementDTO{
		ID:           m.ID,
		StockItemID:  m.StockItemID,
		MovementType: m.MovementType,
		Quantity:     m.Quantity,
		Delta:        m.Delta(),
		Reason:       m.Reason,
		Reference:    m.Reference,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r CreateItemRequest) toModel(userID uuid.UUID) *models.StockItem {
	unit := enums.StockUnitPiece
	if r.Unit != nil {
		unit = *r.Unit
	}
	item := &models.StockItem{
		UserID:          userID,
		Name:            r.Name,
		Category:        r.Category,
		Unit:            unit,
		CurrentQuantity: decimal.Zero,
		MinimumQuantity: decimal.Zero,
		CostPerUnit:     r.CostPerUnit,
		Supplier:        r.Supplier,
		Notes:           r.Notes,
	}
	if r.CurrentQuantity != nil {
		item.CurrentQuantity = *r.CurrentQuantity
	}
	if r.MinimumQuantity != nil {
		item.MinimumQuantity = *r.MinimumQuantity
	}
	return item
}

func (r UpdateItemRequest) apply(i *models.StockItem) {
	if r.Name != nil {
		i.Name = *r.Name
	}
	if r.Unit != nil {
		i.Unit = *r.Unit
	}
	if r.MinimumQuantity != nil {
		i.MinimumQuantity = *r.MinimumQuantity
	}
	r.Category.Apply(&i.Category)
	r.CostPerUnit.Apply(&i.CostPerUnit)
	r.Supplier.Apply(&i.Supplier)
	r.Notes.Apply(&i.Notes)
}
