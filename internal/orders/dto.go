package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

type OrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	OrderNumber   string            `json:"order_number"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail *string           `json:"customer_email"`
	CustomerPhone *string           `json:"customer_phone"`
	GalleryID     *uuid.UUID        `json:"gallery_id"`
	Status        enums.OrderStatus `json:"status"`
	OrderDate     time.Time         `json:"order_date"`
	DueDate       *time.Time        `json:"due_date"`
	TotalAmount   decimal.Decimal   `json:"total_amount"`
	Notes         *string           `json:"notes"`
	Items         []ItemDTO         `json:"items,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderID     uuid.UUID       `json:"order_id"`
	PieceID     *uuid.UUID      `json:"piece_id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateOrderRequest opens an order. The total starts at zero and follows the
// items added later.
type CreateOrderRequest struct {
	OrderNumber   string             `json:"order_number" validate:"required,max=64"`
	CustomerName  string             `json:"customer_name" validate:"required,max=200"`
	CustomerEmail *string            `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone *string            `json:"customer_phone,omitempty" validate:"omitempty,max=50"`
	GalleryID     *uuid.UUID         `json:"gallery_id,omitempty"`
	Status        *enums.OrderStatus `json:"status,omitempty" validate:"omitempty,enum"`
	OrderDate     *types.Date        `json:"order_date,omitempty"`
	DueDate       *types.Date        `json:"due_date,omitempty"`
	Notes         *string            `json:"notes,omitempty"`
}

// UpdateOrderRequest has no total_amount; the total is always derived.
type UpdateOrderRequest struct {
	OrderNumber   *string                    `json:"order_number,omitempty" validate:"omitempty,min=1,max=64"`
	CustomerName  *string                    `json:"customer_name,omitempty" validate:"omitempty,min=1,max=200"`
	CustomerEmail types.Nullable[string]     `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone types.Nullable[string]     `json:"customer_phone" validate:"omitempty,max=50"`
	GalleryID     types.Nullable[uuid.UUID]  `json:"gallery_id"`
	Status        *enums.OrderStatus         `json:"status,omitempty" validate:"omitempty,enum"`
	OrderDate     *types.Date                `json:"order_date,omitempty"`
	DueDate       types.Nullable[types.Date] `json:"due_date"`
	Notes         types.Nullable[string]     `json:"notes"`
}

type CreateItemRequest struct {
	OrderID     uuid.UUID       `json:"order_id" validate:"required"`
	PieceID     *uuid.UUID      `json:"piece_id,omitempty"`
	Description string          `json:"description" validate:"required,max=500"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
}

// UpdateItemRequest may move the item to another order of the same owner.
type UpdateItemRequest struct {
	OrderID     *uuid.UUID                `json:"order_id,omitempty"`
	PieceID     types.Nullable[uuid.UUID] `json:"piece_id"`
	Description *string                   `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	Price       *decimal.Decimal          `json:"price,omitempty" validate:"omitempty,gte=0"`
}

type ListFilter struct {
	Status    *enums.OrderStatus
	GalleryID *uuid.UUID
	Page      pagination.Params
}

func FromOrderModel(o *models.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		GalleryID:     o.GalleryID,
		Status:        o.Status,
		OrderDate:     o.OrderDate,
		DueDate:       o.DueDate,
		TotalAmount:   o.TotalAmount,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func FromItemModel(i *models.OrderItem) ItemDTO {
	return ItemDTO{
		ID:          i.ID,
		OrderID:     i.OrderID,
		PieceID:     i.PieceID,
		Description: i.Description,
		Price:       i.Price,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func (r CreateOrderRequest) toModel(userID uuid.UUID, now time.Time) *models.Order {
	status := enums.OrderStatusPending
	if r.Status != nil {
		status = *r.Status
	}
	o := &models.Order{
		UserID:        userID,
		OrderNumber:   r.OrderNumber,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		GalleryID:     r.GalleryID,
		Status:        status,
		OrderDate:     now,
		TotalAmount:   decimal.Zero,
		Notes:         r.Notes,
	}
	if r.OrderDate != nil {
		o.OrderDate = r.OrderDate.Time
	}
	if r.DueDate != nil {
		t := r.DueDate.Time
		o.DueDate = &t
	}
	return o
}

func (r UpdateOrderRequest) apply(o *models.Order) {
	if r.OrderNumber != nil {
		o.OrderNumber = *r.OrderNumber
	}
	if r.CustomerName != nil {
		o.CustomerName = *r.CustomerName
	}
	if r.Status != nil {
		o.Status = *r.Status
	}
	if r.OrderDate != nil {
		o.OrderDate = r.OrderDate.Time
	}
	r.CustomerEmail.Apply(&o.CustomerEmail)
	r.CustomerPhone.Apply(&o.CustomerPhone)
	r.GalleryID.Apply(&o.GalleryID)
	r.Notes.Apply(&o.Notes)
	if r.DueDate.Set {
		if d, ok := r.DueDate.Present(); ok {
			t := d.Time
			o.DueDate = &t
		} else {
			o.DueDate = nil
		}
	}
}
