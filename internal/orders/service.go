package orders

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/internal/scope"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
)

const (
	orderResource = "order"
	itemResource  = "order item"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order and order-item operations. Item writes keep the
// order's total_amount equal to the sum of its item prices.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*pagination.Page[OrderDTO], error)
	Get(ctx context.Context, userID, id uuid.UUID) (*OrderDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateOrderRequest) (*OrderDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	ListItems(ctx context.Context, userID, orderID uuid.UUID) ([]ItemDTO, error)
	CreateItem(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error)
	UpdateItem(ctx context.Context, userID, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	DeleteItem(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		repo: NewRepository(client.DB()),
		tx:   client,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*pagination.Page[OrderDTO], error) {
	cursor, err := pagination.ParseCursor(filter.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Validation("invalid cursor", map[string]string{"cursor": err.Error()})
	}
	rows, err := s.repo.ListOrders(ctx, userID, filter, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	rows, next := pagination.Trim(rows, filter.Page.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	items := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		items = append(items, FromOrderModel(&rows[i]))
	}
	return &pagination.Page[OrderDTO]{Items: items, NextCursor: next}, nil
}

// Get returns the order with its items.
func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindOrder(ctx, userID, id)
	if err != nil {
		return nil, scope.Translate(err, orderResource, "load order")
	}
	items, err := s.repo.ListItems(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	dto := FromOrderModel(order)
	dto.Items = make([]ItemDTO, 0, len(items))
	for i := range items {
		dto.Items = append(dto.Items, FromItemModel(&items[i]))
	}
	return &dto, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderDTO, error) {
	order := req.toModel(userID, s.now())
	if err := normalizeOrder(order); err != nil {
		return nil, err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := scope.RequireOptional(ctx, tx, &models.Gallery{}, "gallery", userID, order.GalleryID); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).CreateOrder(ctx, order); err != nil {
			return translateOrderWrite(err, "create order")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromOrderModel(order)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateOrderRequest) (*OrderDTO, error) {
	var out OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockOrder(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, orderResource, "load order")
		}
		req.apply(order)
		if err := normalizeOrder(order); err != nil {
			return err
		}
		if req.GalleryID.Set {
			if err := scope.RequireOptional(ctx, tx, &models.Gallery{}, "gallery", userID, order.GalleryID); err != nil {
				return err
			}
		}
		if err := repo.SaveOrder(ctx, order); err != nil {
			return translateOrderWrite(err, "update order")
		}
		out = FromOrderModel(order)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := lockOrders(ctx, repo, userID, id); err != nil {
			return err
		}
		return scope.Translate(repo.DeleteOrder(ctx, userID, id), orderResource, "delete order")
	})
}

func (s *service) ListItems(ctx context.Context, userID, orderID uuid.UUID) ([]ItemDTO, error) {
	if _, err := s.repo.FindOrder(ctx, userID, orderID); err != nil {
		return nil, scope.Translate(err, orderResource, "load order")
	}
	rows, err := s.repo.ListItems(ctx, userID, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromItemModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateItem(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	item := &models.OrderItem{
		UserID:      userID,
		OrderID:     req.OrderID,
		PieceID:     req.PieceID,
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := lockOrders(ctx, repo, userID, item.OrderID); err != nil {
			return err
		}
		if err := scope.RequireOptional(ctx, tx, &models.Piece{}, "piece", userID, item.PieceID); err != nil {
			return err
		}
		if err := repo.CreateItem(ctx, item); err != nil {
			return scope.Translate(err, itemResource, "create order item")
		}
		_, err := RecalculateTotal(ctx, tx, userID, item.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	dto := FromItemModel(item)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, userID, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	var out ItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := lockItemOrders(ctx, repo, userID, id, req.OrderID)
		if err != nil {
			return err
		}
		previousOrder := item.OrderID

		if req.OrderID != nil {
			item.OrderID = *req.OrderID
		}
		if req.Description != nil {
			item.Description = strings.TrimSpace(*req.Description)
		}
		if req.Price != nil {
			item.Price = *req.Price
		}
		req.PieceID.Apply(&item.PieceID)
		if err := validateItem(item); err != nil {
			return err
		}
		if req.PieceID.Set {
			if err := scope.RequireOptional(ctx, tx, &models.Piece{}, "piece", userID, item.PieceID); err != nil {
				return err
			}
		}
		if err := repo.SaveItem(ctx, item); err != nil {
			return scope.Translate(err, itemResource, "update order item")
		}
		if _, err := RecalculateTotal(ctx, tx, userID, item.OrderID); err != nil {
			return err
		}
		if item.OrderID != previousOrder {
			if _, err := RecalculateTotal(ctx, tx, userID, previousOrder); err != nil {
				return err
			}
		}
		out = FromItemModel(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := lockItemOrders(ctx, repo, userID, id, nil)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, userID, id); err != nil {
			return scope.Translate(err, itemResource, "delete order item")
		}
		_, err = RecalculateTotal(ctx, tx, userID, item.OrderID)
		return err
	})
}

// RecalculateTotal sums the order's item prices and stores the result as the
// order's total_amount. It must run inside the transaction that changed the
// items. The order row is locked before the sum so concurrent item writes on
// the same order serialise and the last writer sees every committed item.
func RecalculateTotal(ctx context.Context, tx *gorm.DB, userID, orderID uuid.UUID) (decimal.Decimal, error) {
	repo := NewRepository(tx)
	if err := lockOrders(ctx, repo, userID, orderID); err != nil {
		return decimal.Zero, err
	}
	items, err := repo.ListItems(ctx, userID, orderID)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order items")
	}
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	if err := repo.UpdateOrderTotal(ctx, userID, orderID, total); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order total")
	}
	return total, nil
}

// lockOrders takes row locks on the given orders in a fixed order so two
// transactions touching the same pair cannot deadlock.
func lockOrders(ctx context.Context, repo Repository, userID uuid.UUID, ids ...uuid.UUID) error {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ordered = slices.Compact(ordered)
	for _, id := range ordered {
		if _, err := repo.LockOrder(ctx, userID, id); err != nil {
			return scope.Translate(err, orderResource, "lock order")
		}
	}
	return nil
}

// lockItemOrders locks the order that holds the item, plus target when the
// item is being moved, and returns the item as read under those locks.
func lockItemOrders(ctx context.Context, repo Repository, userID, itemID uuid.UUID, target *uuid.UUID) (*models.OrderItem, error) {
	item, err := repo.FindItem(ctx, userID, itemID)
	if err != nil {
		return nil, scope.Translate(err, itemResource, "load order item")
	}
	ids := []uuid.UUID{item.OrderID}
	if target != nil {
		ids = append(ids, *target)
	}
	if err := lockOrders(ctx, repo, userID, ids...); err != nil {
		return nil, err
	}
	current, err := repo.FindItem(ctx, userID, itemID)
	if err != nil {
		return nil, scope.Translate(err, itemResource, "load order item")
	}
	if current.OrderID != item.OrderID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order item was moved by another request")
	}
	return current, nil
}

func normalizeOrder(o *models.Order) error {
	o.OrderNumber = strings.TrimSpace(o.OrderNumber)
	o.CustomerName = strings.TrimSpace(o.CustomerName)
	fields := map[string]string{}
	if o.OrderNumber == "" {
		fields["order_number"] = "is required"
	}
	if o.CustomerName == "" {
		fields["customer_name"] = "is required"
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("validation failed", fields)
	}
	return nil
}

func validateItem(item *models.OrderItem) error {
	fields := map[string]string{}
	if item.Description == "" {
		fields["description"] = "is required"
	}
	if item.Price.IsNegative() {
		fields["price"] = "must be greater than or equal to 0"
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("validation failed", fields)
	}
	return nil
}

func translateOrderWrite(err error, action string) error {
	if db.IsUniqueViolation(err) {
		return pkgerrors.Conflict(err, "order number already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
