package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/internal/scope"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/metrics"
)

const (
	itemResource     = "stock item"
	movementResource = "stock movement"

	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Service manages stock items and the movements that change their quantity.
// Every movement write adjusts the item's current quantity in the same
// transaction and is refused when the quantity would drop below zero.
type Service interface {
	ListItems(ctx context.Context, userID uuid.UUID, f ItemFilter) ([]ItemDTO, error)
	GetItem(ctx context.Context, userID, id uuid.UUID) (*ItemDTO, error)
	CreateItem(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error)
	UpdateItem(ctx context.Context, userID, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error)
	DeleteItem(ctx context.Context, userID, id uuid.UUID) error

	ListMovements(ctx context.Context, userID uuid.UUID, itemID *uuid.UUID) ([]MovementDTO, error)
	GetMovement(ctx context.Context, userID, id uuid.UUID) (*MovementDTO, error)
	CreateMovement(ctx context.Context, userID uuid.UUID, req CreateMovementRequest) (*MovementDTO, error)
	UpdateMovement(ctx context.Context, userID, id uuid.UUID, req UpdateMovementRequest) (*MovementDTO, error)
	DeleteMovement(ctx context.Context, userID, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db      txRunner
	repo    *Repository
	metrics *metrics.StockMetrics
}

// NewService builds the stock service. m may be nil.
func NewService(client *db.Client, m *metrics.StockMetrics) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{db: client, repo: NewRepository(client.DB()), metrics: m}, nil
}

func (s *service) ListItems(ctx context.Context, userID uuid.UUID, f ItemFilter) ([]ItemDTO, error) {
	rows, err := s.repo.ListItems(ctx, userID, f)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromItemModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetItem(ctx context.Context, userID, id uuid.UUID) (*ItemDTO, error) {
	row, err := s.repo.GetItem(ctx, userID, id)
	if err != nil {
		return nil, scope.Translate(err, itemResource, "load stock item")
	}
	dto := FromItemModel(row)
	return &dto, nil
}

func (s *service) CreateItem(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"name": "is required"})
	}
	row := req.toModel(userID)
	if row.CurrentQuantity.IsNegative() {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"current_quantity": "must not be negative"})
	}
	if err := s.repo.CreateItem(ctx, row); err != nil {
		return nil, translateItemWrite(err, "create stock item")
	}
	dto := FromItemModel(row)
	return &dto, nil
}

func (s *service) UpdateItem(ctx context.Context, userID, id uuid.UUID, req UpdateItemRequest) (*ItemDTO, error) {
	var out ItemDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.LockItem(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, itemResource, "load stock item")
		}
		req.apply(row)
		row.Name = strings.TrimSpace(row.Name)
		if row.Name == "" {
			return pkgerrors.Validation("validation failed", map[string]string{"name": "must not be empty"})
		}
		if err := repo.SaveItem(ctx, row); err != nil {
			return translateItemWrite(err, "update stock item")
		}
		out = FromItemModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return scope.Translate(NewRepository(tx).DeleteItem(ctx, userID, id), itemResource, "delete stock item")
	})
}

func (s *service) ListMovements(ctx context.Context, userID uuid.UUID, itemID *uuid.UUID) ([]MovementDTO, error) {
	rows, err := s.repo.ListMovements(ctx, userID, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock movements")
	}
	out := make([]MovementDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromMovementModel(&rows[i]))
	}
	return out, nil
}

func (s *service) GetMovement(ctx context.Context, userID, id uuid.UUID) (*MovementDTO, error) {
	row, err := s.repo.GetMovement(ctx, userID, id)
	if err != nil {
		return nil, scope.Translate(err, movementResource, "load stock movement")
	}
	dto := FromMovementModel(row)
	return &dto, nil
}

func (s *service) CreateMovement(ctx context.Context, userID uuid.UUID, req CreateMovementRequest) (*MovementDTO, error) {
	if req.Quantity == nil {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"quantity": "is required"})
	}
	if err := req.MovementType.ValidateQuantity(*req.Quantity); err != nil {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"quantity": err.Error()})
	}
	row := &models.StockMovement{
		UserID:       userID,
		StockItemID:  req.StockItemID,
		MovementType: req.MovementType,
		Quantity:     *req.Quantity,
		Reason:       req.Reason,
		Reference:    req.Reference,
	}

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		if err := s.applyDelta(ctx, repo, userID, row.StockItemID, row.Delta(), opCreate); err != nil {
			return err
		}
		if err := repo.CreateMovement(ctx, row); err != nil {
			return scope.Translate(err, movementResource, "create stock movement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncApplied(opCreate)
	dto := FromMovementModel(row)
	return &dto, nil
}

// UpdateMovement replaces the movement's effect on stock. When the item is
// unchanged only the net difference is applied; when it moves to another
// item the old effect is reverted there before the new one is applied.
func (s *service) UpdateMovement(ctx context.Context, userID, id uuid.UUID, req UpdateMovementRequest) (*MovementDTO, error) {
	var out MovementDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.GetMovement(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, movementResource, "load stock movement")
		}
		oldItem, oldDelta := row.StockItemID, row.Delta()

		if req.StockItemID != nil {
			row.StockItemID = *req.StockItemID
		}
		if req.MovementType != nil {
			row.MovementType = *req.MovementType
		}
		if req.Quantity != nil {
			row.Quantity = *req.Quantity
		}
		req.Reason.Apply(&row.Reason)
		req.Reference.Apply(&row.Reference)
		if err := row.MovementType.ValidateQuantity(row.Quantity); err != nil {
			return pkgerrors.Validation("validation failed", map[string]string{"quantity": err.Error()})
		}
		newDelta := row.Delta()

		if row.StockItemID == oldItem {
			if err := s.applyDelta(ctx, repo, userID, oldItem, newDelta.Sub(oldDelta), opUpdate); err != nil {
				return err
			}
		} else {
			if err := s.applyDelta(ctx, repo, userID, oldItem, oldDelta.Neg(), opUpdate); err != nil {
				return err
			}
			if err := s.applyDelta(ctx, repo, userID, row.StockItemID, newDelta, opUpdate); err != nil {
				return err
			}
		}
		if err := repo.SaveMovement(ctx, row); err != nil {
			return scope.Translate(err, movementResource, "update stock movement")
		}
		out = FromMovementModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.IncApplied(opUpdate)
	return &out, nil
}

func (s *service) DeleteMovement(ctx context.Context, userID, id uuid.UUID) error {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.GetMovement(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, movementResource, "load stock movement")
		}
		if err := s.applyDelta(ctx, repo, userID, row.StockItemID, row.Delta().Neg(), opDelete); err != nil {
			return err
		}
		if err := repo.DeleteMovement(ctx, row.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete stock movement")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncApplied(opDelete)
	return nil
}

// applyDelta locks the item and adds delta to its current quantity.
func (s *service) applyDelta(ctx context.Context, repo *Repository, userID, itemID uuid.UUID, delta decimal.Decimal, op string) error {
	item, err := repo.LockItem(ctx, userID, itemID)
	if err != nil {
		return scope.Translate(err, itemResource, "lock stock item")
	}
	if delta.IsZero() {
		return nil
	}
	next := item.CurrentQuantity.Add(delta)
	if next.IsNegative() {
		s.metrics.IncRejected(op)
		return pkgerrors.New(pkgerrors.CodeStateConflict, "insufficient stock").WithDetails(map[string]any{
			"stock_item_id":    item.ID.String(),
			"current_quantity": item.CurrentQuantity.String(),
			"delta":            delta.String(),
		})
	}
	if err := repo.SetQuantity(ctx, item.ID, next); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock quantity")
	}
	return nil
}

func translateItemWrite(err error, action string) error {
	if db.IsUniqueViolation(err) {
		return pkgerrors.Conflict(err, "a stock item with this name already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
