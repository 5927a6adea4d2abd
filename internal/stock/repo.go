package stock

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
)

// Repository persists stock items and movements scoped to their owner.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, f ItemFilter) ([]models.StockItem, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.LowStockOnly {
		q = q.Where("current_quantity <= minimum_quantity")
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	var rows []models.StockItem
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetItem(ctx context.Context, userID, id uuid.UUID) (*models.StockItem, error) {
	var row models.StockItem
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// LockItem reads the item with a row lock held until the transaction ends.
func (r *Repository) LockItem(ctx context.Context, userID, id uuid.UUID) (*models.StockItem, error) {
	var row models.StockItem
	err := db.ForUpdate(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) SetQuantity(ctx context.Context, id uuid.UUID, qty decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("id = ?", id).
		Update("current_quantity", qty).Error
}

func (r *Repository) CreateItem(ctx context.Context, row *models.StockItem) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// SaveItem writes the item's descriptive columns. current_quantity is owned
// by the movement bookkeeping and only changes through SetQuantity.
func (r *Repository) SaveItem(ctx context.Context, row *models.StockItem) error {
	return r.db.WithContext(ctx).Omit("current_quantity").Save(row).Error
}

// DeleteItem removes the item and its movement history. The quantity is not
// replayed; the history simply goes with the item.
func (r *Repository) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("user_id = ? AND stock_item_id = ?", userID, id).Delete(&models.StockMovement{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.StockItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ListMovements(ctx context.Context, userID uuid.UUID, itemID *uuid.UUID) ([]models.StockMovement, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if itemID != nil {
		q = q.Where("stock_item_id = ?", *itemID)
	}
	var rows []models.StockMovement
	err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetMovement(ctx context.Context, userID, id uuid.UUID) (*models.StockMovement, error) {
	var row models.StockMovement
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateMovement(ctx context.Context, row *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) SaveMovement(ctx context.Context, row *models.StockMovement) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *Repository) DeleteMovement(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.StockMovement{}).Error
}
