package galleries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
)

// Repository persists galleries scoped to their owner.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]models.Gallery, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Gallery
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Get(ctx context.Context, userID, id uuid.UUID) (*models.Gallery, error) {
	var g models.Gallery
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *Repository) Create(ctx context.Context, g *models.Gallery) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *Repository) Save(ctx context.Context, g *models.Gallery) error {
	return r.db.WithContext(ctx).Save(g).Error
}

// Delete removes the gallery and detaches pieces and orders that pointed at it.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Piece{}).
		Where("user_id = ? AND gallery_id = ?", userID, id).
		Update("gallery_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Order{}).
		Where("user_id = ? AND gallery_id = ?", userID, id).
		Update("gallery_id", nil).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Gallery{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
