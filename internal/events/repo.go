package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List orders events by start date. With since set only events that have not
// finished before it are returned.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, f ListFilter, since *time.Time) ([]models.Event, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if since != nil {
		q = q.Where("COALESCE(end_date, start_date) >= ?", *since)
	}
	var rows []models.Event
	err := q.Order("start_date ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) Get(ctx context.Context, userID, id uuid.UUID) (*models.Event, error) {
	var e models.Event
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *Repository) Save(ctx context.Context, e *models.Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

// Delete removes the event and its piece links. The pieces themselves stay.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("user_id = ? AND event_id = ?", userID, id).Delete(&models.EventPiece{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) ListPieces(ctx context.Context, userID, eventID uuid.UUID) ([]models.EventPiece, error) {
	var rows []models.EventPiece
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) CreatePiece(ctx context.Context, p *models.EventPiece) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) DeletePiece(ctx context.Context, userID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.EventPiece{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
