package pieces

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns up to limit+1 rows in (created_at, id) descending order so the
// caller can tell whether another page exists.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, f ListFilter, cursor *pagination.Cursor) ([]models.Piece, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.GalleryID != nil {
		q = q.Where("gallery_id = ?", *f.GalleryID)
	}
	if f.PieceTypeID != nil {
		q = q.Where("piece_type_id = ?", *f.PieceTypeID)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(unique_id) LIKE ? ESCAPE '\\')", like, like)
	}
	if cursor != nil {
		q = q.Where("((created_at < ?) OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Piece
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(f.Page.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Get(ctx context.Context, userID, id uuid.UUID) (*models.Piece, error) {
	var p models.Piece
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *models.Piece) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *Repository) Save(ctx context.Context, p *models.Piece) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes the piece, unlinks it from order items and drops its event
// attachments.
func (r *Repository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.OrderItem{}).
		Where("user_id = ? AND piece_id = ?", userID, id).
		Update("piece_id", nil).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ? AND piece_id = ?", userID, id).Delete(&models.EventPiece{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Piece{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
