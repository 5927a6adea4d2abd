package piecetypes

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
)

// Repository persists piece types and subtypes scoped to their owner.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListTypes(ctx context.Context, userID uuid.UUID) ([]models.PieceType, error) {
	var rows []models.PieceType
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetType(ctx context.Context, userID, id uuid.UUID) (*models.PieceType, error) {
	var row models.PieceType
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindTypeByName(ctx context.Context, userID uuid.UUID, name string) (*models.PieceType, error) {
	var row models.PieceType
	if err := r.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateType(ctx context.Context, row *models.PieceType) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) SaveType(ctx context.Context, row *models.PieceType) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// DeleteType removes the type with its subtypes and clears the references
// held by pieces.
func (r *Repository) DeleteType(ctx context.Context, userID, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Piece{}).
		Where("user_id = ? AND piece_type_id = ?", userID, id).
		Updates(map[string]any{"piece_type_id": nil, "piece_subtype_id": nil}).Error; err != nil {
		return err
	}
	if err := tx.Where("user_id = ? AND piece_type_id = ?", userID, id).Delete(&models.PieceSubtype{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PieceType{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListSubtypes returns the owner's subtypes, optionally for one type.
func (r *Repository) ListSubtypes(ctx context.Context, userID uuid.UUID, typeID *uuid.UUID) ([]models.PieceSubtype, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if typeID != nil {
		q = q.Where("piece_type_id = ?", *typeID)
	}
	var rows []models.PieceSubtype
	err := q.Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) GetSubtype(ctx context.Context, userID, id uuid.UUID) (*models.PieceSubtype, error) {
	var row models.PieceSubtype
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindSubtypeByName(ctx context.Context, typeID uuid.UUID, name string) (*models.PieceSubtype, error) {
	var row models.PieceSubtype
	if err := r.db.WithContext(ctx).Where("piece_type_id = ? AND name = ?", typeID, name).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) CreateSubtype(ctx context.Context, row *models.PieceSubtype) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) SaveSubtype(ctx context.Context, row *models.PieceSubtype) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *Repository) DeleteSubtype(ctx context.Context, userID, id uuid.UUID) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Model(&models.Piece{}).
		Where("user_id = ? AND piece_subtype_id = ?", userID, id).
		Update("piece_subtype_id", nil).Error; err != nil {
		return err
	}
	res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.PieceSubtype{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
