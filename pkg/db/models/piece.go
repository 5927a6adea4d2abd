package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/enums"
)

// Piece is a single tracked artwork.
type Piece struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID         uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_pieces_user_unique_id,priority:1"`
	UniqueID       string            `gorm:"column:unique_id;not null;uniqueIndex:ux_pieces_user_unique_id,priority:2"`
	Name           string            `gorm:"column:name;not null"`
	Description    *string           `gorm:"column:description"`
	PieceTypeID    *uuid.UUID        `gorm:"column:piece_type_id;type:uuid;index"`
	PieceSubtypeID *uuid.UUID        `gorm:"column:piece_subtype_id;type:uuid"`
	Status         enums.PieceStatus `gorm:"column:status;type:text;not null"`
	Location       *string           `gorm:"column:location"`
	GalleryID      *uuid.UUID        `gorm:"column:gallery_id;type:uuid;index"`
	Dimensions     *string           `gorm:"column:dimensions"`
	WeightGrams    *int              `gorm:"column:weight_grams"`
	Price          *decimal.Decimal  `gorm:"column:price;type:numeric(12,2)"`
	Cost           *decimal.Decimal  `gorm:"column:cost;type:numeric(12,2)"`
	ImageURL       *string           `gorm:"column:image_url"`
	Notes          *string           `gorm:"column:notes"`
	CompletedAt    *time.Time        `gorm:"column:completed_at"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Piece) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
