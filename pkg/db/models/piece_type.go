package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PieceType is a user-defined category of pieces (vase, bowl, pendant).
type PieceType struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:ux_piece_types_user_name,priority:1"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:ux_piece_types_user_name,priority:2"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PieceType) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}

// PieceSubtype refines a PieceType.
type PieceSubtype struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	PieceTypeID uuid.UUID `gorm:"column:piece_type_id;type:uuid;not null;uniqueIndex:ux_piece_subtypes_type_name,priority:1"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:ux_piece_subtypes_type_name,priority:2"`
	Description *string   `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *PieceSubtype) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
