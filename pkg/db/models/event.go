package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/enums"
)

// Event is an exhibition, fair or market the workshop takes part in.
type Event struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Name        string            `gorm:"column:name;not null"`
	EventType   enums.EventType   `gorm:"column:event_type;type:text;not null"`
	Status      enums.EventStatus `gorm:"column:status;type:text;not null"`
	Location    *string           `gorm:"column:location"`
	StartDate   time.Time         `gorm:"column:start_date;not null"`
	EndDate     *time.Time        `gorm:"column:end_date"`
	Description *string           `gorm:"column:description"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

// EventPiece links a piece to an event it is shown at.
type EventPiece struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:ux_event_pieces_event_piece,priority:1"`
	PieceID   uuid.UUID `gorm:"column:piece_id;type:uuid;not null;uniqueIndex:ux_event_pieces_event_piece,priority:2"`
	Notes     *string   `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (e *EventPiece) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}
