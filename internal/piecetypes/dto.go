package piecetypes

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

type PieceTypeDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Subtypes    []PieceSubtypeDTO `json:"subtypes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type PieceSubtypeDTO struct {
	ID          uuid.UUID `json:"id"`
	PieceTypeID uuid.UUID `json:"piece_type_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreatePieceTypeRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description,omitempty"`
}

type UpdatePieceTypeRequest struct {
	Name        *string                `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description types.Nullable[string] `json:"description"`
}

type CreatePieceSubtypeRequest struct {
	PieceTypeID uuid.UUID `json:"piece_type_id" validate:"required"`
	Name        string    `json:"name" validate:"required,max=100"`
	Description *string   `json:"description,omitempty"`
}

// UpdatePieceSubtypeRequest may move the subtype under another type.
type UpdatePieceSubtypeRequest struct {
	PieceTypeID *uuid.UUID             `json:"piece_type_id,omitempty"`
	Name        *string                `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description types.Nullable[string] `json:"description"`
}

func FromTypeModel(t *models.PieceType) PieceTypeDTO {
	return PieceTypeDTO{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromSubtypeModel(s *models.PieceSubtype) PieceSubtypeDTO {
	return PieceSubtypeDTO{
		ID:          s.ID,
		PieceTypeID: s.PieceTypeID,
		Name:        s.Name,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
