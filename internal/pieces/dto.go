package pieces

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

type PieceDTO struct {
	ID             uuid.UUID         `json:"id"`
	UniqueID       string            `json:"unique_id"`
	Name           string            `json:"name"`
	Description    *string           `json:"description"`
	PieceTypeID    *uuid.UUID        `json:"piece_type_id"`
	PieceSubtypeID *uuid.UUID        `json:"piece_subtype_id"`
	Status         enums.PieceStatus `json:"status"`
	Location       *string           `json:"location"`
	GalleryID      *uuid.UUID        `json:"gallery_id"`
	Dimensions     *string           `json:"dimensions"`
	WeightGrams    *int              `json:"weight_grams"`
	Price          *decimal.Decimal  `json:"price"`
	Cost           *decimal.Decimal  `json:"cost"`
	ImageURL       *string           `json:"image_url"`
	Notes          *string           `json:"notes"`
	CompletedAt    *time.Time        `json:"completed_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

type CreatePieceRequest struct {
	UniqueID       string             `json:"unique_id" validate:"required,max=64"`
	Name           string             `json:"name" validate:"required,max=200"`
	Description    *string            `json:"description,omitempty"`
	PieceTypeID    *uuid.UUID         `json:"piece_type_id,omitempty"`
	PieceSubtypeID *uuid.UUID         `json:"piece_subtype_id,omitempty"`
	Status         *enums.PieceStatus `json:"status,omitempty" validate:"omitempty,enum"`
	Location       *string            `json:"location,omitempty" validate:"omitempty,max=200"`
	GalleryID      *uuid.UUID         `json:"gallery_id,omitempty"`
	Dimensions     *string            `json:"dimensions,omitempty" validate:"omitempty,max=100"`
	WeightGrams    *int               `json:"weight_grams,omitempty" validate:"omitempty,gte=0"`
	Price          *decimal.Decimal   `json:"price,omitempty" validate:"omitempty,gte=0"`
	Cost           *decimal.Decimal   `json:"cost,omitempty" validate:"omitempty,gte=0"`
	ImageURL       *string            `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	Notes          *string            `json:"notes,omitempty"`
	CompletedAt    *types.Date        `json:"completed_at,omitempty"`
}

type UpdatePieceRequest struct {
	UniqueID       *string                         `json:"unique_id,omitempty" validate:"omitempty,min=1,max=64"`
	Name           *string                         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description    types.Nullable[string]          `json:"description"`
	PieceTypeID    types.Nullable[uuid.UUID]       `json:"piece_type_id"`
	PieceSubtypeID types.Nullable[uuid.UUID]       `json:"piece_subtype_id"`
	Status         *enums.PieceStatus              `json:"status,omitempty" validate:"omitempty,enum"`
	Location       types.Nullable[string]          `json:"location" validate:"omitempty,max=200"`
	GalleryID      types.Nullable[uuid.UUID]       `json:"gallery_id"`
	Dimensions     types.Nullable[string]          `json:"dimensions" validate:"omitempty,max=100"`
	WeightGrams    types.Nullable[int]             `json:"weight_grams" validate:"omitempty,gte=0"`
	Price          types.Nullable[decimal.Decimal] `json:"price" validate:"omitempty,gte=0"`
	Cost           types.Nullable[decimal.Decimal] `json:"cost" validate:"omitempty,gte=0"`
	ImageURL       types.Nullable[string]          `json:"image_url" validate:"omitempty,max=2048"`
	Notes          types.Nullable[string]          `json:"notes"`
	CompletedAt    types.Nullable[types.Date]      `json:"completed_at"`
}

// ListFilter narrows the piece listing. Search matches name or unique id.
type ListFilter struct {
	Status      *enums.PieceStatus
	GalleryID   *uuid.UUID
	PieceTypeID *uuid.UUID
	Search      string
	Page        pagination.Params
}

func FromModel(p *models.Piece) PieceDTO {
	return PieceDTO{
		ID:             p.ID,
		UniqueID:       p.UniqueID,
		Name:           p.Name,
		Description:    p.Description,
		PieceTypeID:    p.PieceTypeID,
		PieceSubtypeID: p.PieceSubtypeID,
		Status:         p.Status,
		Location:       p.Location,
		GalleryID:      p.GalleryID,
		Dimensions:     p.Dimensions,
		WeightGrams:    p.WeightGrams,
		Price:          p.Price,
		Cost:           p.Cost,
		ImageURL:       p.ImageURL,
		Notes:          p.Notes,
		CompletedAt:    p.CompletedAt,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r CreatePieceRequest) toModel(userID uuid.UUID) *models.Piece {
	status := enums.PieceStatusInProgress
	if r.Status != nil {
		status = *r.Status
	}
	p := &models.Piece{
		UserID:         userID,
		UniqueID:       r.UniqueID,
		Name:           r.Name,
		Description:    r.Description,
		PieceTypeID:    r.PieceTypeID,
		PieceSubtypeID: r.PieceSubtypeID,
		Status:         status,
		Location:       r.Location,
		GalleryID:      r.GalleryID,
		Dimensions:     r.Dimensions,
		WeightGrams:    r.WeightGrams,
		Price:          r.Price,
		Cost:           r.Cost,
		ImageURL:       r.ImageURL,
		Notes:          r.Notes,
	}
	if r.CompletedAt != nil {
		t := r.CompletedAt.Time
		p.CompletedAt = &t
	}
	return p
}

func (r UpdatePieceRequest) apply(p *models.Piece) {
	if r.UniqueID != nil {
		p.UniqueID = *r.UniqueID
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	r.Description.Apply(&p.Description)
	r.PieceTypeID.Apply(&p.PieceTypeID)
	r.PieceSubtypeID.Apply(&p.PieceSubtypeID)
	r.Location.Apply(&p.Location)
	r.GalleryID.Apply(&p.GalleryID)
	r.Dimensions.Apply(&p.Dimensions)
	r.WeightGrams.Apply(&p.WeightGrams)
	r.Price.Apply(&p.Price)
	r.Cost.Apply(&p.Cost)
	r.ImageURL.Apply(&p.ImageURL)
	r.Notes.Apply(&p.Notes)
	if r.CompletedAt.Set {
		if d, ok := r.CompletedAt.Present(); ok {
			t := d.Time
			p.CompletedAt = &t
		} else {
			p.CompletedAt = nil
		}
	}
}
