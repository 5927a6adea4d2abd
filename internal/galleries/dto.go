package galleries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

// GalleryDTO is the API representation of a gallery.
type GalleryDTO struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	ContactName    *string          `json:"contact_name"`
	Email          *string          `json:"email"`
	Phone          *string          `json:"phone"`
	Address        *string          `json:"address"`
	City           *string          `json:"city"`
	Country        *string          `json:"country"`
	Website        *string          `json:"website"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
	Notes          *string          `json:"notes"`
	IsActive       bool             `json:"is_active"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// CreateGalleryRequest is the POST body.
type CreateGalleryRequest struct {
	Name           string           `json:"name" validate:"required,max=200"`
	ContactName    *string          `json:"contact_name,omitempty" validate:"omitempty,max=200"`
	Email          *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone          *string          `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address        *string          `json:"address,omitempty"`
	City           *string          `json:"city,omitempty" validate:"omitempty,max=100"`
	Country        *string          `json:"country,omitempty" validate:"omitempty,max=100"`
	Website        *string          `json:"website,omitempty" validate:"omitempty,url"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes          *string          `json:"notes,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
}

// UpdateGalleryRequest is the PATCH body; absent fields are left unchanged and
// null clears optional ones.
type UpdateGalleryRequest struct {
	Name           *string                         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ContactName    types.Nullable[string]          `json:"contact_name"`
	Email          types.Nullable[string]          `json:"email" validate:"omitempty,email"`
	Phone          types.Nullable[string]          `json:"phone"`
	Address        types.Nullable[string]          `json:"address"`
	City           types.Nullable[string]          `json:"city"`
	Country        types.Nullable[string]          `json:"country"`
	Website        types.Nullable[string]          `json:"website" validate:"omitempty,url"`
	CommissionRate types.Nullable[decimal.Decimal] `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
	Notes          types.Nullable[string]          `json:"notes"`
	IsActive       *bool                           `json:"is_active,omitempty"`
}

func FromModel(g *models.Gallery) GalleryDTO {
	return GalleryDTO{
		ID:             g.ID,
		Name:           g.Name,
		ContactName:    g.ContactName,
		Email:          g.Email,
		Phone:          g.Phone,
		Address:        g.Address,
		City:           g.City,
		Country:        g.Country,
		Website:        g.Website,
		CommissionRate: g.CommissionRate,
		Notes:          g.Notes,
		IsActive:       g.IsActive,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

func (r CreateGalleryRequest) toModel(userID uuid.UUID) *models.Gallery {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.Gallery{
		UserID:         userID,
		Name:           r.Name,
		ContactName:    r.ContactName,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		City:           r.City,
		Country:        r.Country,
		Website:        r.Website,
		CommissionRate: r.CommissionRate,
		Notes:          r.Notes,
		IsActive:       active,
	}
}

func (r UpdateGalleryRequest) apply(g *models.Gallery) {
	if r.Name != nil {
		g.Name = *r.Name
	}
	r.ContactName.Apply(&g.ContactName)
	r.Email.Apply(&g.Email)
	r.Phone.Apply(&g.Phone)
	r.Address.Apply(&g.Address)
	r.City.Apply(&g.City)
	r.Country.Apply(&g.Country)
	r.Website.Apply(&g.Website)
	r.CommissionRate.Apply(&g.CommissionRate)
	r.Notes.Apply(&g.Notes)
	if r.IsActive != nil {
		g.IsActive = *r.IsActive
	}
}
