package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

type EventDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	EventType   enums.EventType   `json:"event_type"`
	Status      enums.EventStatus `json:"status"`
	Location    *string           `json:"location"`
	StartDate   time.Time         `json:"start_date"`
	EndDate     *time.Time        `json:"end_date"`
	Description *string           `json:"description"`
	Pieces      []EventPieceDTO   `json:"pieces,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type EventPieceDTO struct {
	ID        uuid.UUID `json:"id"`
	EventID   uuid.UUID `json:"event_id"`
	PieceID   uuid.UUID `json:"piece_id"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateEventRequest struct {
	Name        string             `json:"name" validate:"required,max=200"`
	EventType   *enums.EventType   `json:"event_type,omitempty" validate:"omitempty,enum"`
	Status      *enums.EventStatus `json:"status,omitempty" validate:"omitempty,enum"`
	Location    *string            `json:"location,omitempty" validate:"omitempty,max=200"`
	StartDate   types.Date         `json:"start_date" validate:"required"`
	EndDate     *types.Date        `json:"end_date,omitempty"`
	Description *string            `json:"description,omitempty"`
}

type UpdateEventRequest struct {
	Name        *string                    `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	EventType   *enums.EventType           `json:"event_type,omitempty" validate:"omitempty,enum"`
	Status      *enums.EventStatus         `json:"status,omitempty" validate:"omitempty,enum"`
	Location    types.Nullable[string]     `json:"location" validate:"omitempty,max=200"`
	StartDate   *types.Date                `json:"start_date,omitempty"`
	EndDate     types.Nullable[types.Date] `json:"end_date"`
	Description types.Nullable[string]     `json:"description"`
}

type AttachPieceRequest struct {
	EventID uuid.UUID `json:"event_id" validate:"required"`
	PieceID uuid.UUID `json:"piece_id" validate:"required"`
	Notes   *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type ListFilter struct {
	Status   *enums.EventStatus
	Upcoming bool
}

func FromModel(e *models.Event) EventDTO {
	return EventDTO{
		ID:          e.ID,
		Name:        e.Name,
		EventType:   e.EventType,
		Status:      e.Status,
		Location:    e.Location,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromPieceModel(p *models.EventPiece) EventPieceDTO {
	return EventPieceDTO{
		ID:        p.ID,
		EventID:   p.EventID,
		PieceID:   p.PieceID,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func (r CreateEventRequest) toModel(userID uuid.UUID) *models.Event {
	kind := enums.EventTypeExhibition
	if r.EventType != nil {
		kind = *r.EventType
	}
	status := enums.EventStatusPlanned
	if r.Status != nil {
		status = *r.Status
	}
	e := &models.Event{
		UserID:      userID,
		Name:        r.Name,
		EventType:   kind,
		Status:      status,
		Location:    r.Location,
		StartDate:   r.StartDate.Time,
		Description: r.Description,
	}
	if r.EndDate != nil {
		t := r.EndDate.Time
		e.EndDate = &t
	}
	return e
}

func (r UpdateEventRequest) apply(e *models.Event) {
	if r.Name != nil {
		e.Name = *r.Name
	}
	if r.EventType != nil {
		e.EventType = *r.EventType
	}
	if r.Status != nil {
		e.Status = *r.Status
	}
	if r.StartDate != nil {
		e.StartDate = r.StartDate.Time
	}
	r.Location.Apply(&e.Location)
	r.Description.Apply(&e.Description)
	if r.EndDate.Set {
		if d, ok := r.EndDate.Present(); ok {
			t := d.Time
			e.EndDate = &t
		} else {
			e.EndDate = nil
		}
	}
}
