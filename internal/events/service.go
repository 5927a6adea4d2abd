package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/internal/scope"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
)

const (
	resource      = "event"
	pieceResource = "event piece"
)

// Service manages events and the pieces shown at them.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]EventDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*EventDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*EventDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	ListPieces(ctx context.Context, userID, eventID uuid.UUID) ([]EventPieceDTO, error)
	AttachPiece(ctx context.Context, userID uuid.UUID, req AttachPieceRequest) (*EventPieceDTO, error)
	DetachPiece(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	db   *db.Client
	repo *Repository
	now  func() time.Time
}

func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{
		db:   client,
		repo: NewRepository(client.DB()),
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]EventDTO, error) {
	var since *time.Time
	if filter.Upcoming {
		y, m, d := s.now().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		since = &today
	}
	rows, err := s.repo.List(ctx, userID, filter, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	out := make([]EventDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

// Get returns the event with its attached pieces.
func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*EventDTO, error) {
	e, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, scope.Translate(err, resource, "load event")
	}
	links, err := s.repo.ListPieces(ctx, userID, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event pieces")
	}
	dto := FromModel(e)
	dto.Pieces = make([]EventPieceDTO, 0, len(links))
	for i := range links {
		dto.Pieces = append(dto.Pieces, FromPieceModel(&links[i]))
	}
	return &dto, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateEventRequest) (*EventDTO, error) {
	e := req.toModel(userID)
	if err := validateEvent(e); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, scope.Translate(err, resource, "create event")
	}
	dto := FromModel(e)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateEventRequest) (*EventDTO, error) {
	var out EventDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		e, err := repo.Get(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, resource, "load event")
		}
		req.apply(e)
		if err := validateEvent(e); err != nil {
			return err
		}
		if err := repo.Save(ctx, e); err != nil {
			return scope.Translate(err, resource, "update event")
		}
		out = FromModel(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return scope.Translate(NewRepository(tx).Delete(ctx, userID, id), resource, "delete event")
	})
}

func (s *service) ListPieces(ctx context.Context, userID, eventID uuid.UUID) ([]EventPieceDTO, error) {
	if _, err := s.repo.Get(ctx, userID, eventID); err != nil {
		return nil, scope.Translate(err, resource, "load event")
	}
	rows, err := s.repo.ListPieces(ctx, userID, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list event pieces")
	}
	out := make([]EventPieceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromPieceModel(&rows[i]))
	}
	return out, nil
}

func (s *service) AttachPiece(ctx context.Context, userID uuid.UUID, req AttachPieceRequest) (*EventPieceDTO, error) {
	link := &models.EventPiece{
		UserID:  userID,
		EventID: req.EventID,
		PieceID: req.PieceID,
		Notes:   req.Notes,
	}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := scope.Require(ctx, tx, &models.Event{}, resource, userID, req.EventID); err != nil {
			return err
		}
		if err := scope.Require(ctx, tx, &models.Piece{}, "piece", userID, req.PieceID); err != nil {
			return err
		}
		if err := NewRepository(tx).CreatePiece(ctx, link); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Conflict(err, "piece is already attached to this event")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach piece")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromPieceModel(link)
	return &dto, nil
}

func (s *service) DetachPiece(ctx context.Context, userID, id uuid.UUID) error {
	return scope.Translate(s.repo.DeletePiece(ctx, userID, id), pieceResource, "detach piece")
}

func validateEvent(e *models.Event) error {
	e.Name = strings.TrimSpace(e.Name)
	fields := map[string]string{}
	if e.Name == "" {
		fields["name"] = "is required"
	}
	if e.StartDate.IsZero() {
		fields["start_date"] = "is required"
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		fields["end_date"] = "must not be before start_date"
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("validation failed", fields)
	}
	return nil
}
