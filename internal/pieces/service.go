package pieces

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/internal/scope"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/pagination"
)

const resource = "piece"

// Service manages the owner's pieces.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*pagination.Page[PieceDTO], error)
	Get(ctx context.Context, userID, id uuid.UUID) (*PieceDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreatePieceRequest) (*PieceDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdatePieceRequest) (*PieceDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type service struct {
	db   *db.Client
	repo *Repository
}

func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{db: client, repo: NewRepository(client.DB())}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) (*pagination.Page[PieceDTO], error) {
	cursor, err := pagination.ParseCursor(filter.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.Validation("invalid cursor", map[string]string{"cursor": err.Error()})
	}
	rows, err := s.repo.List(ctx, userID, filter, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pieces")
	}
	rows, next := pagination.Trim(rows, filter.Page.Limit, func(p models.Piece) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})

	items := make([]PieceDTO, 0, len(rows))
	for i := range rows {
		items = append(items, FromModel(&rows[i]))
	}
	return &pagination.Page[PieceDTO]{Items: items, NextCursor: next}, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*PieceDTO, error) {
	p, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, scope.Translate(err, resource, "load piece")
	}
	dto := FromModel(p)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreatePieceRequest) (*PieceDTO, error) {
	p := req.toModel(userID)
	var out PieceDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := normalize(p); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, p); err != nil {
			return err
		}
		if err := NewRepository(tx).Create(ctx, p); err != nil {
			return translateWrite(err, "create piece")
		}
		out = FromModel(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdatePieceRequest) (*PieceDTO, error) {
	var out PieceDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		p, err := repo.Get(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, resource, "load piece")
		}
		req.apply(p)
		// clearing the type also clears a subtype the request left alone
		if req.PieceTypeID.Set && p.PieceTypeID == nil && !req.PieceSubtypeID.Set {
			p.PieceSubtypeID = nil
		}
		if err := normalize(p); err != nil {
			return err
		}
		if err := checkReferences(ctx, tx, p); err != nil {
			return err
		}
		if err := repo.Save(ctx, p); err != nil {
			return translateWrite(err, "update piece")
		}
		out = FromModel(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return scope.Translate(NewRepository(tx).Delete(ctx, userID, id), resource, "delete piece")
	})
}

func normalize(p *models.Piece) error {
	p.UniqueID = strings.TrimSpace(p.UniqueID)
	p.Name = strings.TrimSpace(p.Name)
	fields := map[string]string{}
	if p.UniqueID == "" {
		fields["unique_id"] = "is required"
	}
	if p.Name == "" {
		fields["name"] = "is required"
	}
	if !p.Status.IsValid() {
		fields["status"] = "is not an allowed value"
	}
	if len(fields) > 0 {
		return pkgerrors.Validation("validation failed", fields)
	}
	return nil
}

// checkReferences verifies every foreign key belongs to the piece owner. A
// subtype without a type adopts the subtype's parent.
func checkReferences(ctx context.Context, tx *gorm.DB, p *models.Piece) error {
	if err := scope.RequireOptional(ctx, tx, &models.Gallery{}, "gallery", p.UserID, p.GalleryID); err != nil {
		return err
	}
	if err := scope.RequireOptional(ctx, tx, &models.PieceType{}, "piece type", p.UserID, p.PieceTypeID); err != nil {
		return err
	}
	if p.PieceSubtypeID == nil {
		return nil
	}

	var sub models.PieceSubtype
	err := tx.WithContext(ctx).Where("id = ? AND user_id = ?", *p.PieceSubtypeID, p.UserID).First(&sub).Error
	if err != nil {
		return scope.Translate(err, "piece subtype", "check piece subtype")
	}
	if p.PieceTypeID == nil {
		typeID := sub.PieceTypeID
		p.PieceTypeID = &typeID
		return nil
	}
	if sub.PieceTypeID != *p.PieceTypeID {
		return pkgerrors.Validation("validation failed", map[string]string{
			"piece_subtype_id": "does not belong to piece_type_id",
		})
	}
	return nil
}

func translateWrite(err error, action string) error {
	if db.IsUniqueViolation(err) {
		return pkgerrors.Conflict(err, "piece unique id already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
