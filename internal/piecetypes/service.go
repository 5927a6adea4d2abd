package piecetypes

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
)

const (
	typeResource    = "piece type"
	subtypeResource = "piece subtype"
)

// Service manages the owner's piece taxonomy.
type Service interface {
	ListTypes(ctx context.Context, userID uuid.UUID) ([]PieceTypeDTO, error)
	GetType(ctx context.Context, userID, id uuid.UUID) (*PieceTypeDTO, error)
	CreateType(ctx context.Context, userID uuid.UUID, req CreatePieceTypeRequest) (*PieceTypeDTO, error)
	UpdateType(ctx context.Context, userID, id uuid.UUID, req UpdatePieceTypeRequest) (*PieceTypeDTO, error)
	DeleteType(ctx context.Context, userID, id uuid.UUID) error

	ListSubtypes(ctx context.Context, userID uuid.UUID, typeID *uuid.UUID) ([]PieceSubtypeDTO, error)
	CreateSubtype(ctx context.Context, userID uuid.UUID, req CreatePieceSubtypeRequest) (*PieceSubtypeDTO, error)
	UpdateSubtype(ctx context.Context, userID, id uuid.UUID, req UpdatePieceSubtypeRequest) (*PieceSubtypeDTO, error)
	DeleteSubtype(ctx context.Context, userID, id uuid.UUID) error

	ImportCatalog(ctx context.Context, userID uuid.UUID, catalog *Catalog) (*ImportResult, error)
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

func (s *service) ListTypes(ctx context.Context, userID uuid.UUID) ([]PieceTypeDTO, error) {
	rows, err := s.repo.ListTypes(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list piece types")
	}
	subs, err := s.repo.ListSubtypes(ctx, userID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list piece subtypes")
	}
	byType := map[uuid.UUID][]PieceSubtypeDTO{}
	for i := range subs {
		byType[subs[i].PieceTypeID] = append(byType[subs[i].PieceTypeID], FromSubtypeModel(&subs[i]))
	}

	out := make([]PieceTypeDTO, 0, len(rows))
	for i := range rows {
		dto := FromTypeModel(&rows[i])
		dto.Subtypes = byType[rows[i].ID]
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) GetType(ctx context.Context, userID, id uuid.UUID) (*PieceTypeDTO, error) {
	row, err := s.repo.GetType(ctx, userID, id)
	if err != nil {
		return nil, scope.Translate(err, typeResource, "load piece type")
	}
	subs, err := s.repo.ListSubtypes(ctx, userID, &id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list piece subtypes")
	}
	dto := FromTypeModel(row)
	for i := range subs {
		dto.Subtypes = append(dto.Subtypes, FromSubtypeModel(&subs[i]))
	}
	return &dto, nil
}

func (s *service) CreateType(ctx context.Context, userID uuid.UUID, req CreatePieceTypeRequest) (*PieceTypeDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"name": "is required"})
	}
	row := &models.PieceType{UserID: userID, Name: name, Description: req.Description}
	if err := s.repo.CreateType(ctx, row); err != nil {
		return nil, translateWrite(err, typeResource, "create piece type")
	}
	dto := FromTypeModel(row)
	return &dto, nil
}

func (s *service) UpdateType(ctx context.Context, userID, id uuid.UUID, req UpdatePieceTypeRequest) (*PieceTypeDTO, error) {
	var out PieceTypeDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.GetType(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, typeResource, "load piece type")
		}
		if req.Name != nil {
			row.Name = strings.TrimSpace(*req.Name)
			if row.Name == "" {
				return pkgerrors.Validation("validation failed", map[string]string{"name": "must not be empty"})
			}
		}
		req.Description.Apply(&row.Description)
		if err := repo.SaveType(ctx, row); err != nil {
			return translateWrite(err, typeResource, "update piece type")
		}
		out = FromTypeModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) DeleteType(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return scope.Translate(NewRepository(tx).DeleteType(ctx, userID, id), typeResource, "delete piece type")
	})
}

func (s *service) ListSubtypes(ctx context.Context, userID uuid.UUID, typeID *uuid.UUID) ([]PieceSubtypeDTO, error) {
	rows, err := s.repo.ListSubtypes(ctx, userID, typeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list piece subtypes")
	}
	out := make([]PieceSubtypeDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromSubtypeModel(&rows[i]))
	}
	return out, nil
}

func (s *service) CreateSubtype(ctx context.Context, userID uuid.UUID, req CreatePieceSubtypeRequest) (*PieceSubtypeDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"name": "is required"})
	}
	var out PieceSubtypeDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := scope.Require(ctx, tx, &models.PieceType{}, typeResource, userID, req.PieceTypeID); err != nil {
			return err
		}
		row := &models.PieceSubtype{UserID: userID, PieceTypeID: req.PieceTypeID, Name: name, Description: req.Description}
		if err := NewRepository(tx).CreateSubtype(ctx, row); err != nil {
			return translateWrite(err, subtypeResource, "create piece subtype")
		}
		out = FromSubtypeModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) UpdateSubtype(ctx context.Context, userID, id uuid.UUID, req UpdatePieceSubtypeRequest) (*PieceSubtypeDTO, error) {
	var out PieceSubtypeDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		row, err := repo.GetSubtype(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, subtypeResource, "load piece subtype")
		}
		if req.PieceTypeID != nil && *req.PieceTypeID != row.PieceTypeID {
			if err := scope.Require(ctx, tx, &models.PieceType{}, typeResource, userID, *req.PieceTypeID); err != nil {
				return err
			}
			// pieces keep their type, so they can no longer carry this subtype
			if err := tx.WithContext(ctx).Model(&models.Piece{}).
				Where("user_id = ? AND piece_subtype_id = ?", userID, id).
				Update("piece_subtype_id", nil).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "detach pieces")
			}
			row.PieceTypeID = *req.PieceTypeID
		}
		if req.Name != nil {
			row.Name = strings.TrimSpace(*req.Name)
			if row.Name == "" {
				return pkgerrors.Validation("validation failed", map[string]string{"name": "must not be empty"})
			}
		}
		req.Description.Apply(&row.Description)
		if err := repo.SaveSubtype(ctx, row); err != nil {
			return translateWrite(err, subtypeResource, "update piece subtype")
		}
		out = FromSubtypeModel(row)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) DeleteSubtype(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return scope.Translate(NewRepository(tx).DeleteSubtype(ctx, userID, id), subtypeResource, "delete piece subtype")
	})
}

func translateWrite(err error, resource, action string) error {
	if db.IsUniqueViolation(err) {
		return pkgerrors.Conflict(err, fmt.Sprintf("a %s with this name already exists", resource))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
