package galleries

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/internal/scope"
	"github.com/angelmondragon/glassworks-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
)

const resource = "gallery"

// Service is the gallery surface used by the controllers.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]GalleryDTO, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*GalleryDTO, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateGalleryRequest) (*GalleryDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, req UpdateGalleryRequest) (*GalleryDTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	db   txRunner
	repo *Repository
}

func NewService(client *db.Client) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{db: client, repo: NewRepository(client.DB())}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, activeOnly bool) ([]GalleryDTO, error) {
	rows, err := s.repo.List(ctx, userID, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list galleries")
	}
	out := make([]GalleryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*GalleryDTO, error) {
	g, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, scope.Translate(err, resource, "load gallery")
	}
	dto := FromModel(g)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateGalleryRequest) (*GalleryDTO, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, pkgerrors.Validation("validation failed", map[string]string{"name": "is required"})
	}
	g := req.toModel(userID)
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, translateWrite(err, "create gallery")
	}
	dto := FromModel(g)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, req UpdateGalleryRequest) (*GalleryDTO, error) {
	var out GalleryDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		g, err := repo.Get(ctx, userID, id)
		if err != nil {
			return scope.Translate(err, resource, "load gallery")
		}
		req.apply(g)
		g.Name = strings.TrimSpace(g.Name)
		if g.Name == "" {
			return pkgerrors.Validation("validation failed", map[string]string{"name": "must not be empty"})
		}
		if err := repo.Save(ctx, g); err != nil {
			return translateWrite(err, "update gallery")
		}
		out = FromModel(g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		return scope.Translate(NewRepository(tx).Delete(ctx, userID, id), resource, "delete gallery")
	})
}

func translateWrite(err error, action string) error {
	if db.IsUniqueViolation(err) {
		return pkgerrors.Conflict(err, "a gallery with this name already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
