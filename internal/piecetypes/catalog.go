package piecetypes

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
)

// Catalog is a seedable list of piece types, read from YAML:
//
//	piece_types:
//	  - name: Vase
//	    subtypes:
//	      - name: Bud vase
type Catalog struct {
	PieceTypes []CatalogType `yaml:"piece_types"`
}

type CatalogType struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Subtypes    []CatalogSubtype `yaml:"subtypes"`
}

type CatalogSubtype struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ImportResult counts what ImportCatalog wrote and skipped.
type ImportResult struct {
	TypesCreated    int `json:"types_created"`
	SubtypesCreated int `json:"subtypes_created"`
	Skipped         int `json:"skipped"`
}

// LoadCatalog parses and checks a YAML catalog. Names are trimmed and must be
// unique within their parent.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if err == io.EOF {
			return &c, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	seenTypes := map[string]bool{}
	for i := range c.PieceTypes {
		t := &c.PieceTypes[i]
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("piece_types[%d]: name is required", i)
		}
		key := strings.ToLower(t.Name)
		if seenTypes[key] {
			return nil, fmt.Errorf("piece_types[%d]: duplicate name %q", i, t.Name)
		}
		seenTypes[key] = true

		seenSubs := map[string]bool{}
		for j := range t.Subtypes {
			sub := &t.Subtypes[j]
			sub.Name = strings.TrimSpace(sub.Name)
			if sub.Name == "" {
				return nil, fmt.Errorf("piece_types[%d].subtypes[%d]: name is required", i, j)
			}
			key := strings.ToLower(sub.Name)
			if seenSubs[key] {
				return nil, fmt.Errorf("piece_types[%d].subtypes[%d]: duplicate name %q", i, j, sub.Name)
			}
			seenSubs[key] = true
		}
	}
	return &c, nil
}

// ImportCatalog creates the catalog's types and subtypes for userID in one
// transaction. Existing names are left untouched and counted as skipped.
func (s *service) ImportCatalog(ctx context.Context, userID uuid.UUID, catalog *Catalog) (*ImportResult, error) {
	if catalog == nil {
		return &ImportResult{}, nil
	}
	result := &ImportResult{}
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		for _, ct := range catalog.PieceTypes {
			pt, err := repo.FindTypeByName(ctx, userID, ct.Name)
			switch {
			case err == nil:
				result.Skipped++
			case db.IsNotFound(err):
				pt = &models.PieceType{UserID: userID, Name: ct.Name, Description: optional(ct.Description)}
				if err := repo.CreateType(ctx, pt); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create piece type")
				}
				result.TypesCreated++
			default:
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup piece type")
			}

			for _, cs := range ct.Subtypes {
				_, err := repo.FindSubtypeByName(ctx, pt.ID, cs.Name)
				switch {
				case err == nil:
					result.Skipped++
				case db.IsNotFound(err):
					sub := &models.PieceSubtype{UserID: userID, PieceTypeID: pt.ID, Name: cs.Name, Description: optional(cs.Description)}
					if err := repo.CreateSubtype(ctx, sub); err != nil {
						return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create piece subtype")
					}
					result.SubtypesCreated++
				default:
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup piece subtype")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
