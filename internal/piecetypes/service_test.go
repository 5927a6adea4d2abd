package piecetypes

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/glassworks-backend/pkg/db"
	"github.com/angelmondragon/glassworks-backend/pkg/db/dbtest"
	"github.com/angelmondragon/glassworks-backend/pkg/db/models"
	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	client := dbtest.NewClient(t)
	svc, err := NewService(client)
	require.NoError(t, err)
	return svc, client
}

func TestTypesAndSubtypes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	vase, err := svc.CreateType(ctx, owner, CreatePieceTypeRequest{Name: "Vase"})
	require.NoError(t, err)
	_, err = svc.CreateType(ctx, owner, CreatePieceTypeRequest{Name: "Vase"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	bud, err := svc.CreateSubtype(ctx, owner, CreatePieceSubtypeRequest{PieceTypeID: vase.ID, Name: "Bud"})
	require.NoError(t, err)
	require.Equal(t, vase.ID, bud.PieceTypeID)

	// another owner cannot hang subtypes off this type
	_, err = svc.CreateSubtype(ctx, uuid.New(), CreatePieceSubtypeRequest{PieceTypeID: vase.ID, Name: "Tall"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	types, err := svc.ListTypes(ctx, owner)
	require.NoError(t, err)
	require.Len(t, types, 1)
	require.Len(t, types[0].Subtypes, 1)

	got, err := svc.GetType(ctx, owner, vase.ID)
	require.NoError(t, err)
	require.Equal(t, "Bud", got.Subtypes[0].Name)

	filtered, err := svc.ListSubtypes(ctx, owner, &vase.ID)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
}

func TestDeleteTypeClearsPieceReferences(t *testing.T) {
	svc, client := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	bowl, err := svc.CreateType(ctx, owner, CreatePieceTypeRequest{Name: "Bowl"})
	require.NoError(t, err)
	deep, err := svc.CreateSubtype(ctx, owner, CreatePieceSubtypeRequest{PieceTypeID: bowl.ID, Name: "Deep"})
	require.NoError(t, err)

	piece := models.Piece{UserID: owner, UniqueID: "B-1", Name: "Blue bowl", Status: enums.PieceStatusAvailable, PieceTypeID: &bowl.ID, PieceSubtypeID: &deep.ID}
	require.NoError(t, client.DB().Create(&piece).Error)

	require.NoError(t, svc.DeleteType(ctx, owner, bowl.ID))

	var reloaded models.Piece
	require.NoError(t, client.DB().First(&reloaded, "id = ?", piece.ID).Error)
	require.Nil(t, reloaded.PieceTypeID)
	require.Nil(t, reloaded.PieceSubtypeID)

	subs, err := svc.ListSubtypes(ctx, owner, nil)
	require.NoError(t, err)
	require.Empty(t, subs)

	require.True(t, pkgerrors.IsCode(svc.DeleteType(ctx, owner, bowl.ID), pkgerrors.CodeNotFound))
}

func TestUpdateSubtypeMovesType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	a, err := svc.CreateType(ctx, owner, CreatePieceTypeRequest{Name: "A"})
	require.NoError(t, err)
	b, err := svc.CreateType(ctx, owner, CreatePieceTypeRequest{Name: "B"})
	require.NoError(t, err)
	sub, err := svc.CreateSubtype(ctx, owner, CreatePieceSubtypeRequest{PieceTypeID: a.ID, Name: "S"})
	require.NoError(t, err)

	moved, err := svc.UpdateSubtype(ctx, owner, sub.ID, UpdatePieceSubtypeRequest{PieceTypeID: &b.ID})
	require.NoError(t, err)
	require.Equal(t, b.ID, moved.PieceTypeID)

	foreign := uuid.New()
	_, err = svc.UpdateSubtype(ctx, owner, sub.ID, UpdatePieceSubtypeRequest{PieceTypeID: &foreign})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

const sampleCatalog = `
piece_types:
  - name: Vase
    description: Hollow vessels
    subtypes:
      - name: Bud
      - name: Cylinder
  - name: Pendant
`

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog(strings.NewReader(sampleCatalog))
	require.NoError(t, err)
	require.Len(t, c.PieceTypes, 2)
	require.Len(t, c.PieceTypes[0].Subtypes, 2)

	_, err = LoadCatalog(strings.NewReader("piece_types:\n  - name: A\n  - name: a\n"))
	require.Error(t, err)

	_, err = LoadCatalog(strings.NewReader("piece_types:\n  - name: A\n    colour: red\n"))
	require.Error(t, err, "unknown keys are rejected")

	empty, err := LoadCatalog(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, empty.PieceTypes)
}

func TestImportCatalogIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	c, err := LoadCatalog(strings.NewReader(sampleCatalog))
	require.NoError(t, err)

	first, err := svc.ImportCatalog(ctx, owner, c)
	require.NoError(t, err)
	require.Equal(t, ImportResult{TypesCreated: 2, SubtypesCreated: 2}, *first)

	second, err := svc.ImportCatalog(ctx, owner, c)
	require.NoError(t, err)
	require.Equal(t, ImportResult{Skipped: 4}, *second)

	types, err := svc.ListTypes(ctx, owner)
	require.NoError(t, err)
	require.Len(t, types, 2)
}
