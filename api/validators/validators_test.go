package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/glassworks-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/glassworks-backend/pkg/errors"
	"github.com/angelmondragon/glassworks-backend/pkg/types"
)

type movementPayload struct {
	Type     enums.MovementType     `json:"movement_type" validate:"required,enum"`
	Quantity *decimal.Decimal       `json:"quantity" validate:"required,gt=0"`
	Price    decimal.Decimal        `json:"price" validate:"gte=0"`
	Notes    types.Nullable[string] `json:"notes" validate:"omitempty,max=5"`
}

func decode(t *testing.T, body string) (*movementPayload, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var p movementPayload
	err := DecodeJSONBody(req, &p)
	return &p, err
}

func fieldDetails(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok, "expected field details, got %#v", typed.Details())
	return details
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	p, err := decode(t, `{"movement_type":"out","quantity":"2.5","price":"0","notes":null}`)
	require.NoError(t, err)
	assert.Equal(t, enums.MovementTypeOut, p.Type)
	assert.True(t, p.Quantity.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, p.Notes.Set)
	assert.Nil(t, p.Notes.Value)
}

func TestDecodeJSONBodyReportsJSONFieldNames(t *testing.T) {
	_, err := decode(t, `{"movement_type":"sideways","quantity":"0","price":"-1","notes":"too long"}`)
	details := fieldDetails(t, err)
	assert.Equal(t, "is not an allowed value", details["movement_type"])
	assert.Contains(t, details["quantity"], "greater than")
	assert.Contains(t, details["price"], "greater than or equal")
	assert.Equal(t, "must be at most 5", details["notes"])
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":         ``,
		"unknown field": `{"movement_type":"in","quantity":"1","colour":"blue"}`,
		"two objects":   `{"movement_type":"in","quantity":"1"}{}`,
		"bad decimal":   `{"movement_type":"in","quantity":"lots"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := decode(t, body)
			require.Error(t, err)
			assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
		})
	}
}

func TestRequiredPointerDecimal(t *testing.T) {
	_, err := decode(t, `{"movement_type":"in"}`)
	assert.Equal(t, "is required", fieldDetails(t, err)["quantity"])
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=40", nil)
	v, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 40, v)

	v, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/", nil), "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 25, v)

	_, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=500", nil), "limit", 25, 1, 100)
	require.Error(t, err)
	_, err = ParseQueryInt(httptest.NewRequest(http.MethodGet, "/?limit=ten", nil), "limit", 25, 1, 100)
	require.Error(t, err)
}

func TestQueryUUIDHelpers(t *testing.T) {
	id := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/?order_id="+id.String(), nil)

	got, err := ParseQueryUUID(req, "order_id")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	missing, err := ParseQueryUUID(req, "gallery_id")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = RequireQueryUUID(req, "gallery_id")
	assert.Equal(t, "is required", fieldDetails(t, err)["gallery_id"])

	_, err = ParseQueryUUID(httptest.NewRequest(http.MethodGet, "/?order_id=nope", nil), "order_id")
	require.Error(t, err)
}

func TestParseQueryEnum(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?status=sold", nil)
	status, err := ParseQueryEnum(req, "status", enums.ParsePieceStatus)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, enums.PieceStatus("sold"), *status)

	req = httptest.NewRequest(http.MethodGet, "/?status=melted", nil)
	_, err = ParseQueryEnum(req, "status", enums.ParsePieceStatus)
	assert.Contains(t, fieldDetails(t, err), "status")
}

func TestPathUUID(t *testing.T) {
	id := uuid.New()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id.String())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	got, err := PathUUID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("id", "42")
	_, err = PathUUID(req, "id")
	require.Error(t, err)
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "frit", SanitizeString("  frit  ", 10))
	assert.Equal(t, "bor", SanitizeString("borosilicate", 3))
	assert.Equal(t, "", SanitizeString("   ", 10))
	assert.Equal(t, "frit", SanitizeString("frit", 0))
}

func TestSanitizeStringKeepsRunesWhole(t *testing.T) {
	accented := "a" + strings.Repeat("é", 60)
	got := SanitizeString(accented, 100)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, accented, got)

	got = SanitizeString("cristalería soplada", 9)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "cristaler", got)

	got = SanitizeString("vidrio ñandutí", 12)
	assert.Equal(t, "vidrio ñandu", got)
	assert.Equal(t, 12, utf8.RuneCountInString(got))

	assert.Equal(t, "ámbar", SanitizeString("ámbar\xff", 20))
}
