package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		retryable bool
		detailsOK bool
		expose    bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, detailsOK: true, expose: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, expose: true},
		{code: CodeForbidden, status: http.StatusForbidden, expose: true},
		{code: CodeNotFound, status: http.StatusNotFound, expose: true},
		{code: CodeConflict, status: http.StatusConflict, detailsOK: true, expose: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, detailsOK: true, expose: true},
		{code: CodeRateLimit, status: http.StatusTooManyRequests, expose: true},
		{code: CodeInternal, status: http.StatusInternalServerError, retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("code %s has no public message", tt.code)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
		if meta.ExposeMessage != tt.expose {
			t.Fatalf("code %s expected expose %v got %v", tt.code, tt.expose, meta.ExposeMessage)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing name")
	if base.Code() != CodeValidation {
		t.Fatalf("expected validation code, got %s", base.Code())
	}
	if base.Message() != "missing name" {
		t.Fatalf("unexpected message %q", base.Message())
	}
	if base.Details() != nil {
		t.Fatalf("details should be nil by default")
	}

	base.WithDetails(map[string]any{"field": "name"})
	if base.Details() == nil {
		t.Fatalf("details should be preserved")
	}

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeConflict, cause, "ctx")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatalf("Wrap did not preserve cause")
	}
	if wrapped.Code() != CodeConflict {
		t.Fatalf("unexpected code %s", wrapped.Code())
	}

	nf := NotFound("gallery")
	if nf.Code() != CodeNotFound || nf.Message() != "gallery not found" {
		t.Fatalf("unexpected not found error %v", nf)
	}

	v := Validation("invalid body", map[string]string{"price": "must be >= 0"})
	fields, ok := v.Details().(map[string]string)
	if !ok || fields["price"] == "" {
		t.Fatalf("expected field details, got %#v", v.Details())
	}
	if Validation("invalid", nil).Details() != nil {
		t.Fatalf("empty field map should leave details nil")
	}
}

func TestAsReturnsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeForbidden, "no entry"))
	if got := As(err); got == nil || got.Code() != CodeForbidden {
		t.Fatalf("As failed to return typed error")
	}
	if As(nil) != nil {
		t.Fatalf("As(nil) should return nil")
	}
	if !IsCode(err, CodeForbidden) || IsCode(err, CodeNotFound) {
		t.Fatalf("IsCode mismatch")
	}
}

func TestDumpExtractsPostgresDetails(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "ux_pieces_user_unique_id", TableName: "pieces"}
	err := Wrap(CodeConflict, pgErr, "piece unique id already exists")

	dump := Dump(err)
	if dump.Code != CodeConflict {
		t.Fatalf("expected conflict code, got %s", dump.Code)
	}
	if dump.PGCode != "23505" || dump.PGConstraint != "ux_pieces_user_unique_id" || dump.PGTable != "pieces" {
		t.Fatalf("unexpected pg fields %+v", dump)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected two chain entries, got %v", dump.Chain)
	}
}

func TestConflictAndIsByCode(t *testing.T) {
	cause := stdErrors.New("UNIQUE constraint failed: galleries.user_id, galleries.name")
	err := fmt.Errorf("create gallery: %w", Conflict(cause, "a gallery with this name already exists"))

	if !IsCode(err, CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if !stdErrors.Is(err, New(CodeConflict, "")) {
		t.Fatalf("errors.Is should match on code")
	}
	if stdErrors.Is(err, New(CodeNotFound, "")) {
		t.Fatalf("errors.Is must not match a different code")
	}
	if !stdErrors.Is(err, cause) {
		t.Fatalf("cause lost")
	}
}
