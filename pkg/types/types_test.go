package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNullableUnmarshal(t *testing.T) {
	type payload struct {
		ID   Nullable[uuid.UUID] `json:"id"`
		Note Nullable[string]    `json:"note"`
	}

	var got payload
	if err := json.Unmarshal([]byte(`{"id": "00000000-0000-0000-0000-000000000001"}`), &got); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	if !got.ID.Set || got.ID.Value == nil {
		t.Fatalf("expected set uuid, got %+v", got.ID)
	}
	if got.ID.Value.String() != "00000000-0000-0000-0000-000000000001" {
		t.Fatalf("unexpected uuid %s", got.ID.Value)
	}
	if got.Note.Set {
		t.Fatal("absent field must not be marked set")
	}

	got = payload{}
	if err := json.Unmarshal([]byte(`{"id": null, "note": "hi"}`), &got); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !got.ID.Set || got.ID.Value != nil {
		t.Fatalf("expected null to be set but nil, got %+v", got.ID)
	}
	if v, ok := got.Note.Present(); !ok || v != "hi" {
		t.Fatalf("expected note hi, got %q %v", v, ok)
	}

	if err := json.Unmarshal([]byte(`{"id": "nope"}`), &got); err == nil {
		t.Fatal("expected invalid uuid to fail")
	}
}

func TestNullableApply(t *testing.T) {
	current := "old"
	dst := &current

	Nullable[string]{}.Apply(&dst)
	if dst == nil || *dst != "old" {
		t.Fatal("unset nullable must not change destination")
	}

	NullableOf("new").Apply(&dst)
	if dst == nil || *dst != "new" {
		t.Fatalf("expected new value, got %v", dst)
	}

	Nullable[string]{Set: true}.Apply(&dst)
	if dst != nil {
		t.Fatal("explicit null should clear destination")
	}
}

func TestNullableMarshal(t *testing.T) {
	out, err := json.Marshal(struct {
		A Nullable[int] `json:"a"`
		B Nullable[int] `json:"b"`
	}{A: NullableOf(3)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"a":3,"b":null}` {
		t.Fatalf("unexpected json %s", out)
	}
}

func TestDateUnmarshal(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2025-03-01"`), &d); err != nil {
		t.Fatalf("unmarshal date: %v", err)
	}
	if !d.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date %v", d.Time)
	}

	if err := json.Unmarshal([]byte(`"2025-03-01T10:00:00+02:00"`), &d); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if d.Hour() != 8 {
		t.Fatalf("expected utc conversion, got %v", d.Time)
	}

	if err := json.Unmarshal([]byte(`"03/01/2025"`), &d); err == nil {
		t.Fatal("expected invalid format to fail")
	}
}
