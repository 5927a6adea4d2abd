package instance

import "testing"

func TestGetID(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("GLASSWORKS_INSTANCE_ID", "")
	if got := GetID(); got != "local" {
		t.Fatalf("expected local default, got %q", got)
	}

	t.Setenv("GLASSWORKS_INSTANCE_ID", "kiln-2")
	if got := GetID(); got != "kiln-2" {
		t.Fatalf("expected override, got %q", got)
	}

	t.Setenv("DYNO", "web.1")
	if got := GetID(); got != "web.1" {
		t.Fatalf("expected dyno name, got %q", got)
	}
}
