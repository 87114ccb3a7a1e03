package instance

import "testing"

func TestGetIDPrefersEnv(t *testing.T) {
	t.Setenv("RENTALFLEET_INSTANCE_ID", "publisher-7")
	if got := GetID(); got != "publisher-7" {
		t.Fatalf("expected env instance id, got %q", got)
	}
}

func TestGetIDFallsBack(t *testing.T) {
	t.Setenv("RENTALFLEET_INSTANCE_ID", "")
	if got := GetID(); got == "" {
		t.Fatalf("expected non-empty fallback id")
	}
}
