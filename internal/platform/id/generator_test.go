package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	gen := NewUUIDGenerator()
	first, second := gen.NewID(), gen.NewID()
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid, got %q: %v", first, err)
	}
}

func TestStatic(t *testing.T) {
	if got := Static("req-1").NewID(); got != "req-1" {
		t.Fatalf("unexpected id %q", got)
	}
}
