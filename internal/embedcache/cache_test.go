package embedcache

import (
	"testing"

	"github.com/google/uuid"
)

func TestTextKey_StableAndDistinct(t *testing.T) {
	a := textKey("golang concurrency patterns")
	b := textKey("golang concurrency patterns")
	if a != b {
		t.Fatalf("textKey not stable: %q != %q", a, b)
	}

	c := textKey("golang channels")
	if a == c {
		t.Fatalf("distinct inputs hashed to the same key: %q", a)
	}

	if len(a) != 64 {
		t.Errorf("expected a 64-char hex sha256 digest, got %d chars", len(a))
	}
}

func TestPointID_StableAndValidUUID(t *testing.T) {
	a := pointID("golang concurrency patterns")
	b := pointID("golang concurrency patterns")
	if a != b {
		t.Fatalf("pointID not stable: %q != %q", a, b)
	}

	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("pointID did not produce a valid UUID: %v", err)
	}

	c := pointID("golang channels")
	if a == c {
		t.Fatalf("distinct inputs produced the same point ID: %q", a)
	}
}
