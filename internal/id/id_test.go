package id_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/paesprep/backend/internal/id"
)

func TestGenerateID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		v := id.GenerateID()
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id %q", v)
		}
		seen[v] = struct{}{}
	}
}

func TestGenerateID_IsUUID(t *testing.T) {
	if _, err := uuid.Parse(id.GenerateID()); err != nil {
		t.Fatalf("generated id is not a uuid: %v", err)
	}
}
