package subject_test

import (
	"testing"

	"github.com/paesprep/backend/internal/domain/subject"
)

func TestNewSubject(t *testing.T) {
	s := subject.New("Matemática M1")

	if s.Name != "Matemática M1" {
		t.Errorf("expected name %q, got %q", "Matemática M1", s.Name)
	}

	if s.ID == "" {
		t.Error("expected non-empty ID")
	}
}

func TestNewSubject_UniqueIDs(t *testing.T) {
	s1 := subject.New("A")
	s2 := subject.New("B")

	if s1.ID == s2.ID {
		t.Error("expected different IDs for different subjects")
	}
}
