package topic_test

import (
	"testing"

	"github.com/paesprep/backend/internal/domain/topic"
)

func TestNewTopic(t *testing.T) {
	tp := topic.New("subject-1", "Álgebra")

	if tp.Name != "Álgebra" {
		t.Errorf("expected name %q, got %q", "Álgebra", tp.Name)
	}

	if tp.SubjectID != "subject-1" {
		t.Errorf("expected subject %q, got %q", "subject-1", tp.SubjectID)
	}

	if tp.ID == "" {
		t.Error("expected non-empty ID")
	}
}
