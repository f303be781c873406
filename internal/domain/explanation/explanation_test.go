package explanation_test

import (
	"testing"
	"time"

	"github.com/paesprep/backend/internal/domain/explanation"
)

func TestRequestValidate(t *testing.T) {
	r := explanation.Request{QuestionID: "  q1 ", SelectedAnswer: "B"}
	if err := r.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.QuestionID != "q1" {
		t.Errorf("expected trimmed id, got %q", r.QuestionID)
	}

	if err := (&explanation.Request{SelectedAnswer: "B"}).Validate(); err == nil {
		t.Error("expected error for missing question")
	}
	if err := (&explanation.Request{QuestionID: "q1", SelectedAnswer: " "}).Validate(); err == nil {
		t.Error("expected error for blank answer")
	}
}

func TestNew(t *testing.T) {
	attemptID := "a1"
	now := time.Now()
	e := explanation.New("u1", explanation.Request{QuestionID: "q1", SelectedAnswer: "B", AttemptID: &attemptID}, "porque...", "gpt-4o-mini", now)

	if e.ID == "" || e.UserID != "u1" || e.Model != "gpt-4o-mini" || *e.AttemptID != "a1" {
		t.Errorf("unexpected explanation %+v", e)
	}
}
