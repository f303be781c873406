package exam

import (
	"time"

	"github.com/paesprep/backend/internal/id"
)

type Kind string

const (
	KindOfficial Kind = "official"
	KindCustom   Kind = "custom"
)

// Exam is immutable after creation except for Active.
type Exam struct {
	ID              string
	Title           string
	Kind            Kind
	DurationMinutes int
	Active          bool
	CreatedBy       *string // Only set for custom exams
	CreatedAt       time.Time
	QuestionIDs     []string // Persisted position order
	QuestionCount   int      // Filled by listings that do not load QuestionIDs
}

// NewCustom builds an active custom exam owned by userID.
func NewCustom(userID, title string, durationMinutes int, questionIDs []string, now time.Time) *Exam {
	owner := userID
	return &Exam{
		ID:              id.GenerateID(),
		Title:           title,
		Kind:            KindCustom,
		DurationMinutes: durationMinutes,
		Active:          true,
		CreatedBy:       &owner,
		CreatedAt:       now,
		QuestionIDs:     questionIDs,
		QuestionCount:   len(questionIDs),
	}
}

// NewOfficial builds an active official exam with no owner.
func NewOfficial(title string, durationMinutes int, questionIDs []string, now time.Time) *Exam {
	return &Exam{
		ID:              id.GenerateID(),
		Title:           title,
		Kind:            KindOfficial,
		DurationMinutes: durationMinutes,
		Active:          true,
		CreatedAt:       now,
		QuestionIDs:     questionIDs,
		QuestionCount:   len(questionIDs),
	}
}

// DurationSeconds is the countdown budget of an attempt on this exam.
func (e *Exam) DurationSeconds() int {
	return e.DurationMinutes * 60
}

// OwnedBy reports whether userID created this exam.
func (e *Exam) OwnedBy(userID string) bool {
	return e.CreatedBy != nil && *e.CreatedBy == userID
}
