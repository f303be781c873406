package attempt

import (
	"time"

	"github.com/paesprep/backend/internal/domain/scoring"
	"github.com/paesprep/backend/internal/id"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusAbandoned  Status = "abandoned"
)

// Attempt is one user's timed run through one exam. Result and CompletedAt
// stay nil until the attempt is finalized; after that the attempt is frozen.
type Attempt struct {
	ID          string
	ExamID      string
	UserID      string
	Status      Status
	StartedAt   time.Time
	CompletedAt *time.Time
	Result      *scoring.Result
}

// Answer is the persisted selection for one (attempt, question) pair.
type Answer struct {
	AttemptID  string
	QuestionID string
	Selected   *string // nil means omitted
	IsCorrect  bool
}

func New(examID, userID string, now time.Time) *Attempt {
	return &Attempt{
		ID:        id.GenerateID(),
		ExamID:    examID,
		UserID:    userID,
		Status:    StatusInProgress,
		StartedAt: now,
	}
}

func (a *Attempt) InProgress() bool {
	return a.Status == StatusInProgress
}

// Elapsed is the wall time since the attempt started, at now.
func (a *Attempt) Elapsed(now time.Time) time.Duration {
	return now.Sub(a.StartedAt)
}

// AnswersFromGraded attaches graded rows to an attempt.
func AnswersFromGraded(attemptID string, graded []scoring.Graded) []Answer {
	out := make([]Answer, len(graded))
	for i, g := range graded {
		out[i] = Answer{
			AttemptID:  attemptID,
			QuestionID: g.QuestionID,
			Selected:   g.Selected,
			IsCorrect:  g.IsCorrect,
		}
	}
	return out
}
