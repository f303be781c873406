package explanation

import (
	"errors"
	"strings"
	"time"

	"github.com/paesprep/backend/internal/id"
)

// Explanation is an AI-written explanation of why a selected answer was
// wrong, kept so the same question and answer is never paid for twice.
type Explanation struct {
	ID               string
	UserID           string
	QuestionID       string
	AttemptID        *string // Optional
	SelectedAnswer   string
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
	CreatedAt        time.Time
}

// Request asks for an explanation of one missed question.
type Request struct {
	QuestionID     string  `json:"question_id"`
	SelectedAnswer string  `json:"selected_answer"`
	AttemptID      *string `json:"attempt_id,omitempty"`
}

func (r *Request) Validate() error {
	r.QuestionID = strings.TrimSpace(r.QuestionID)
	if r.QuestionID == "" {
		return errors.New("question_id is required")
	}
	if strings.TrimSpace(r.SelectedAnswer) == "" {
		return errors.New("selected_answer is required")
	}
	return nil
}

func New(userID string, req Request, text, model string, now time.Time) *Explanation {
	return &Explanation{
		ID:             id.GenerateID(),
		UserID:         userID,
		QuestionID:     req.QuestionID,
		AttemptID:      req.AttemptID,
		SelectedAnswer: req.SelectedAnswer,
		Text:           text,
		Model:          model,
		CreatedAt:      now,
	}
}

// Usage is one row of the model usage log.
type Usage struct {
	ID               string
	UserID           string
	Feature          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	CostUSD          float64
	CreatedAt        time.Time
}

const FeatureExplain = "explain"
