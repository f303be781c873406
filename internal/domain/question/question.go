package question

import (
	"errors"
	"strings"

	"github.com/paesprep/backend/internal/id"
)

// Question is immutable once created and owned by the question bank.
type Question struct {
	ID            string
	TopicID       string
	Content       string
	ImageURL      *string // Optional
	Difficulty    Difficulty
	CorrectAnswer string
	Distractors   []string // Ordered, typically 3
	Explanation   string
}

// Ref is the lightweight projection used to filter the bank without
// loading question content.
type Ref struct {
	ID         string
	TopicID    string
	Difficulty Difficulty
}

func New(topicID, content string, difficulty Difficulty, correct string, distractors []string, explanation string) (*Question, error) {
	q := &Question{
		ID:            id.GenerateID(),
		TopicID:       topicID,
		Content:       strings.TrimSpace(content),
		Difficulty:    difficulty,
		CorrectAnswer: strings.TrimSpace(correct),
		Distractors:   distractors,
		Explanation:   explanation,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// Validate checks the invariants every stored question must satisfy.
func (q *Question) Validate() error {
	if q.TopicID == "" {
		return errors.New("question topic cannot be empty")
	}
	if q.Content == "" {
		return errors.New("question content cannot be empty")
	}
	if !q.Difficulty.Valid() {
		return errors.New("question difficulty must be easy, medium or hard")
	}
	if q.CorrectAnswer == "" {
		return errors.New("question correct answer cannot be empty")
	}
	if len(q.Distractors) == 0 {
		return errors.New("question needs at least one distractor")
	}
	seen := map[string]struct{}{q.CorrectAnswer: {}}
	for _, d := range q.Distractors {
		if strings.TrimSpace(d) == "" {
			return errors.New("distractors cannot be empty")
		}
		if _, dup := seen[d]; dup {
			return errors.New("options must be distinct")
		}
		seen[d] = struct{}{}
	}
	return nil
}

// Ref returns the filtering projection of q.
func (q *Question) Ref() Ref {
	return Ref{ID: q.ID, TopicID: q.TopicID, Difficulty: q.Difficulty}
}

// OptionCount is the number of choices presented: the distractors plus the
// correct answer.
func (q *Question) OptionCount() int {
	return len(q.Distractors) + 1
}

// HasOption reports whether v is one of the values presented for q.
func (q *Question) HasOption(v string) bool {
	if v == q.CorrectAnswer {
		return true
	}
	for _, d := range q.Distractors {
		if d == v {
			return true
		}
	}
	return false
}
