package exam

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/paesprep/backend/internal/domain/question"
)

// DifficultyAny disables the difficulty filter.
const DifficultyAny = "any"

// Criteria is a request to compose a custom exam.
type Criteria struct {
	Title           string   `json:"title"`
	DurationMinutes int      `json:"duration_minutes"`
	SubjectIDs      []string `json:"subject_ids"`
	TopicIDs        []string `json:"topic_ids"`
	Difficulty      string   `json:"difficulty"`
	QuestionCount   int      `json:"question_count"`
}

// Limits bounds what a composer request may ask for.
type Limits struct {
	MaxTitleLength int `yaml:"max_title_length"`
	MinDuration    int `yaml:"min_duration_minutes"`
	MaxDuration    int `yaml:"max_duration_minutes"`
	MinQuestions   int `yaml:"min_questions"`
	MaxQuestions   int `yaml:"max_questions"`
}

func DefaultLimits() Limits {
	return Limits{
		MaxTitleLength: 100,
		MinDuration:    15,
		MaxDuration:    300,
		MinQuestions:   1,
		MaxQuestions:   200,
	}
}

// Validate normalizes c in place and reports the first violated bound.
func (c *Criteria) Validate(l Limits) error {
	c.Title = strings.TrimSpace(c.Title)
	n := utf8.RuneCountInString(c.Title)
	if n == 0 {
		return &ValidationError{Field: "title", Msg: "title is required"}
	}
	if n > l.MaxTitleLength {
		return &ValidationError{Field: "title", Msg: fmt.Sprintf("title must be at most %d characters", l.MaxTitleLength)}
	}

	if c.DurationMinutes < l.MinDuration || c.DurationMinutes > l.MaxDuration {
		return &ValidationError{
			Field: "duration_minutes",
			Msg:   fmt.Sprintf("duration must be between %d and %d minutes", l.MinDuration, l.MaxDuration),
		}
	}

	if c.QuestionCount < l.MinQuestions || c.QuestionCount > l.MaxQuestions {
		return &ValidationError{
			Field: "question_count",
			Msg:   fmt.Sprintf("question count must be between %d and %d", l.MinQuestions, l.MaxQuestions),
		}
	}

	if _, err := c.DifficultyFilter(); err != nil {
		return err
	}
	return nil
}

// DifficultyFilter returns nil when every difficulty is accepted.
func (c *Criteria) DifficultyFilter() (*question.Difficulty, error) {
	raw := strings.TrimSpace(c.Difficulty)
	if raw == "" || strings.EqualFold(raw, DifficultyAny) {
		return nil, nil
	}
	d, ok := question.ParseDifficulty(raw)
	if !ok {
		return nil, &ValidationError{Field: "difficulty", Msg: "difficulty must be any, easy, medium or hard"}
	}
	return &d, nil
}
