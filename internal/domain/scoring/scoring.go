// Package scoring turns a finished answer set into correctness counts and a
// PAES-style scaled score.
package scoring

import (
	"math"

	"github.com/paesprep/backend/internal/domain/question"
)

const (
	MinScaled = 100
	MaxScaled = 1000
)

// Answer is a recorded selection. A nil Selected means the student cleared it.
type Answer struct {
	QuestionID string
	Selected   *string
}

type Result struct {
	Correct    int     `json:"correct"`
	Incorrect  int     `json:"incorrect"`
	Omitted    int     `json:"omitted"`
	Percentage float64 `json:"percentage"`
	Scaled     int     `json:"scaled_score"`
}

// Total is the number of questions the result was computed over.
func (r Result) Total() int {
	return r.Correct + r.Incorrect + r.Omitted
}

// Graded is an engaged answer with its derived correctness.
type Graded struct {
	QuestionID string
	Selected   *string
	IsCorrect  bool
}

// Score classifies every question of the exam. The question list is the
// iteration authority: a question without an answer, or with a nil
// selection, counts as omitted. Answers for questions outside the list are
// ignored.
func Score(answers []Answer, questions []question.Question) Result {
	byQuestion := index(answers)

	var r Result
	for i := range questions {
		q := &questions[i]
		a, ok := byQuestion[q.ID]
		switch {
		case !ok || a.Selected == nil:
			r.Omitted++
		case *a.Selected == q.CorrectAnswer:
			r.Correct++
		default:
			r.Incorrect++
		}
	}

	total := len(questions)
	if total > 0 {
		r.Percentage = float64(100*r.Correct) / float64(total)
	}
	r.Scaled = Scale(r.Correct, total)
	return r
}

// Grade returns one row per engaged answer, in question order.
func Grade(answers []Answer, questions []question.Question) []Graded {
	byQuestion := index(answers)

	graded := make([]Graded, 0, len(byQuestion))
	for i := range questions {
		q := &questions[i]
		a, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		graded = append(graded, Graded{
			QuestionID: q.ID,
			Selected:   a.Selected,
			IsCorrect:  a.Selected != nil && *a.Selected == q.CorrectAnswer,
		})
	}
	return graded
}

// Scale maps correct/total to the 100–1000 range: 50% accuracy is 500 and
// each percentage point moves 10 points. Zero questions yields the floor.
func Scale(correct, total int) int {
	if total <= 0 {
		return MinScaled
	}
	pct := float64(100*correct) / float64(total)
	scaled := int(math.Floor(500 + (pct-50)*10 + 0.5))
	return min(max(scaled, MinScaled), MaxScaled)
}

// index keeps the last answer per question.
func index(answers []Answer) map[string]Answer {
	m := make(map[string]Answer, len(answers))
	for _, a := range answers {
		m[a.QuestionID] = a
	}
	return m
}
