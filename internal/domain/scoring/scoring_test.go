package scoring_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/scoring"
)

func ptr(s string) *string { return &s }

func bank(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			CorrectAnswer: "right",
			Distractors:   []string{"wrong", "worse", "worst"},
		}
	}
	return qs
}

func TestScore_SixThreeOne(t *testing.T) {
	qs := bank(10)
	var answers []scoring.Answer
	for i := 0; i < 6; i++ {
		answers = append(answers, scoring.Answer{QuestionID: qs[i].ID, Selected: ptr("right")})
	}
	for i := 6; i < 9; i++ {
		answers = append(answers, scoring.Answer{QuestionID: qs[i].ID, Selected: ptr("wrong")})
	}

	r := scoring.Score(answers, qs)

	assert.Equal(t, 6, r.Correct)
	assert.Equal(t, 3, r.Incorrect)
	assert.Equal(t, 1, r.Omitted)
	assert.Equal(t, 60.0, r.Percentage)
	assert.Equal(t, 600, r.Scaled)
}

func TestScore_NullSelectionIsOmitted(t *testing.T) {
	qs := bank(2)
	answers := []scoring.Answer{
		{QuestionID: "q1", Selected: nil},
		{QuestionID: "q2", Selected: ptr("right")},
	}

	r := scoring.Score(answers, qs)

	assert.Equal(t, scoring.Result{Correct: 1, Omitted: 1, Percentage: 50, Scaled: 500}, r)
}

func TestScore_IgnoresForeignAnswers(t *testing.T) {
	qs := bank(1)
	answers := []scoring.Answer{{QuestionID: "elsewhere", Selected: ptr("right")}}

	r := scoring.Score(answers, qs)

	assert.Equal(t, 1, r.Omitted)
	assert.Equal(t, 1, r.Total())
}

func TestScore_LastAnswerWins(t *testing.T) {
	qs := bank(1)
	answers := []scoring.Answer{
		{QuestionID: "q1", Selected: ptr("right")},
		{QuestionID: "q1", Selected: ptr("wrong")},
	}

	assert.Equal(t, 1, scoring.Score(answers, qs).Incorrect)
}

func TestScore_EmptyExam(t *testing.T) {
	r := scoring.Score(nil, nil)
	assert.Equal(t, scoring.Result{Scaled: scoring.MinScaled}, r)
}

func TestScore_PartitionHoldsForEveryMix(t *testing.T) {
	qs := bank(7)
	selections := []*string{nil, ptr("right"), ptr("wrong")}

	// Every assignment of {absent, null, right, wrong} to the 7 questions.
	total := 1
	for range qs {
		total *= 4
	}
	for mask := 0; mask < total; mask++ {
		var answers []scoring.Answer
		m := mask
		for _, q := range qs {
			choice := m % 4
			m /= 4
			if choice == 3 {
				continue
			}
			answers = append(answers, scoring.Answer{QuestionID: q.ID, Selected: selections[choice]})
		}
		r := scoring.Score(answers, qs)
		require.Equal(t, len(qs), r.Correct+r.Incorrect+r.Omitted, "mask %d", mask)
	}
}

func TestScale(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 10, 100},   // raw 0 is clamped to the floor
		{10, 10, 1000}, // 100% hits the ceiling
		{5, 10, 500},
		{6, 10, 600},
		{1, 3, 333}, // 33.33% → 333.33
		{2, 3, 667}, // 66.67% → 666.67
		{1, 8, 125}, // 12.5% → 125
		{0, 0, 100},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, scoring.Scale(tc.correct, tc.total), "%d/%d", tc.correct, tc.total)
	}
}

func TestScale_MonotoneInCorrect(t *testing.T) {
	for total := 1; total <= 60; total++ {
		prev := scoring.Scale(0, total)
		for correct := 1; correct <= total; correct++ {
			got := scoring.Scale(correct, total)
			require.GreaterOrEqual(t, got, prev, "%d/%d", correct, total)
			prev = got
		}
	}
}

func TestScore_Deterministic(t *testing.T) {
	qs := bank(5)
	answers := []scoring.Answer{
		{QuestionID: "q2", Selected: ptr("right")},
		{QuestionID: "q4", Selected: ptr("worse")},
	}
	assert.Equal(t, scoring.Score(answers, qs), scoring.Score(answers, qs))
}

func TestGrade(t *testing.T) {
	qs := bank(3)
	answers := []scoring.Answer{
		{QuestionID: "q3", Selected: ptr("right")},
		{QuestionID: "q1", Selected: nil},
	}

	graded := scoring.Grade(answers, qs)

	require.Len(t, graded, 2)
	assert.Equal(t, "q1", graded[0].QuestionID)
	assert.False(t, graded[0].IsCorrect)
	assert.Nil(t, graded[0].Selected)
	assert.Equal(t, "q3", graded[1].QuestionID)
	assert.True(t, graded[1].IsCorrect)
}
