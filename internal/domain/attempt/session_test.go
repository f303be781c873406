package attempt_test

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/domain/attempt"
	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/scoring"
)

func ptr(s string) *string { return &s }

func questions(n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{
			ID:            fmt.Sprintf("q%d", i+1),
			TopicID:       "t1",
			Content:       fmt.Sprintf("Pregunta %d", i+1),
			CorrectAnswer: "A",
			Distractors:   []string{"B", "C", "D"},
		}
	}
	return qs
}

func newSession(n, remaining int) *attempt.Session {
	a := attempt.New("exam-1", "user-1", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	return attempt.NewSession(*a, questions(n), remaining, nil, rand.New(rand.NewSource(1)))
}

// commitScored mimics the service: score, mark completed, count calls.
func commitScored(s *attempt.Session, calls *int32) func([]scoring.Answer) (attempt.Attempt, error) {
	return func(answers []scoring.Answer) (attempt.Attempt, error) {
		atomic.AddInt32(calls, 1)
		a := s.Snapshot().Attempt
		r := scoring.Score(answers, s.Questions())
		now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
		a.Status = attempt.StatusCompleted
		a.CompletedAt = &now
		a.Result = &r
		return a, nil
	}
}

func TestSelect_LastWriteWins(t *testing.T) {
	s := newSession(3, 60)

	require.NoError(t, s.Select("q1", ptr("B")))
	require.NoError(t, s.Select("q1", ptr("C")))

	answers := s.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, "C", *answers[0].Selected)
}

func TestSelect_IdempotentAndClearable(t *testing.T) {
	s := newSession(2, 60)

	require.NoError(t, s.Select("q2", ptr("A")))
	require.NoError(t, s.Select("q2", ptr("A")))
	require.NoError(t, s.Select("q2", nil))

	answers := s.Answers()
	require.Len(t, answers, 1)
	assert.Nil(t, answers[0].Selected)
}

func TestSelect_ForeignQuestion(t *testing.T) {
	s := newSession(2, 60)
	assert.ErrorIs(t, s.Select("q99", ptr("A")), attempt.ErrInvalidQuestion)
}

func TestSelect_UnknownOption(t *testing.T) {
	s := newSession(2, 60)
	err := s.Select("q1", ptr("Z"))
	assert.ErrorIs(t, err, attempt.ErrInvalidOption)
	assert.ErrorIs(t, err, exam.ErrInvalidInput)
}

func TestSelect_AfterFinish(t *testing.T) {
	s := newSession(2, 60)
	var calls int32
	_, err := s.Finish(commitScored(s, &calls))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Select("q1", ptr("A")), attempt.ErrAlreadyFinalized)
}

func TestAnswers_FollowQuestionOrder(t *testing.T) {
	s := newSession(4, 60)
	require.NoError(t, s.Select("q4", ptr("A")))
	require.NoError(t, s.Select("q2", ptr("B")))

	answers := s.Answers()
	require.Len(t, answers, 2)
	assert.Equal(t, "q2", answers[0].QuestionID)
	assert.Equal(t, "q4", answers[1].QuestionID)
}

func TestTick_ExpiresAtZero(t *testing.T) {
	s := newSession(1, 3)

	assert.False(t, s.Tick())
	assert.False(t, s.Tick())
	assert.True(t, s.Tick())
	assert.Equal(t, 0, s.Remaining())
}

func TestTick_StopsAfterFinish(t *testing.T) {
	s := newSession(1, 10)
	var calls int32
	_, err := s.Finish(commitScored(s, &calls))
	require.NoError(t, err)

	assert.False(t, s.Tick())
	assert.Equal(t, 10, s.Remaining())
}

func TestFinish_Idempotent(t *testing.T) {
	s := newSession(10, 60)
	for i := 1; i <= 6; i++ {
		require.NoError(t, s.Select(fmt.Sprintf("q%d", i), ptr("A")))
	}
	for i := 7; i <= 9; i++ {
		require.NoError(t, s.Select(fmt.Sprintf("q%d", i), ptr("B")))
	}

	var calls int32
	first, err := s.Finish(commitScored(s, &calls))
	require.NoError(t, err)
	second, err := s.Finish(commitScored(s, &calls))
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls)
	assert.Equal(t, first, second)
	assert.Equal(t, scoring.Result{Correct: 6, Incorrect: 3, Omitted: 1, Percentage: 60, Scaled: 600}, *first.Result)
}

func TestFinish_ConcurrentCallersCommitOnce(t *testing.T) {
	s := newSession(5, 60)
	require.NoError(t, s.Select("q1", ptr("A")))

	var calls int32
	var wg sync.WaitGroup
	results := make([]attempt.Attempt, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, err := s.Finish(commitScored(s, &calls))
			assert.NoError(t, err)
			results[i] = a
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls)
	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
}

func TestFinish_FailedCommitReopens(t *testing.T) {
	s := newSession(2, 60)
	boom := errors.New("db down")

	_, err := s.Finish(func([]scoring.Answer) (attempt.Attempt, error) {
		return attempt.Attempt{}, boom
	})
	require.ErrorIs(t, err, boom)

	assert.True(t, s.Snapshot().Attempt.InProgress())
	assert.NoError(t, s.Select("q1", ptr("A")))
}

func TestSnapshot_OptionsStableAcrossCalls(t *testing.T) {
	s := newSession(3, 60)

	first := s.Snapshot()
	second := s.Snapshot()

	for i := range first.Questions {
		assert.Equal(t, first.Questions[i].Options, second.Questions[i].Options)
		assert.Len(t, first.Questions[i].Options, 4)
	}
}

func TestNewSession_RestoresDrafts(t *testing.T) {
	a := attempt.New("exam-1", "user-1", time.Now())
	drafts := map[string]*string{"q2": ptr("C"), "stale": ptr("A")}

	s := attempt.NewSession(*a, questions(3), 30, drafts, rand.New(rand.NewSource(1)))

	answers := s.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, "q2", answers[0].QuestionID)
	assert.Equal(t, "C", *s.Snapshot().Questions[1].Selected)
}

func TestAnswersFromGraded(t *testing.T) {
	graded := []scoring.Graded{{QuestionID: "q1", Selected: ptr("A"), IsCorrect: true}}
	out := attempt.AnswersFromGraded("att", graded)
	assert.Equal(t, []attempt.Answer{{AttemptID: "att", QuestionID: "q1", Selected: ptr("A"), IsCorrect: true}}, out)
}

func TestResync_OnlyLowers(t *testing.T) {
	s := newSession(1, 100)

	s.Resync(40)
	assert.Equal(t, 40, s.Remaining())

	s.Resync(90)
	assert.Equal(t, 40, s.Remaining())

	s.Resync(-5)
	assert.Equal(t, 0, s.Remaining())
	assert.True(t, s.Tick())
}
