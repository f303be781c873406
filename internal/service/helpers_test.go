package service_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/countdown"
	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/subject"
	"github.com/paesprep/backend/internal/domain/topic"
	"github.com/paesprep/backend/internal/service"
	"github.com/paesprep/backend/internal/store"
)

func ptr(s string) *string { return &s }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// clock is a settable time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// manualTicks hands out tickers that only fire when told to.
type manualTicks struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

type manualTicker struct{ c chan time.Time }

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               {}

func (m *manualTicks) factory(time.Duration) countdown.Ticker {
	t := &manualTicker{c: make(chan time.Time)}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()
	return t
}

func (m *manualTicks) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tickers)
}

// fire delivers n ticks to the most recently created ticker.
func (m *manualTicks) fire(t *testing.T, n int) {
	t.Helper()
	m.mu.Lock()
	require.NotEmpty(t, m.tickers, "no countdown running")
	tk := m.tickers[len(m.tickers)-1]
	m.mu.Unlock()
	for i := 0; i < n; i++ {
		select {
		case tk.c <- time.Now():
		case <-time.After(2 * time.Second):
			t.Fatalf("countdown did not take tick %d", i+1)
		}
	}
}

type fixture struct {
	store    *store.SQLStore
	clock    *clock
	ticks    *manualTicks
	exams    *service.ExamService
	attempts *service.AttemptService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	f := &fixture{store: s, clock: newClock()}
	f.attempts = f.newAttemptService(t)
	f.exams = service.NewExamService(s, s, exam.DefaultLimits(), rand.New(rand.NewSource(1)), discardLogger())
	f.exams.SetClock(f.clock.Now)
	return f
}

// newAttemptService builds a fresh service over the same store, as a
// restarted process would.
func (f *fixture) newAttemptService(t *testing.T) *service.AttemptService {
	t.Helper()
	f.ticks = &manualTicks{}
	svc := service.NewAttemptService(f.store, f.store, f.store,
		countdown.NewScheduler(time.Second, f.ticks.factory),
		rand.New(rand.NewSource(7)), discardLogger())
	svc.SetClock(f.clock.Now)
	t.Cleanup(svc.Shutdown)
	return svc
}

// seedBank loads subjects mat and len with topics alg, geo (mat) and com
// (len), n questions each. Even positions are easy, odd are hard. Every
// question's correct answer is "correcta" and distractors are d1..d3.
func seedBank(t *testing.T, s *store.SQLStore, n int) {
	t.Helper()
	c := &store.Catalog{
		Subjects: []subject.Subject{{ID: "mat", Name: "Matemática M1"}, {ID: "len", Name: "Lenguaje"}},
		Topics: []topic.Topic{
			{ID: "alg", SubjectID: "mat", Name: "Álgebra"},
			{ID: "geo", SubjectID: "mat", Name: "Geometría"},
			{ID: "com", SubjectID: "len", Name: "Comprensión lectora"},
		},
	}
	for _, tp := range c.Topics {
		for i := 0; i < n; i++ {
			d := question.DifficultyEasy
			if i%2 == 1 {
				d = question.DifficultyHard
			}
			c.Questions = append(c.Questions, question.Question{
				ID:            fmt.Sprintf("%s-%d", tp.ID, i),
				TopicID:       tp.ID,
				Content:       fmt.Sprintf("Pregunta %d de %s", i, tp.Name),
				Difficulty:    d,
				CorrectAnswer: "correcta",
				Distractors:   []string{"d1", "d2", "d3"},
				Explanation:   "Explicación oficial.",
			})
		}
	}
	_, err := s.ImportCatalog(context.Background(), c)
	require.NoError(t, err)
}

// officialExam stores an active official exam over ids.
func officialExam(t *testing.T, s *store.SQLStore, minutes int, ids ...string) *exam.Exam {
	t.Helper()
	e := exam.NewOfficial("Ensayo PAES", minutes, ids, time.Now())
	require.NoError(t, s.CreateExam(context.Background(), e))
	return e
}

// tenQuestions is a ten-question id list over the seeded bank (n ≥ 4).
func tenQuestions() []string {
	return []string{"alg-0", "alg-1", "alg-2", "alg-3", "geo-0", "geo-1", "geo-2", "geo-3", "com-0", "com-1"}
}
