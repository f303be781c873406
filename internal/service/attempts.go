package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/paesprep/backend/internal/countdown"
	"github.com/paesprep/backend/internal/domain/attempt"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/scoring"
	"github.com/paesprep/backend/internal/store"
)

// AttemptService drives timed attempts. Live sessions are kept in memory
// and rebuilt from the store (attempt, exam and draft answers) when
// missing, so a restart does not lose an attempt in progress.
type AttemptService struct {
	exams    store.ExamStore
	bank     store.QuestionBank
	attempts store.AttemptStore
	timers   *countdown.Scheduler
	logger   *slog.Logger
	now      func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	mu       sync.Mutex
	sessions map[string]*liveSession // attemptID → session
}

type liveSession struct {
	*attempt.Session
	duration time.Duration
}

func NewAttemptService(exams store.ExamStore, bank store.QuestionBank, attempts store.AttemptStore, timers *countdown.Scheduler, rng *rand.Rand, logger *slog.Logger) *AttemptService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &AttemptService{
		exams:    exams,
		bank:     bank,
		attempts: attempts,
		timers:   timers,
		logger:   logger,
		now:      time.Now,
		rng:      rng,
		sessions: make(map[string]*liveSession),
	}
}

// Start opens a new attempt on an active exam and starts its countdown.
func (s *AttemptService) Start(ctx context.Context, userID, examID string) (attempt.View, error) {
	e, err := s.exams.GetExam(ctx, examID)
	if err != nil {
		return attempt.View{}, err
	}
	if !e.Active || len(e.QuestionIDs) == 0 {
		return attempt.View{}, attempt.ErrExamInactive
	}

	questions, err := s.bank.QuestionsByIDs(ctx, e.QuestionIDs)
	if err != nil {
		return attempt.View{}, fmt.Errorf("load exam questions: %w", err)
	}

	a := attempt.New(e.ID, userID, s.now())
	if err := s.attempts.CreateAttempt(ctx, a); err != nil {
		return attempt.View{}, err
	}

	live := &liveSession{
		Session:  s.newSession(*a, questions, e.DurationSeconds(), nil),
		duration: time.Duration(e.DurationSeconds()) * time.Second,
	}
	s.mu.Lock()
	s.sessions[a.ID] = live
	s.mu.Unlock()
	s.arm(live)

	s.logger.Info("attempt started",
		"attempt_id", a.ID,
		"exam_id", e.ID,
		"user_id", userID,
		"questions", len(questions),
	)
	return live.Snapshot(), nil
}

// Get returns the current state of an attempt. Finalized attempts show the
// stored answers.
func (s *AttemptService) Get(ctx context.Context, userID, attemptID string) (attempt.View, error) {
	live, final, err := s.lookup(ctx, userID, attemptID)
	if err != nil {
		return attempt.View{}, err
	}
	if live != nil {
		return live.Snapshot(), nil
	}
	return s.finalView(ctx, final)
}

// SelectAnswer records a selection, nil clearing it. Reselecting
// overwrites.
func (s *AttemptService) SelectAnswer(ctx context.Context, userID, attemptID, questionID string, selected *string) error {
	live, _, err := s.lookup(ctx, userID, attemptID)
	if err != nil {
		return err
	}
	if live == nil {
		return attempt.ErrAlreadyFinalized
	}
	if err := live.Select(questionID, selected); err != nil {
		return err
	}

	// Drafts only serve crash recovery; the in-memory selection is
	// authoritative. A Finish that won the race already cleared them.
	if a := live.Attempt(); !a.InProgress() {
		return nil
	}
	if err := s.attempts.SaveDraft(ctx, attemptID, questionID, selected, s.now()); err != nil {
		s.logger.Warn("failed to save draft answer",
			"attempt_id", attemptID,
			"question_id", questionID,
			"error", err,
		)
	}
	return nil
}

// Finish finalizes the attempt and returns its result. Repeated or
// concurrent calls return the same stored result.
func (s *AttemptService) Finish(ctx context.Context, userID, attemptID string) (*attempt.Attempt, error) {
	live, final, err := s.lookup(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if live == nil {
		return final, nil
	}
	a, err := s.finish(ctx, live)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Cancel stops the countdown of an attempt without finalizing it. The next
// request on the attempt re-arms the countdown from the wall clock, so
// time keeps running while nobody is watching.
func (s *AttemptService) Cancel(ctx context.Context, userID, attemptID string) error {
	live, _, err := s.lookup(ctx, userID, attemptID)
	if err != nil {
		return err
	}
	if live == nil {
		return attempt.ErrAlreadyFinalized
	}
	s.timers.Stop(attemptID)
	return nil
}

// Recover rebuilds sessions for every attempt left in progress, finishing
// those whose time ran out while the process was down.
func (s *AttemptService) Recover(ctx context.Context) (int, error) {
	pending, err := s.attempts.ListInProgressAttempts(ctx)
	if err != nil {
		return 0, err
	}
	recovered := 0
	for i := range pending {
		a := pending[i]
		if _, _, err := s.lookup(ctx, a.UserID, a.ID); err != nil {
			s.logger.Error("failed to recover attempt", "attempt_id", a.ID, "error", err)
			continue
		}
		recovered++
	}
	return recovered, nil
}

// Shutdown stops every countdown. Attempts stay in progress and are
// recovered on the next start.
func (s *AttemptService) Shutdown() {
	s.timers.StopAll()
}

// ============================================================================
// Results & history
// ============================================================================

// QuestionResult is one row of the results page.
type QuestionResult struct {
	Question  question.Question
	Selected  *string
	IsCorrect bool
}

func (r QuestionResult) Omitted() bool { return r.Selected == nil }

type Results struct {
	Attempt   attempt.Attempt
	ExamTitle string
	Questions []QuestionResult
}

// Results returns the per-question breakdown of a finalized attempt.
func (s *AttemptService) Results(ctx context.Context, userID, attemptID string) (*Results, error) {
	a, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, err
	}
	if a.Status != attempt.StatusCompleted {
		return nil, attempt.ErrNotFinished
	}

	e, err := s.exams.GetExam(ctx, a.ExamID)
	if err != nil {
		return nil, err
	}
	questions, err := s.bank.QuestionsByIDs(ctx, e.QuestionIDs)
	if err != nil {
		return nil, err
	}
	answers, err := s.attempts.Answers(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	byQuestion := make(map[string]attempt.Answer, len(answers))
	for _, ans := range answers {
		byQuestion[ans.QuestionID] = ans
	}

	out := &Results{Attempt: *a, ExamTitle: e.Title, Questions: make([]QuestionResult, len(questions))}
	for i, q := range questions {
		ans := byQuestion[q.ID]
		out.Questions[i] = QuestionResult{Question: q, Selected: ans.Selected, IsCorrect: ans.IsCorrect}
	}
	return out, nil
}

func (s *AttemptService) History(ctx context.Context, userID string) ([]store.AttemptSummary, error) {
	return s.attempts.ListUserAttempts(ctx, userID)
}

// ============================================================================
// Session registry
// ============================================================================

// lookup returns the live session of an in-progress attempt, rebuilding it
// from the store when needed, or the stored attempt once it is finalized.
// Attempts of other users are reported as not found.
func (s *AttemptService) lookup(ctx context.Context, userID, attemptID string) (*liveSession, *attempt.Attempt, error) {
	s.mu.Lock()
	live, ok := s.sessions[attemptID]
	s.mu.Unlock()

	if ok {
		a := live.Attempt()
		if a.UserID != userID {
			return nil, nil, store.ErrNotFound
		}
		if !a.InProgress() {
			return nil, &a, nil
		}
		if !s.timers.Active(attemptID) {
			s.arm(live)
			if a := live.Attempt(); !a.InProgress() {
				return nil, &a, nil
			}
		}
		return live, nil, nil
	}

	a, err := s.ownedAttempt(ctx, userID, attemptID)
	if err != nil {
		return nil, nil, err
	}
	if !a.InProgress() {
		return nil, a, nil
	}

	live, err = s.restore(ctx, a)
	if err != nil {
		return nil, nil, err
	}
	if a := live.Attempt(); !a.InProgress() {
		return nil, &a, nil
	}
	return live, nil, nil
}

// restore rebuilds a session from the store and registers it, unless
// another caller registered one first.
func (s *AttemptService) restore(ctx context.Context, a *attempt.Attempt) (*liveSession, error) {
	e, err := s.exams.GetExam(ctx, a.ExamID)
	if err != nil {
		return nil, fmt.Errorf("restore attempt %s: %w", a.ID, err)
	}
	questions, err := s.bank.QuestionsByIDs(ctx, e.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("restore attempt %s: %w", a.ID, err)
	}
	drafts, err := s.attempts.Drafts(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("restore attempt %s: %w", a.ID, err)
	}

	duration := time.Duration(e.DurationSeconds()) * time.Second
	fresh := &liveSession{
		Session:  s.newSession(*a, questions, e.DurationSeconds(), drafts),
		duration: duration,
	}

	s.mu.Lock()
	if existing, ok := s.sessions[a.ID]; ok {
		s.mu.Unlock()
		return existing, nil
	}
	s.sessions[a.ID] = fresh
	s.mu.Unlock()

	s.logger.Info("attempt session restored", "attempt_id", a.ID, "drafts", len(drafts))
	s.arm(fresh)
	return fresh, nil
}

// arm aligns the countdown with the wall clock and starts ticking, or
// finishes the attempt right away when its time is already up.
func (s *AttemptService) arm(live *liveSession) {
	a := live.Attempt()
	left := int((live.duration - a.Elapsed(s.now())) / time.Second)
	live.Resync(left)

	if live.Remaining() == 0 {
		if _, err := s.finish(context.Background(), live); err != nil {
			s.logger.Error("failed to finish expired attempt", "attempt_id", a.ID, "error", err)
		}
		return
	}

	s.timers.Start(a.ID, live.Tick, func() {
		s.logger.Info("attempt time is up", "attempt_id", a.ID)
		// The countdown outlives the request that started it.
		if _, err := s.finish(context.Background(), live); err != nil {
			s.logger.Error("failed to finish attempt on timeout", "attempt_id", a.ID, "error", err)
		}
	})
}

func (s *AttemptService) newSession(a attempt.Attempt, questions []question.Question, remaining int, drafts map[string]*string) *attempt.Session {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return attempt.NewSession(a, questions, remaining, drafts, s.rng)
}

// finish scores and persists the session exactly once. The store decides
// the winner between processes; the session collapses callers within this
// one.
func (s *AttemptService) finish(ctx context.Context, live *liveSession) (attempt.Attempt, error) {
	id := live.ID()
	final, err := live.Finish(func(answers []scoring.Answer) (attempt.Attempt, error) {
		questions := live.Questions()
		result := scoring.Score(answers, questions)
		graded := attempt.AnswersFromGraded(id, scoring.Grade(answers, questions))
		completedAt := s.now()

		won, err := s.attempts.FinalizeAttempt(ctx, id, result, completedAt, graded)
		if err != nil {
			return attempt.Attempt{}, err
		}
		if !won {
			stored, err := s.attempts.GetAttempt(ctx, id)
			if err != nil {
				return attempt.Attempt{}, err
			}
			return *stored, nil
		}

		a := live.Attempt()
		a.Status = attempt.StatusCompleted
		a.CompletedAt = &completedAt
		a.Result = &result
		s.logger.Info("attempt finished",
			"attempt_id", id,
			"correct", result.Correct,
			"incorrect", result.Incorrect,
			"omitted", result.Omitted,
			"score", result.Scaled,
		)
		return a, nil
	})
	if err != nil {
		return attempt.Attempt{}, err
	}

	s.timers.Stop(id)
	s.mu.Lock()
	if s.sessions[id] == live {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	return final, nil
}

func (s *AttemptService) ownedAttempt(ctx context.Context, userID, attemptID string) (*attempt.Attempt, error) {
	a, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, store.ErrNotFound
	}
	return a, nil
}

// finalView renders a finalized attempt from its stored answers.
func (s *AttemptService) finalView(ctx context.Context, a *attempt.Attempt) (attempt.View, error) {
	e, err := s.exams.GetExam(ctx, a.ExamID)
	if err != nil {
		return attempt.View{}, err
	}
	questions, err := s.bank.QuestionsByIDs(ctx, e.QuestionIDs)
	if err != nil {
		return attempt.View{}, err
	}
	answers, err := s.attempts.Answers(ctx, a.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return attempt.View{}, err
	}
	selections := make(map[string]*string, len(answers))
	for _, ans := range answers {
		selections[ans.QuestionID] = ans.Selected
	}
	return s.newSession(*a, questions, 0, selections).Snapshot(), nil
}
