package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paesprep/backend/internal/domain/attempt"
	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/domain/explanation"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/explainer"
	"github.com/paesprep/backend/internal/id"
	"github.com/paesprep/backend/internal/ratelimit"
	"github.com/paesprep/backend/internal/store"
	"github.com/paesprep/backend/internal/worker"
)

var ErrRateLimited = errors.New("explanation limit reached")

// RateLimitError reports when the caller may ask again.
type RateLimitError struct {
	Limit int
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: %d per window, next at %s", ErrRateLimited, e.Limit, e.Reset.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// ExplanationStores is what ExplanationService reads and writes.
type ExplanationStores interface {
	store.QuestionBank
	store.AttemptStore
	store.ProfileStore
	store.ExplanationStore
}

// ExplanationService asks the model why a selected answer is wrong.
// Premium users are not rate limited; cached explanations are free.
type ExplanationService struct {
	store   ExplanationStores
	model   explainer.Explainer
	limiter ratelimit.Limiter
	workers int
	logger  *slog.Logger
	now     func() time.Time
}

func NewExplanationService(s ExplanationStores, model explainer.Explainer, limiter ratelimit.Limiter, workers int, logger *slog.Logger) *ExplanationService {
	return &ExplanationService{
		store:   s,
		model:   model,
		limiter: limiter,
		workers: max(workers, 1),
		logger:  logger,
		now:     time.Now,
	}
}

// Explain returns an explanation of why req.SelectedAnswer is wrong.
func (s *ExplanationService) Explain(ctx context.Context, userID string, req explanation.Request) (*explanation.Explanation, error) {
	if err := req.Validate(); err != nil {
		return nil, &exam.ValidationError{Field: "request", Msg: err.Error()}
	}

	qs, err := s.store.QuestionsByIDs(ctx, []string{req.QuestionID})
	if err != nil {
		return nil, err
	}
	q := qs[0]
	if req.SelectedAnswer == q.CorrectAnswer {
		return nil, &exam.ValidationError{Field: "selected_answer", Msg: "the selected answer is correct"}
	}
	if !q.HasOption(req.SelectedAnswer) {
		return nil, attempt.ErrInvalidOption
	}

	cached, err := s.store.FindExplanation(ctx, q.ID, req.SelectedAnswer)
	switch {
	case err == nil:
		return cached, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	if err := s.allow(ctx, userID); err != nil {
		return nil, err
	}
	return s.generate(ctx, userID, req, &q)
}

// MissedResult is the outcome of explaining one incorrect answer.
type MissedResult struct {
	QuestionID  string
	Explanation *explanation.Explanation
	Skipped     bool // rate limit reached before this question
	Err         error
}

// ExplainMissed explains every incorrect answer of a completed attempt,
// running model calls in parallel.
func (s *ExplanationService) ExplainMissed(ctx context.Context, userID, attemptID string) ([]MissedResult, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, store.ErrNotFound
	}
	if a.Status != attempt.StatusCompleted {
		return nil, attempt.ErrNotFinished
	}

	answers, err := s.store.Answers(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	var missed []attempt.Answer
	for _, ans := range answers {
		if ans.Selected != nil && !ans.IsCorrect {
			missed = append(missed, ans)
		}
	}
	if len(missed) == 0 {
		return nil, nil
	}

	jobs := make(map[string]worker.Job[MissedResult], len(missed))
	for _, ans := range missed {
		req := explanation.Request{QuestionID: ans.QuestionID, SelectedAnswer: *ans.Selected, AttemptID: &attemptID}
		jobs[ans.QuestionID] = func() MissedResult {
			e, err := s.Explain(ctx, userID, req)
			r := MissedResult{QuestionID: req.QuestionID, Explanation: e}
			if errors.Is(err, ErrRateLimited) {
				r.Skipped = true
			} else {
				r.Err = err
			}
			return r
		}
	}
	byQuestion := worker.Run(s.workers, jobs)

	out := make([]MissedResult, len(missed))
	for i, ans := range missed {
		out[i] = byQuestion[ans.QuestionID]
	}
	return out, nil
}

func (s *ExplanationService) allow(ctx context.Context, userID string) error {
	p, err := s.store.GetProfile(ctx, userID)
	switch {
	case err == nil && p.Premium:
		return nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return err
	}

	d := s.limiter.Allow(userID)
	if !d.Allowed {
		s.logger.Info("explanation rate limited", "user_id", userID, "reset", d.Reset)
		return &RateLimitError{Limit: d.Limit, Reset: d.Reset}
	}
	return nil
}

func (s *ExplanationService) generate(ctx context.Context, userID string, req explanation.Request, q *question.Question) (*explanation.Explanation, error) {
	in := explainer.PromptInput{Question: *q, SelectedAnswer: req.SelectedAnswer}
	if t, err := s.store.GetTopic(ctx, q.TopicID); err == nil {
		in.TopicName = t.Name
		if sub, err := s.store.GetSubject(ctx, t.SubjectID); err == nil {
			in.SubjectName = sub.Name
		}
	}

	completion, err := s.model.Explain(ctx, explainer.BuildPrompt(in))
	if err != nil {
		return nil, err
	}

	now := s.now()
	e := explanation.New(userID, req, completion.Text, completion.Model, now)
	e.PromptTokens = completion.PromptTokens
	e.CompletionTokens = completion.CompletionTokens
	e.CostUSD = completion.Cost()

	if err := s.store.SaveExplanation(ctx, e); err != nil {
		s.logger.Error("failed to save explanation", "question_id", q.ID, "error", err)
	}
	usage := &explanation.Usage{
		ID:               id.GenerateID(),
		UserID:           userID,
		Feature:          explanation.FeatureExplain,
		Model:            e.Model,
		PromptTokens:     e.PromptTokens,
		CompletionTokens: e.CompletionTokens,
		CostUSD:          e.CostUSD,
		CreatedAt:        now,
	}
	if err := s.store.SaveUsage(ctx, usage); err != nil {
		s.logger.Error("failed to save usage log", "question_id", q.ID, "error", err)
	}

	s.logger.Info("explanation generated",
		"user_id", userID,
		"question_id", q.ID,
		"model", e.Model,
		"cost_usd", e.CostUSD,
	)
	return e, nil
}
