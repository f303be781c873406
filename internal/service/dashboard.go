package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/paesprep/backend/internal/domain/progress"
	"github.com/paesprep/backend/internal/store"
)

// TopicProgress is a mastery row with display names resolved.
type TopicProgress struct {
	progress.TopicStat
	TopicName   string
	SubjectName string
}

type Dashboard struct {
	Summary progress.Summary
	Topics  []TopicProgress
}

// DashboardService aggregates a user's completed attempts.
type DashboardService struct {
	attempts store.AttemptStore
	bank     store.QuestionBank
	loc      *time.Location
	logger   *slog.Logger
}

func NewDashboardService(attempts store.AttemptStore, bank store.QuestionBank, loc *time.Location, logger *slog.Logger) *DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{attempts: attempts, bank: bank, loc: loc, logger: logger}
}

func (s *DashboardService) Summary(ctx context.Context, userID string) (progress.Summary, error) {
	outcomes, err := s.attempts.CompletedOutcomes(ctx, userID)
	if err != nil {
		return progress.Summary{}, err
	}
	return progress.Summarize(outcomes, s.loc), nil
}

func (s *DashboardService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	answers, err := s.attempts.TopicAnswers(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := progress.TopicMastery(answers)

	out := &Dashboard{Summary: summary, Topics: make([]TopicProgress, 0, len(stats))}
	subjectNames := make(map[string]string)
	for _, st := range stats {
		row := TopicProgress{TopicStat: st}
		t, err := s.bank.GetTopic(ctx, st.TopicID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			// Topic removed from the bank after the attempt; keep the row.
		case err != nil:
			return nil, err
		default:
			row.TopicName = t.Name
			name, ok := subjectNames[t.SubjectID]
			if !ok {
				if sub, err := s.bank.GetSubject(ctx, t.SubjectID); err == nil {
					name = sub.Name
				} else if !errors.Is(err, store.ErrNotFound) {
					return nil, err
				}
				subjectNames[t.SubjectID] = name
			}
			row.SubjectName = name
		}
		out.Topics = append(out.Topics, row)
	}
	return out, nil
}
