package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/store"
)

// ExamService composes custom exams from the question bank.
type ExamService struct {
	bank   store.QuestionBank
	exams  store.ExamStore
	limits exam.Limits
	logger *slog.Logger
	now    func() time.Time

	rngMu sync.Mutex // *rand.Rand is not safe for concurrent use
	rng   *rand.Rand
}

func NewExamService(bank store.QuestionBank, exams store.ExamStore, limits exam.Limits, rng *rand.Rand, logger *slog.Logger) *ExamService {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &ExamService{
		bank:   bank,
		exams:  exams,
		limits: limits,
		logger: logger,
		now:    time.Now,
		rng:    rng,
	}
}

// Compose validates c, samples the question pool and persists a new custom
// exam owned by userID. Nothing is written when validation fails or the
// pool is empty.
func (s *ExamService) Compose(ctx context.Context, userID string, c exam.Criteria) (*exam.Exam, error) {
	if err := c.Validate(s.limits); err != nil {
		return nil, err
	}
	difficulty, err := c.DifficultyFilter()
	if err != nil {
		return nil, err
	}

	pool, err := s.candidatePool(ctx, c)
	if err != nil {
		return nil, err
	}

	s.rngMu.Lock()
	ids, err := exam.Compose(pool, difficulty, c.QuestionCount, s.rng)
	s.rngMu.Unlock()
	if err != nil {
		return nil, err
	}

	e := exam.NewCustom(userID, c.Title, c.DurationMinutes, ids, s.now())
	if err := s.exams.CreateExam(ctx, e); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}

	s.logger.Info("exam composed",
		"exam_id", e.ID,
		"user_id", userID,
		"pool_size", len(pool),
		"questions", len(ids),
	)
	return e, nil
}

// candidatePool resolves topics first, then subjects, then the whole bank.
func (s *ExamService) candidatePool(ctx context.Context, c exam.Criteria) ([]question.Ref, error) {
	switch {
	case len(c.TopicIDs) > 0:
		return s.bank.QuestionRefsByTopics(ctx, c.TopicIDs)
	case len(c.SubjectIDs) > 0:
		return s.bank.QuestionRefsBySubjects(ctx, c.SubjectIDs)
	default:
		return s.bank.AllQuestionRefs(ctx)
	}
}

func (s *ExamService) List(ctx context.Context) ([]exam.Exam, error) {
	return s.exams.ListActiveExams(ctx)
}

func (s *ExamService) Get(ctx context.Context, id string) (*exam.Exam, error) {
	return s.exams.GetExam(ctx, id)
}

// Deactivate hides an exam from new attempts. Only its creator may do so.
func (s *ExamService) Deactivate(ctx context.Context, userID, id string) error {
	e, err := s.exams.GetExam(ctx, id)
	if err != nil {
		return err
	}
	if !e.OwnedBy(userID) {
		return exam.ErrNotOwner
	}
	if err := s.exams.SetExamActive(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("exam deactivated", "exam_id", id, "user_id", userID)
	return nil
}
