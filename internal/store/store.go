package store

import (
	"context"
	"errors"
	"time"

	"github.com/paesprep/backend/internal/domain/attempt"
	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/domain/explanation"
	"github.com/paesprep/backend/internal/domain/profile"
	"github.com/paesprep/backend/internal/domain/progress"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/scoring"
	"github.com/paesprep/backend/internal/domain/subject"
	"github.com/paesprep/backend/internal/domain/subscription"
	"github.com/paesprep/backend/internal/domain/topic"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDataAccess marks every failure of the underlying database.
	ErrDataAccess = errors.New("data access error")
)

// Catalog is the whole question bank, used for import and export.
type Catalog struct {
	Subjects  []subject.Subject
	Topics    []topic.Topic
	Questions []question.Question
}

// QuestionBank reads and loads the question catalog.
type QuestionBank interface {
	// QuestionsByIDs returns the questions in ids order. A missing id is
	// ErrNotFound.
	QuestionsByIDs(ctx context.Context, ids []string) ([]question.Question, error)
	QuestionRefsByTopics(ctx context.Context, topicIDs []string) ([]question.Ref, error)
	QuestionRefsBySubjects(ctx context.Context, subjectIDs []string) ([]question.Ref, error)
	AllQuestionRefs(ctx context.Context) ([]question.Ref, error)

	ListSubjects(ctx context.Context) ([]subject.Subject, error)
	ListTopics(ctx context.Context, subjectID string) ([]topic.Topic, error)
	GetTopic(ctx context.Context, id string) (*topic.Topic, error)
	GetSubject(ctx context.Context, id string) (*subject.Subject, error)

	// ImportCatalog never modifies a stored question; it returns how many
	// questions were new.
	ImportCatalog(ctx context.Context, c *Catalog) (int, error)
	ExportCatalog(ctx context.Context) (*Catalog, error)
}

type ExamStore interface {
	// CreateExam writes the exam and its question list atomically.
	CreateExam(ctx context.Context, e *exam.Exam) error
	GetExam(ctx context.Context, id string) (*exam.Exam, error)
	ListActiveExams(ctx context.Context) ([]exam.Exam, error)
	SetExamActive(ctx context.Context, id string, active bool) error
}

// AttemptSummary is one row of a user's attempt history.
type AttemptSummary struct {
	Attempt       attempt.Attempt
	ExamTitle     string
	QuestionCount int
}

type AttemptStore interface {
	CreateAttempt(ctx context.Context, a *attempt.Attempt) error
	GetAttempt(ctx context.Context, id string) (*attempt.Attempt, error)
	ListInProgressAttempts(ctx context.Context) ([]attempt.Attempt, error)

	// SaveDraft is a no-op once the attempt has left in_progress.
	SaveDraft(ctx context.Context, attemptID, questionID string, selected *string, at time.Time) error
	Drafts(ctx context.Context, attemptID string) (map[string]*string, error)

	// FinalizeAttempt moves the attempt from in_progress to completed and
	// writes its answers in one transaction. It reports false, writing
	// nothing, when the attempt was no longer in progress.
	FinalizeAttempt(ctx context.Context, attemptID string, result scoring.Result, completedAt time.Time, answers []attempt.Answer) (bool, error)
	Answers(ctx context.Context, attemptID string) ([]attempt.Answer, error)

	ListUserAttempts(ctx context.Context, userID string) ([]AttemptSummary, error)
	CompletedOutcomes(ctx context.Context, userID string) ([]progress.AttemptOutcome, error)
	TopicAnswers(ctx context.Context, userID string) ([]progress.TopicAnswer, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*profile.Profile, error)
	UpsertProfile(ctx context.Context, p *profile.Profile) error
}

type ExplanationStore interface {
	SaveExplanation(ctx context.Context, e *explanation.Explanation) error
	// FindExplanation returns a stored explanation for the same question
	// and selected answer, if any.
	FindExplanation(ctx context.Context, questionID, selectedAnswer string) (*explanation.Explanation, error)
	SaveUsage(ctx context.Context, u *explanation.Usage) error
}

type SubscriptionStore interface {
	CreateSubscription(ctx context.Context, s *subscription.Subscription) error
	GetSubscriptionByToken(ctx context.Context, token string) (*subscription.Subscription, error)
	// ActivateSubscription marks a pending subscription active and the
	// owner premium in one transaction. It reports false when the
	// subscription was not pending.
	ActivateSubscription(ctx context.Context, id string, expiresAt time.Time) (bool, error)
	RejectSubscription(ctx context.Context, id string) error
}

type Store interface {
	QuestionBank
	ExamStore
	AttemptStore
	ProfileStore
	ExplanationStore
	SubscriptionStore
	Close() error
}
