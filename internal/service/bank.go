package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/subject"
	"github.com/paesprep/backend/internal/domain/topic"
	"github.com/paesprep/backend/internal/id"
	"github.com/paesprep/backend/internal/store"
)

// ── Bank file format ────────────────────────────────────────────────────────
// The seed tool reads and writes this document as JSON or YAML. IDs are
// optional on import.
// Subjects and topics carrying an ID are renamed in place; a question whose
// ID is already stored is kept as it is, since finished attempts were graded
// against it.

const BankFormatVersion = "1.0"

type BankQuestion struct {
	ID            string   `json:"id,omitempty" yaml:"id,omitempty"`
	Content       string   `json:"content" yaml:"content"`
	ImageURL      *string  `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Difficulty    string   `json:"difficulty" yaml:"difficulty"`
	CorrectAnswer string   `json:"correct_answer" yaml:"correct_answer"`
	Distractors   []string `json:"distractors" yaml:"distractors"`
	Explanation   string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

type BankTopic struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string         `json:"name" yaml:"name"`
	Questions []BankQuestion `json:"questions" yaml:"questions"`
}

type BankSubject struct {
	ID     string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string      `json:"name" yaml:"name"`
	Topics []BankTopic `json:"topics" yaml:"topics"`
}

type BankData struct {
	Version    string        `json:"version" yaml:"version"`
	ExportedAt string        `json:"exported_at,omitempty" yaml:"exported_at,omitempty"`
	Subjects   []BankSubject `json:"subjects" yaml:"subjects"`
}

type ImportResult struct {
	SubjectsImported  int `json:"subjects_imported"`
	TopicsImported    int `json:"topics_imported"`
	QuestionsImported int `json:"questions_imported"`
	QuestionsKept     int `json:"questions_kept"` // already stored, left unchanged
}

// BankService loads and dumps the question bank.
type BankService struct {
	bank   store.QuestionBank
	logger *slog.Logger
	now    func() time.Time
}

func NewBankService(bank store.QuestionBank, logger *slog.Logger) *BankService {
	return &BankService{bank: bank, logger: logger, now: time.Now}
}

func (s *BankService) Subjects(ctx context.Context) ([]subject.Subject, error) {
	return s.bank.ListSubjects(ctx)
}

func (s *BankService) Topics(ctx context.Context, subjectID string) ([]topic.Topic, error) {
	return s.bank.ListTopics(ctx, subjectID)
}

// Export returns the whole bank nested subject → topic → question.
func (s *BankService) Export(ctx context.Context) (*BankData, error) {
	c, err := s.bank.ExportCatalog(ctx)
	if err != nil {
		return nil, err
	}

	byTopic := make(map[string][]BankQuestion)
	for _, q := range c.Questions {
		byTopic[q.TopicID] = append(byTopic[q.TopicID], BankQuestion{
			ID:            q.ID,
			Content:       q.Content,
			ImageURL:      q.ImageURL,
			Difficulty:    string(q.Difficulty),
			CorrectAnswer: q.CorrectAnswer,
			Distractors:   q.Distractors,
			Explanation:   q.Explanation,
		})
	}
	bySubject := make(map[string][]BankTopic)
	for _, t := range c.Topics {
		qs := byTopic[t.ID]
		if qs == nil {
			qs = []BankQuestion{}
		}
		bySubject[t.SubjectID] = append(bySubject[t.SubjectID], BankTopic{ID: t.ID, Name: t.Name, Questions: qs})
	}

	data := &BankData{
		Version:    BankFormatVersion,
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		Subjects:   make([]BankSubject, 0, len(c.Subjects)),
	}
	for _, sub := range c.Subjects {
		topics := bySubject[sub.ID]
		if topics == nil {
			topics = []BankTopic{}
		}
		data.Subjects = append(data.Subjects, BankSubject{ID: sub.ID, Name: sub.Name, Topics: topics})
	}
	return data, nil
}

// Import validates the whole document and then writes it in one
// transaction. An invalid question rejects the import.
func (s *BankService) Import(ctx context.Context, data *BankData) (*ImportResult, error) {
	c, err := toCatalog(data)
	if err != nil {
		return nil, err
	}
	added, err := s.bank.ImportCatalog(ctx, c)
	if err != nil {
		return nil, err
	}

	res := &ImportResult{
		SubjectsImported:  len(c.Subjects),
		TopicsImported:    len(c.Topics),
		QuestionsImported: added,
		QuestionsKept:     len(c.Questions) - added,
	}
	s.logger.Info("question bank imported",
		"subjects", res.SubjectsImported,
		"topics", res.TopicsImported,
		"questions", res.QuestionsImported,
		"questions_kept", res.QuestionsKept,
	)
	return res, nil
}

func toCatalog(data *BankData) (*store.Catalog, error) {
	if data.Version != "" && data.Version != BankFormatVersion {
		return nil, &exam.ValidationError{Field: "version", Msg: fmt.Sprintf("unsupported version %q", data.Version)}
	}

	c := &store.Catalog{}
	for si, bs := range data.Subjects {
		name := strings.TrimSpace(bs.Name)
		if name == "" {
			return nil, &exam.ValidationError{Field: fmt.Sprintf("subjects[%d].name", si), Msg: "is required"}
		}
		sub := subject.Subject{ID: orNewID(bs.ID), Name: name}
		c.Subjects = append(c.Subjects, sub)

		for ti, bt := range bs.Topics {
			tname := strings.TrimSpace(bt.Name)
			if tname == "" {
				return nil, &exam.ValidationError{Field: fmt.Sprintf("subjects[%d].topics[%d].name", si, ti), Msg: "is required"}
			}
			t := topic.Topic{ID: orNewID(bt.ID), SubjectID: sub.ID, Name: tname}
			c.Topics = append(c.Topics, t)

			for qi, bq := range bt.Questions {
				field := fmt.Sprintf("subjects[%d].topics[%d].questions[%d]", si, ti, qi)
				q, err := toQuestion(t.ID, bq)
				if err != nil {
					return nil, &exam.ValidationError{Field: field, Msg: err.Error()}
				}
				c.Questions = append(c.Questions, *q)
			}
		}
	}
	return c, nil
}

func toQuestion(topicID string, bq BankQuestion) (*question.Question, error) {
	d, ok := question.ParseDifficulty(bq.Difficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q", bq.Difficulty)
	}
	distractors := make([]string, len(bq.Distractors))
	for i, v := range bq.Distractors {
		distractors[i] = strings.TrimSpace(v)
	}
	q, err := question.New(topicID, bq.Content, d, bq.CorrectAnswer, distractors, strings.TrimSpace(bq.Explanation))
	if err != nil {
		return nil, err
	}
	if bq.ID != "" {
		q.ID = bq.ID
	}
	q.ImageURL = bq.ImageURL
	return q, nil
}

func orNewID(v string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return id.GenerateID()
}
