package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paesprep/backend/internal/domain/question"
	"github.com/paesprep/backend/internal/domain/subject"
	"github.com/paesprep/backend/internal/domain/topic"
)

// ============================================================================
// Subjects & topics
// ============================================================================

func (s *SQLStore) ListSubjects(ctx context.Context) ([]subject.Subject, error) {
	rows, err := s.query(ctx, s.db, "SELECT id, name FROM subjects ORDER BY name")
	if err != nil {
		return nil, wrap("list subjects", err)
	}
	defer rows.Close()

	var subjects []subject.Subject
	for rows.Next() {
		var sub subject.Subject
		if err := rows.Scan(&sub.ID, &sub.Name); err != nil {
			return nil, wrap("list subjects", err)
		}
		subjects = append(subjects, sub)
	}
	return subjects, wrap("list subjects", rows.Err())
}

func (s *SQLStore) GetSubject(ctx context.Context, id string) (*subject.Subject, error) {
	var sub subject.Subject
	err := s.queryRow(ctx, s.db, "SELECT id, name FROM subjects WHERE id = ?", id).Scan(&sub.ID, &sub.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get subject", err)
	}
	return &sub, nil
}

func (s *SQLStore) ListTopics(ctx context.Context, subjectID string) ([]topic.Topic, error) {
	if _, err := s.GetSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	rows, err := s.query(ctx, s.db, "SELECT id, subject_id, name FROM topics WHERE subject_id = ? ORDER BY name", subjectID)
	if err != nil {
		return nil, wrap("list topics", err)
	}
	defer rows.Close()

	var topics []topic.Topic
	for rows.Next() {
		var t topic.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name); err != nil {
			return nil, wrap("list topics", err)
		}
		topics = append(topics, t)
	}
	return topics, wrap("list topics", rows.Err())
}

func (s *SQLStore) GetTopic(ctx context.Context, id string) (*topic.Topic, error) {
	var t topic.Topic
	err := s.queryRow(ctx, s.db, "SELECT id, subject_id, name FROM topics WHERE id = ?", id).Scan(&t.ID, &t.SubjectID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get topic", err)
	}
	return &t, nil
}

// ============================================================================
// Questions
// ============================================================================

const questionColumns = "id, topic_id, content, image_url, difficulty, correct_answer, distractors, explanation"

func scanQuestion(row interface{ Scan(...any) error }) (question.Question, error) {
	var (
		q           question.Question
		imageURL    sql.NullString
		difficulty  string
		distractors string
	)
	if err := row.Scan(&q.ID, &q.TopicID, &q.Content, &imageURL, &difficulty, &q.CorrectAnswer, &distractors, &q.Explanation); err != nil {
		return q, err
	}
	q.ImageURL = stringPtr(imageURL)
	if d, ok := question.ParseDifficulty(difficulty); ok {
		q.Difficulty = d
	} else {
		q.Difficulty = question.Difficulty(difficulty)
	}
	if err := json.Unmarshal([]byte(distractors), &q.Distractors); err != nil {
		return q, fmt.Errorf("question %s: decode distractors: %w", q.ID, err)
	}
	return q, nil
}

func (s *SQLStore) QuestionsByIDs(ctx context.Context, ids []string) ([]question.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.query(ctx, s.db,
		"SELECT "+questionColumns+" FROM questions WHERE id IN ("+placeholders(len(ids))+")",
		stringArgs(ids)...)
	if err != nil {
		return nil, wrap("questions by ids", err)
	}
	defer rows.Close()

	byID := make(map[string]question.Question, len(ids))
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, wrap("questions by ids", err)
		}
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("questions by ids", err)
	}

	out := make([]question.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("question %s: %w", id, ErrNotFound)
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *SQLStore) QuestionRefsByTopics(ctx context.Context, topicIDs []string) ([]question.Ref, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	return s.questionRefs(ctx, "questions by topics",
		"SELECT id, topic_id, difficulty FROM questions WHERE topic_id IN ("+placeholders(len(topicIDs))+") ORDER BY id",
		stringArgs(topicIDs)...)
}

func (s *SQLStore) QuestionRefsBySubjects(ctx context.Context, subjectIDs []string) ([]question.Ref, error) {
	if len(subjectIDs) == 0 {
		return nil, nil
	}
	return s.questionRefs(ctx, "questions by subjects",
		`SELECT q.id, q.topic_id, q.difficulty
		FROM questions q
		JOIN topics t ON t.id = q.topic_id
		WHERE t.subject_id IN (`+placeholders(len(subjectIDs))+`)
		ORDER BY q.id`,
		stringArgs(subjectIDs)...)
}

func (s *SQLStore) AllQuestionRefs(ctx context.Context) ([]question.Ref, error) {
	return s.questionRefs(ctx, "all questions", "SELECT id, topic_id, difficulty FROM questions ORDER BY id")
}

func (s *SQLStore) questionRefs(ctx context.Context, op, query string, args ...any) ([]question.Ref, error) {
	rows, err := s.query(ctx, s.db, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	var refs []question.Ref
	for rows.Next() {
		var (
			r          question.Ref
			difficulty string
		)
		if err := rows.Scan(&r.ID, &r.TopicID, &difficulty); err != nil {
			return nil, wrap(op, err)
		}
		r.Difficulty = question.Difficulty(difficulty)
		refs = append(refs, r)
	}
	return refs, wrap(op, rows.Err())
}

// ============================================================================
// Import / export
// ============================================================================

// ImportCatalog upserts subjects and topics and inserts new questions in
// one transaction. Questions are immutable: a row whose id already exists
// is left as stored. Nothing is written if any question is invalid. It
// returns how many questions were added.
func (s *SQLStore) ImportCatalog(ctx context.Context, c *Catalog) (int, error) {
	for i := range c.Questions {
		if err := c.Questions[i].Validate(); err != nil {
			return 0, fmt.Errorf("question %s: %w", c.Questions[i].ID, err)
		}
	}

	added := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, sub := range c.Subjects {
			if _, err := s.exec(ctx, tx,
				"INSERT INTO subjects (id, name) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET name = excluded.name",
				sub.ID, sub.Name); err != nil {
				return err
			}
		}
		for _, t := range c.Topics {
			if _, err := s.exec(ctx, tx,
				`INSERT INTO topics (id, subject_id, name) VALUES (?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET subject_id = excluded.subject_id, name = excluded.name`,
				t.ID, t.SubjectID, t.Name); err != nil {
				return err
			}
		}
		for _, q := range c.Questions {
			distractors, err := json.Marshal(q.Distractors)
			if err != nil {
				return err
			}
			res, err := s.exec(ctx, tx,
				`INSERT INTO questions (`+questionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT (id) DO NOTHING`,
				q.ID, q.TopicID, q.Content, nullString(q.ImageURL), string(q.Difficulty),
				q.CorrectAnswer, string(distractors), q.Explanation)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			added += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, wrap("import catalog", err)
	}
	return added, nil
}

func (s *SQLStore) ExportCatalog(ctx context.Context) (*Catalog, error) {
	c := &Catalog{}

	subjects, err := s.ListSubjects(ctx)
	if err != nil {
		return nil, err
	}
	c.Subjects = subjects

	rows, err := s.query(ctx, s.db, "SELECT id, subject_id, name FROM topics ORDER BY subject_id, name")
	if err != nil {
		return nil, wrap("export topics", err)
	}
	for rows.Next() {
		var t topic.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name); err != nil {
			rows.Close()
			return nil, wrap("export topics", err)
		}
		c.Topics = append(c.Topics, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, wrap("export topics", err)
	}

	qrows, err := s.query(ctx, s.db, "SELECT "+questionColumns+" FROM questions ORDER BY topic_id, id")
	if err != nil {
		return nil, wrap("export questions", err)
	}
	defer qrows.Close()
	for qrows.Next() {
		q, err := scanQuestion(qrows)
		if err != nil {
			return nil, wrap("export questions", err)
		}
		c.Questions = append(c.Questions, q)
	}
	return c, wrap("export questions", qrows.Err())
}
