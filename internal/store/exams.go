package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/paesprep/backend/internal/domain/exam"
)

func (s *SQLStore) CreateExam(ctx context.Context, e *exam.Exam) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx,
			`INSERT INTO exams (id, title, kind, duration_minutes, active, created_by, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, string(e.Kind), e.DurationMinutes, e.Active, nullString(e.CreatedBy), s.timeArg(e.CreatedAt)); err != nil {
			return err
		}
		for i, qid := range e.QuestionIDs {
			if _, err := s.exec(ctx, tx,
				"INSERT INTO exam_questions (exam_id, question_id, position) VALUES (?, ?, ?)",
				e.ID, qid, i); err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("create exam", err)
}

func (s *SQLStore) GetExam(ctx context.Context, id string) (*exam.Exam, error) {
	var (
		e         exam.Exam
		kind      string
		createdBy sql.NullString
		createdAt timeValue
	)
	err := s.queryRow(ctx, s.db,
		"SELECT id, title, kind, duration_minutes, active, created_by, created_at FROM exams WHERE id = ?", id,
	).Scan(&e.ID, &e.Title, &kind, &e.DurationMinutes, &e.Active, &createdBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get exam", err)
	}
	e.Kind = exam.Kind(kind)
	e.CreatedBy = stringPtr(createdBy)
	e.CreatedAt = createdAt.Time

	rows, err := s.query(ctx, s.db, "SELECT question_id FROM exam_questions WHERE exam_id = ? ORDER BY position", id)
	if err != nil {
		return nil, wrap("get exam questions", err)
	}
	defer rows.Close()
	for rows.Next() {
		var qid string
		if err := rows.Scan(&qid); err != nil {
			return nil, wrap("get exam questions", err)
		}
		e.QuestionIDs = append(e.QuestionIDs, qid)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("get exam questions", err)
	}
	e.QuestionCount = len(e.QuestionIDs)
	return &e, nil
}

// ListActiveExams returns active exams that have at least one question,
// official ones first, newest first.
func (s *SQLStore) ListActiveExams(ctx context.Context) ([]exam.Exam, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT e.id, e.title, e.kind, e.duration_minutes, e.active, e.created_by, e.created_at, COUNT(eq.question_id)
		FROM exams e
		JOIN exam_questions eq ON eq.exam_id = e.id
		WHERE e.active = ?
		GROUP BY e.id, e.title, e.kind, e.duration_minutes, e.active, e.created_by, e.created_at
		ORDER BY CASE WHEN e.kind = 'official' THEN 0 ELSE 1 END, e.created_at DESC`,
		true)
	if err != nil {
		return nil, wrap("list exams", err)
	}
	defer rows.Close()

	var exams []exam.Exam
	for rows.Next() {
		var (
			e         exam.Exam
			kind      string
			createdBy sql.NullString
			createdAt timeValue
		)
		if err := rows.Scan(&e.ID, &e.Title, &kind, &e.DurationMinutes, &e.Active, &createdBy, &createdAt, &e.QuestionCount); err != nil {
			return nil, wrap("list exams", err)
		}
		e.Kind = exam.Kind(kind)
		e.CreatedBy = stringPtr(createdBy)
		e.CreatedAt = createdAt.Time
		exams = append(exams, e)
	}
	return exams, wrap("list exams", rows.Err())
}

func (s *SQLStore) SetExamActive(ctx context.Context, id string, active bool) error {
	result, err := s.exec(ctx, s.db, "UPDATE exams SET active = ? WHERE id = ?", active, id)
	if err != nil {
		return wrap("set exam active", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return wrap("set exam active", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
