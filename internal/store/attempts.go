package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/paesprep/backend/internal/domain/attempt"
	"github.com/paesprep/backend/internal/domain/progress"
	"github.com/paesprep/backend/internal/domain/scoring"
)

const attemptColumns = `a.id, a.exam_id, a.user_id, a.status, a.started_at, a.completed_at,
	a.score, a.percentage, a.correct_count, a.incorrect_count, a.omitted_count`

func scanAttempt(row interface{ Scan(...any) error }, extra ...any) (attempt.Attempt, error) {
	var (
		a                            attempt.Attempt
		status                       string
		startedAt, completedAt       timeValue
		score, correct, wrong, blank sql.NullInt64
		percentage                   sql.NullFloat64
	)
	dest := []any{&a.ID, &a.ExamID, &a.UserID, &status, &startedAt, &completedAt,
		&score, &percentage, &correct, &wrong, &blank}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return a, err
	}
	a.Status = attempt.Status(status)
	a.StartedAt = startedAt.Time
	a.CompletedAt = completedAt.ptr()
	if score.Valid {
		a.Result = &scoring.Result{
			Correct:    int(correct.Int64),
			Incorrect:  int(wrong.Int64),
			Omitted:    int(blank.Int64),
			Percentage: percentage.Float64,
			Scaled:     int(score.Int64),
		}
	}
	return a, nil
}

func (s *SQLStore) CreateAttempt(ctx context.Context, a *attempt.Attempt) error {
	_, err := s.exec(ctx, s.db,
		"INSERT INTO attempts (id, exam_id, user_id, status, started_at) VALUES (?, ?, ?, ?, ?)",
		a.ID, a.ExamID, a.UserID, string(a.Status), s.timeArg(a.StartedAt))
	return wrap("create attempt", err)
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (*attempt.Attempt, error) {
	a, err := scanAttempt(s.queryRow(ctx, s.db, "SELECT "+attemptColumns+" FROM attempts a WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get attempt", err)
	}
	return &a, nil
}

func (s *SQLStore) ListInProgressAttempts(ctx context.Context) ([]attempt.Attempt, error) {
	rows, err := s.query(ctx, s.db,
		"SELECT "+attemptColumns+" FROM attempts a WHERE a.status = ? ORDER BY a.started_at",
		string(attempt.StatusInProgress))
	if err != nil {
		return nil, wrap("list in-progress attempts", err)
	}
	defer rows.Close()

	var out []attempt.Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, wrap("list in-progress attempts", err)
		}
		out = append(out, a)
	}
	return out, wrap("list in-progress attempts", rows.Err())
}

// ============================================================================
// Drafts
// ============================================================================

// SaveDraft upserts a selection while the attempt is in progress and is a
// no-op once it has been finalized. The no-op status update locks the
// attempt row so a concurrent FinalizeAttempt waits for this write and then
// deletes it with the other drafts.
func (s *SQLStore) SaveDraft(ctx context.Context, attemptID, questionID string, selected *string, at time.Time) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			"UPDATE attempts SET status = status WHERE id = ? AND status = ?",
			attemptID, string(attempt.StatusInProgress))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}
		_, err = s.exec(ctx, tx,
			`INSERT INTO attempt_drafts (attempt_id, question_id, selected, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (attempt_id, question_id) DO UPDATE SET selected = excluded.selected, updated_at = excluded.updated_at`,
			attemptID, questionID, nullString(selected), s.timeArg(at))
		return err
	})
	return wrap("save draft", err)
}

func (s *SQLStore) Drafts(ctx context.Context, attemptID string) (map[string]*string, error) {
	rows, err := s.query(ctx, s.db, "SELECT question_id, selected FROM attempt_drafts WHERE attempt_id = ?", attemptID)
	if err != nil {
		return nil, wrap("drafts", err)
	}
	defer rows.Close()

	drafts := map[string]*string{}
	for rows.Next() {
		var (
			qid      string
			selected sql.NullString
		)
		if err := rows.Scan(&qid, &selected); err != nil {
			return nil, wrap("drafts", err)
		}
		drafts[qid] = stringPtr(selected)
	}
	return drafts, wrap("drafts", rows.Err())
}

// ============================================================================
// Finalization
// ============================================================================

func (s *SQLStore) FinalizeAttempt(ctx context.Context, attemptID string, result scoring.Result, completedAt time.Time, answers []attempt.Answer) (bool, error) {
	won := false
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := s.exec(ctx, tx,
			`UPDATE attempts SET status = ?, completed_at = ?, score = ?, percentage = ?,
				correct_count = ?, incorrect_count = ?, omitted_count = ?
			WHERE id = ? AND status = ?`,
			string(attempt.StatusCompleted), s.timeArg(completedAt), result.Scaled, result.Percentage,
			result.Correct, result.Incorrect, result.Omitted,
			attemptID, string(attempt.StatusInProgress))
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		for _, a := range answers {
			if _, err := s.exec(ctx, tx,
				"INSERT INTO answers (attempt_id, question_id, selected, is_correct) VALUES (?, ?, ?, ?)",
				attemptID, a.QuestionID, nullString(a.Selected), a.IsCorrect); err != nil {
				return err
			}
		}
		if _, err := s.exec(ctx, tx, "DELETE FROM attempt_drafts WHERE attempt_id = ?", attemptID); err != nil {
			return err
		}
		won = true
		return nil
	})
	if err != nil {
		return false, wrap("finalize attempt", err)
	}
	return won, nil
}

func (s *SQLStore) Answers(ctx context.Context, attemptID string) ([]attempt.Answer, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT a.question_id, a.selected, a.is_correct
		FROM answers a
		LEFT JOIN exam_questions eq ON eq.question_id = a.question_id
			AND eq.exam_id = (SELECT exam_id FROM attempts WHERE id = ?)
		WHERE a.attempt_id = ?
		ORDER BY eq.position`,
		attemptID, attemptID)
	if err != nil {
		return nil, wrap("answers", err)
	}
	defer rows.Close()

	var out []attempt.Answer
	for rows.Next() {
		var (
			ans      = attempt.Answer{AttemptID: attemptID}
			selected sql.NullString
		)
		if err := rows.Scan(&ans.QuestionID, &selected, &ans.IsCorrect); err != nil {
			return nil, wrap("answers", err)
		}
		ans.Selected = stringPtr(selected)
		out = append(out, ans)
	}
	return out, wrap("answers", rows.Err())
}

// ============================================================================
// History & aggregates
// ============================================================================

func (s *SQLStore) ListUserAttempts(ctx context.Context, userID string) ([]AttemptSummary, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT `+attemptColumns+`, e.title,
			(SELECT COUNT(*) FROM exam_questions eq WHERE eq.exam_id = a.exam_id)
		FROM attempts a
		JOIN exams e ON e.id = a.exam_id
		WHERE a.user_id = ?
		ORDER BY a.started_at DESC`,
		userID)
	if err != nil {
		return nil, wrap("list user attempts", err)
	}
	defer rows.Close()

	var out []AttemptSummary
	for rows.Next() {
		var sum AttemptSummary
		a, err := scanAttempt(rows, &sum.ExamTitle, &sum.QuestionCount)
		if err != nil {
			return nil, wrap("list user attempts", err)
		}
		sum.Attempt = a
		out = append(out, sum)
	}
	return out, wrap("list user attempts", rows.Err())
}

func (s *SQLStore) CompletedOutcomes(ctx context.Context, userID string) ([]progress.AttemptOutcome, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT score, correct_count, incorrect_count, omitted_count, completed_at
		FROM attempts
		WHERE user_id = ? AND status = ?
		ORDER BY completed_at DESC`,
		userID, string(attempt.StatusCompleted))
	if err != nil {
		return nil, wrap("completed outcomes", err)
	}
	defer rows.Close()

	var out []progress.AttemptOutcome
	for rows.Next() {
		var (
			o           progress.AttemptOutcome
			completedAt timeValue
		)
		if err := rows.Scan(&o.Scaled, &o.Correct, &o.Incorrect, &o.Omitted, &completedAt); err != nil {
			return nil, wrap("completed outcomes", err)
		}
		o.CompletedAt = completedAt.Time
		out = append(out, o)
	}
	return out, wrap("completed outcomes", rows.Err())
}

func (s *SQLStore) TopicAnswers(ctx context.Context, userID string) ([]progress.TopicAnswer, error) {
	rows, err := s.query(ctx, s.db,
		`SELECT q.topic_id, ans.is_correct
		FROM answers ans
		JOIN attempts a ON a.id = ans.attempt_id
		JOIN questions q ON q.id = ans.question_id
		WHERE a.user_id = ? AND a.status = ?`,
		userID, string(attempt.StatusCompleted))
	if err != nil {
		return nil, wrap("topic answers", err)
	}
	defer rows.Close()

	var out []progress.TopicAnswer
	for rows.Next() {
		var ta progress.TopicAnswer
		if err := rows.Scan(&ta.TopicID, &ta.IsCorrect); err != nil {
			return nil, wrap("topic answers", err)
		}
		out = append(out, ta)
	}
	return out, wrap("topic answers", rows.Err())
}
