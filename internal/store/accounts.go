package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/paesprep/backend/internal/domain/explanation"
	"github.com/paesprep/backend/internal/domain/profile"
	"github.com/paesprep/backend/internal/domain/subscription"
)

// ============================================================================
// Profiles
// ============================================================================

func (s *SQLStore) GetProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	var p profile.Profile
	err := s.queryRow(ctx, s.db,
		"SELECT user_id, full_name, is_premium FROM profiles WHERE user_id = ?", userID,
	).Scan(&p.UserID, &p.FullName, &p.Premium)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get profile", err)
	}
	return &p, nil
}

func (s *SQLStore) UpsertProfile(ctx context.Context, p *profile.Profile) error {
	_, err := s.exec(ctx, s.db,
		`INSERT INTO profiles (user_id, full_name, is_premium) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET full_name = excluded.full_name, is_premium = excluded.is_premium`,
		p.UserID, p.FullName, p.Premium)
	return wrap("upsert profile", err)
}

// ============================================================================
// AI explanations
// ============================================================================

func (s *SQLStore) SaveExplanation(ctx context.Context, e *explanation.Explanation) error {
	_, err := s.exec(ctx, s.db,
		`INSERT INTO ai_explanations (id, user_id, question_id, attempt_id, selected_answer, ai_response,
			model, prompt_tokens, completion_tokens, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.QuestionID, nullString(e.AttemptID), e.SelectedAnswer, e.Text,
		e.Model, e.PromptTokens, e.CompletionTokens, e.CostUSD, s.timeArg(e.CreatedAt))
	return wrap("save explanation", err)
}

func (s *SQLStore) FindExplanation(ctx context.Context, questionID, selectedAnswer string) (*explanation.Explanation, error) {
	var (
		e         explanation.Explanation
		attemptID sql.NullString
		createdAt timeValue
	)
	err := s.queryRow(ctx, s.db,
		`SELECT id, user_id, question_id, attempt_id, selected_answer, ai_response,
			model, prompt_tokens, completion_tokens, total_cost, created_at
		FROM ai_explanations
		WHERE question_id = ? AND selected_answer = ?
		ORDER BY created_at DESC
		LIMIT 1`,
		questionID, selectedAnswer,
	).Scan(&e.ID, &e.UserID, &e.QuestionID, &attemptID, &e.SelectedAnswer, &e.Text,
		&e.Model, &e.PromptTokens, &e.CompletionTokens, &e.CostUSD, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("find explanation", err)
	}
	e.AttemptID = stringPtr(attemptID)
	e.CreatedAt = createdAt.Time
	return &e, nil
}

func (s *SQLStore) SaveUsage(ctx context.Context, u *explanation.Usage) error {
	_, err := s.exec(ctx, s.db,
		`INSERT INTO ai_usage_logs (id, user_id, feature, model, prompt_tokens, completion_tokens, total_cost, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.UserID, u.Feature, u.Model, u.PromptTokens, u.CompletionTokens, u.CostUSD, s.timeArg(u.CreatedAt))
	return wrap("save usage", err)
}

// ============================================================================
// Subscriptions
// ============================================================================

func (s *SQLStore) CreateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	_, err := s.exec(ctx, s.db,
		`INSERT INTO subscriptions (id, user_id, plan, status, buy_order, token, amount, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.UserID, string(sub.Plan), string(sub.Status), sub.BuyOrder, sub.Token, sub.Amount,
		s.timeArg(sub.CreatedAt), s.nullTimeArg(sub.ExpiresAt))
	return wrap("create subscription", err)
}

func (s *SQLStore) GetSubscriptionByToken(ctx context.Context, token string) (*subscription.Subscription, error) {
	var (
		sub                  subscription.Subscription
		plan, status         string
		createdAt, expiresAt timeValue
	)
	err := s.queryRow(ctx, s.db,
		`SELECT id, user_id, plan, status, buy_order, token, amount, created_at, expires_at
		FROM subscriptions WHERE token = ?`, token,
	).Scan(&sub.ID, &sub.UserID, &plan, &status, &sub.BuyOrder, &sub.Token, &sub.Amount, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, wrap("get subscription", err)
	}
	sub.Plan = subscription.Plan(plan)
	sub.Status = subscription.Status(status)
	sub.CreatedAt = createdAt.Time
	sub.ExpiresAt = expiresAt.ptr()
	return &sub, nil
}

func (s *SQLStore) ActivateSubscription(ctx context.Context, id string, expiresAt time.Time) (bool, error) {
	activated := false
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var userID string
		err := s.queryRow(ctx, tx,
			"SELECT user_id FROM subscriptions WHERE id = ? AND status = ?",
			id, string(subscription.StatusPending)).Scan(&userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		res, err := s.exec(ctx, tx,
			"UPDATE subscriptions SET status = ?, expires_at = ? WHERE id = ? AND status = ?",
			string(subscription.StatusActive), s.timeArg(expiresAt), id, string(subscription.StatusPending))
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}

		if _, err := s.exec(ctx, tx,
			`INSERT INTO profiles (user_id, is_premium) VALUES (?, ?)
			ON CONFLICT (user_id) DO UPDATE SET is_premium = excluded.is_premium`,
			userID, true); err != nil {
			return err
		}
		activated = true
		return nil
	})
	if err != nil {
		return false, wrap("activate subscription", err)
	}
	return activated, nil
}

func (s *SQLStore) RejectSubscription(ctx context.Context, id string) error {
	_, err := s.exec(ctx, s.db,
		"UPDATE subscriptions SET status = ? WHERE id = ? AND status = ?",
		string(subscription.StatusRejected), id, string(subscription.StatusPending))
	return wrap("reject subscription", err)
}
