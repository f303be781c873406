package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/paesprep/backend/internal/id"
)

type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanAnnual  Plan = "annual"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
)

// Subscription tracks one purchase from order creation to gateway commit.
type Subscription struct {
	ID        string
	UserID    string
	Plan      Plan
	Status    Status
	BuyOrder  string
	Token     string
	Amount    int // CLP
	CreatedAt time.Time
	ExpiresAt *time.Time
}

func ParsePlan(s string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanMonthly:
		return PlanMonthly, nil
	case PlanAnnual:
		return PlanAnnual, nil
	}
	return "", fmt.Errorf("unknown plan %q", s)
}

// Period is how long an activated subscription lasts.
func (p Plan) Period() time.Duration {
	if p == PlanAnnual {
		return 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

func NewPending(userID string, plan Plan, amount int, now time.Time) *Subscription {
	return &Subscription{
		ID:        id.GenerateID(),
		UserID:    userID,
		Plan:      plan,
		Status:    StatusPending,
		BuyOrder:  BuyOrder(now),
		Amount:    amount,
		CreatedAt: now,
	}
}

// BuyOrder builds a gateway order number. Webpay caps it at 26 characters.
func BuyOrder(now time.Time) string {
	return fmt.Sprintf("PAES-%d", now.UnixMilli())
}

// Activate marks the subscription paid from now for one plan period.
func (s *Subscription) Activate(now time.Time) {
	exp := now.Add(s.Plan.Period())
	s.Status = StatusActive
	s.ExpiresAt = &exp
}

func (s *Subscription) Reject() {
	s.Status = StatusRejected
}
