package subscription_test

import (
	"testing"
	"time"

	"github.com/paesprep/backend/internal/domain/subscription"
)

func TestParsePlan(t *testing.T) {
	if p, err := subscription.ParsePlan(" Monthly "); err != nil || p != subscription.PlanMonthly {
		t.Errorf("expected monthly, got %q (%v)", p, err)
	}
	if p, err := subscription.ParsePlan("annual"); err != nil || p != subscription.PlanAnnual {
		t.Errorf("expected annual, got %q (%v)", p, err)
	}
	if _, err := subscription.ParsePlan("weekly"); err == nil {
		t.Error("expected error for unknown plan")
	}
}

func TestActivate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s := subscription.NewPending("user-1", subscription.PlanMonthly, 7900, now)

	if s.Status != subscription.StatusPending {
		t.Fatalf("expected pending, got %s", s.Status)
	}
	if len(s.BuyOrder) > 26 {
		t.Errorf("buy order too long: %s", s.BuyOrder)
	}

	s.Activate(now)

	if s.Status != subscription.StatusActive {
		t.Errorf("expected active, got %s", s.Status)
	}
	want := now.Add(30 * 24 * time.Hour)
	if s.ExpiresAt == nil || !s.ExpiresAt.Equal(want) {
		t.Errorf("expected expiry %v, got %v", want, s.ExpiresAt)
	}
}
