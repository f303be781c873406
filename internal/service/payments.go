package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/paesprep/backend/internal/domain/exam"
	"github.com/paesprep/backend/internal/domain/subscription"
	"github.com/paesprep/backend/internal/payment"
	"github.com/paesprep/backend/internal/store"
)

// Prices are plan prices in CLP.
type Prices map[subscription.Plan]int

func DefaultPrices() Prices {
	return Prices{
		subscription.PlanMonthly: 9990,
		subscription.PlanAnnual:  79990,
	}
}

// PaymentService sells premium plans through the card gateway.
type PaymentService struct {
	subs      store.SubscriptionStore
	gateway   payment.Gateway
	prices    Prices
	returnURL string
	logger    *slog.Logger
	now       func() time.Time
}

func NewPaymentService(subs store.SubscriptionStore, gateway payment.Gateway, prices Prices, returnURL string, logger *slog.Logger) *PaymentService {
	if prices == nil {
		prices = DefaultPrices()
	}
	return &PaymentService{
		subs:      subs,
		gateway:   gateway,
		prices:    prices,
		returnURL: returnURL,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateOrder opens a gateway transaction for plan and records a pending
// subscription. The buyer is sent to the returned redirect.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, plan string) (*payment.Redirect, error) {
	p, err := subscription.ParsePlan(plan)
	if err != nil {
		return nil, &exam.ValidationError{Field: "plan", Msg: err.Error()}
	}
	amount, ok := s.prices[p]
	if !ok {
		return nil, &exam.ValidationError{Field: "plan", Msg: fmt.Sprintf("plan %q is not for sale", p)}
	}

	sub := subscription.NewPending(userID, p, amount, s.now())
	redirect, err := s.gateway.Create(ctx, payment.Transaction{
		BuyOrder:  sub.BuyOrder,
		SessionID: userID,
		Amount:    amount,
		ReturnURL: s.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	sub.Token = redirect.Token
	if err := s.subs.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("payment order created",
		"user_id", userID,
		"plan", p,
		"buy_order", sub.BuyOrder,
		"amount", amount,
	)
	return redirect, nil
}

// Confirm commits the transaction behind token and activates or rejects its
// subscription. Confirming an already settled token returns its stored
// state without calling the gateway again.
func (s *PaymentService) Confirm(ctx context.Context, token string) (*subscription.Subscription, error) {
	sub, err := s.subs.GetSubscriptionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sub.Status != subscription.StatusPending {
		return sub, nil
	}

	commit, err := s.gateway.Commit(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}

	if !commit.Approved() {
		if err := s.subs.RejectSubscription(ctx, sub.ID); err != nil {
			return nil, err
		}
		sub.Reject()
		s.logger.Warn("payment rejected",
			"buy_order", sub.BuyOrder,
			"status", commit.Status,
			"response_code", commit.ResponseCode,
		)
		return sub, nil
	}

	sub.Activate(s.now())
	activated, err := s.subs.ActivateSubscription(ctx, sub.ID, *sub.ExpiresAt)
	if err != nil {
		return nil, err
	}
	if !activated {
		// A concurrent confirm settled it first.
		return s.subs.GetSubscriptionByToken(ctx, token)
	}

	s.logger.Info("payment approved",
		"user_id", sub.UserID,
		"buy_order", sub.BuyOrder,
		"authorization_code", commit.AuthorizationCode,
	)
	return sub, nil
}
