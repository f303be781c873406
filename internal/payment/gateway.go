// Package payment talks to the card payment gateway.
package payment

import (
	"context"
	"fmt"
)

// Gateway creates and commits card transactions.
type Gateway interface {
	Create(ctx context.Context, tx Transaction) (*Redirect, error)
	Commit(ctx context.Context, token string) (*Commit, error)
}

// Transaction is a new purchase to hand to the gateway.
type Transaction struct {
	BuyOrder  string
	SessionID string
	Amount    int
	ReturnURL string
}

// Redirect is where the buyer must be sent to pay.
type Redirect struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// Commit is the gateway's verdict on a finished payment.
type Commit struct {
	BuyOrder          string `json:"buy_order"`
	SessionID         string `json:"session_id"`
	Amount            int    `json:"amount"`
	Status            string `json:"status"`
	ResponseCode      int    `json:"response_code"`
	AuthorizationCode string `json:"authorization_code"`
}

const StatusAuthorized = "AUTHORIZED"

// Approved reports whether the card was charged.
func (c *Commit) Approved() bool {
	return c.Status == StatusAuthorized && c.ResponseCode == 0
}

// GatewayError carries the HTTP status and message returned by the gateway.
type GatewayError struct {
	Op      string
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: status %d: %s", e.Op, e.Status, e.Message)
}
