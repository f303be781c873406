package explainer

import (
	"context"
	"fmt"
)

// Explainer writes a natural-language explanation for a prompt.
// Implementations may call an LLM or return canned text (for tests).
type Explainer interface {
	Explain(ctx context.Context, prompt string) (*Completion, error)
}

// Completion is the model output plus the token usage it was billed for.
type Completion struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Cost estimates the USD price of the completion.
func (c *Completion) Cost() float64 {
	return Cost(c.Model, c.PromptTokens, c.CompletionTokens)
}

// ExplainError is returned when the model could not produce an explanation,
// so callers can tell "model unreachable" from a bad request.
type ExplainError struct {
	Reason  string
	Wrapped error
}

func (e *ExplainError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("explanation failed: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("explanation failed: %s", e.Reason)
}

func (e *ExplainError) Unwrap() error {
	return e.Wrapped
}
