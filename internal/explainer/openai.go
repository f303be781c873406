package explainer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient calls an OpenAI-compatible chat completions endpoint
// (OpenAI, Ollama, LM Studio, vLLM...).
type OpenAIClient struct {
	url         string // e.g. "https://api.openai.com"
	apiKey      string // empty for local servers
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
}

var _ Explainer = (*OpenAIClient)(nil)

func NewOpenAIClient(url, apiKey, model string) *OpenAIClient {
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIClient{
		url:         strings.TrimRight(url, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: 0.7,
		maxTokens:   400,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Model is the model name sent with every request.
func (c *OpenAIClient) Model() string { return c.model }

const maxRetries = 2

// Explain sends prompt as a single user message. It retries once when the
// endpoint is unreachable or answers with an empty completion.
func (c *OpenAIClient) Explain(ctx context.Context, prompt string) (*Completion, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, &ExplainError{Reason: "request cancelled", Wrapped: err}
		}
		out, err := c.call(ctx, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return out, nil
	}

	return nil, &ExplainError{
		Reason:  fmt.Sprintf("failed after %d attempts", maxRetries),
		Wrapped: lastErr,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (c *OpenAIClient) call(ctx context.Context, prompt string) (*Completion, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LLM returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode LLM response: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return nil, fmt.Errorf("LLM returned empty content")
	}

	// Cost is looked up by the model we asked for; some providers echo a
	// dated variant name.
	return &Completion{
		Text:             text,
		Model:            c.model,
		PromptTokens:     out.Usage.PromptTokens,
		CompletionTokens: out.Usage.CompletionTokens,
	}, nil
}
