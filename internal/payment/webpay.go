package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	IntegrationURL = "https://webpay3gint.transbank.cl"
	ProductionURL  = "https://webpay3g.transbank.cl"

	// Public integration credentials for Webpay Plus.
	IntegrationCommerceCode = "597055555532"
	IntegrationAPIKey       = "579B532A7440BB0C9079DED94D31EA1615BACEB56610332264630D42D0A36B1C"

	transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"
)

// WebpayClient implements Gateway against the Webpay Plus REST API.
type WebpayClient struct {
	baseURL      string
	commerceCode string
	apiKey       string
	client       *http.Client
}

var _ Gateway = (*WebpayClient)(nil)

func NewWebpayClient(baseURL, commerceCode, apiKey string) *WebpayClient {
	return &WebpayClient{
		baseURL:      baseURL,
		commerceCode: commerceCode,
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 30 * time.Second},
	}
}

// NewWebpayFromEnvironment picks the endpoint and credentials for "production"
// or anything else (integration). Integration always uses the public test
// commerce.
func NewWebpayFromEnvironment(environment, commerceCode, apiKey string) *WebpayClient {
	if environment == "production" {
		return NewWebpayClient(ProductionURL, commerceCode, apiKey)
	}
	return NewWebpayClient(IntegrationURL, IntegrationCommerceCode, IntegrationAPIKey)
}

type createRequest struct {
	BuyOrder  string `json:"buy_order"`
	SessionID string `json:"session_id"`
	Amount    int    `json:"amount"`
	ReturnURL string `json:"return_url"`
}

func (c *WebpayClient) Create(ctx context.Context, tx Transaction) (*Redirect, error) {
	var out Redirect
	err := c.do(ctx, "create", http.MethodPost, transactionsPath, createRequest{
		BuyOrder:  tx.BuyOrder,
		SessionID: tx.SessionID,
		Amount:    tx.Amount,
		ReturnURL: tx.ReturnURL,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WebpayClient) Commit(ctx context.Context, token string) (*Commit, error) {
	var out Commit
	if err := c.do(ctx, "commit", http.MethodPut, transactionsPath+"/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *WebpayClient) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Tbk-Api-Key-Id", c.commerceCode)
	req.Header.Set("Tbk-Api-Key-Secret", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway %s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			ErrorMessage string `json:"error_message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &GatewayError{Op: op, Status: resp.StatusCode, Message: apiErr.ErrorMessage}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}
