package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paesprep/backend/internal/payment"
)

func TestWebpayClient_Create(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rswebpaytransaction/api/webpay/v1.2/transactions", r.URL.Path)
		assert.Equal(t, "597055555532", r.Header.Get("Tbk-Api-Key-Id"))
		assert.Equal(t, "secret", r.Header.Get("Tbk-Api-Key-Secret"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PAES-1", body["buy_order"])
		assert.Equal(t, float64(7900), body["amount"])
		assert.Equal(t, "https://app/return", body["return_url"])

		_, _ = w.Write([]byte(`{"token": "tok-1", "url": "https://webpay/pay"}`))
	}))
	defer srv.Close()

	c := payment.NewWebpayClient(srv.URL, "597055555532", "secret")
	out, err := c.Create(context.Background(), payment.Transaction{
		BuyOrder: "PAES-1", SessionID: "S-u1", Amount: 7900, ReturnURL: "https://app/return",
	})

	require.NoError(t, err)
	assert.Equal(t, &payment.Redirect{Token: "tok-1", URL: "https://webpay/pay"}, out)
}

func TestWebpayClient_Commit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/rswebpaytransaction/api/webpay/v1.2/transactions/tok-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"buy_order": "PAES-1", "session_id": "S-u1", "amount": 7900,
			"status": "AUTHORIZED", "response_code": 0, "authorization_code": "1213"}`))
	}))
	defer srv.Close()

	out, err := payment.NewWebpayClient(srv.URL, "c", "k").Commit(context.Background(), "tok-1")

	require.NoError(t, err)
	assert.True(t, out.Approved())
	assert.Equal(t, "PAES-1", out.BuyOrder)
}

func TestWebpayClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error_message": "Invalid status '2' for transaction while authorizing"}`))
	}))
	defer srv.Close()

	_, err := payment.NewWebpayClient(srv.URL, "c", "k").Commit(context.Background(), "tok-1")

	var ge *payment.GatewayError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, 422, ge.Status)
	assert.Contains(t, ge.Message, "Invalid status")
}

func TestCommit_Approved(t *testing.T) {
	assert.False(t, (&payment.Commit{Status: "FAILED", ResponseCode: -1}).Approved())
	assert.False(t, (&payment.Commit{Status: "AUTHORIZED", ResponseCode: -1}).Approved())
}
