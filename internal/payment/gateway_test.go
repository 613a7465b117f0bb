package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gvirgo2/touropia/config"
)

func TestGateway_Charge_MockMode(t *testing.T) {
	gateway := NewGateway(config.PaymentConfig{Mock: true, Currency: "USD", TimeoutSeconds: 5})

	result, err := gateway.Charge(context.Background(), ChargeRequest{AmountCents: 2875, Email: "guest@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "approved", result.Status)
	assert.NotEmpty(t, result.ProviderID)
}

func TestGateway_Charge_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/charges", r.URL.Path)

		var req ChargeRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(2875), req.AmountCents)
		assert.Equal(t, "USD", req.Currency)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(ChargeResult{ProviderID: "pay-123", Status: "approved"})
	}))
	defer server.Close()

	gateway := NewGateway(config.PaymentConfig{Endpoint: server.URL, Currency: "USD", TimeoutSeconds: 5})

	result, err := gateway.Charge(context.Background(), ChargeRequest{AmountCents: 2875, Email: "guest@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "pay-123", result.ProviderID)
	assert.Equal(t, "approved", result.Status)
}

func TestGateway_Charge_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	}))
	defer server.Close()

	gateway := NewGateway(config.PaymentConfig{Endpoint: server.URL, Currency: "USD", TimeoutSeconds: 5})

	_, err := gateway.Charge(context.Background(), ChargeRequest{AmountCents: 2875})

	assert.ErrorIs(t, err, ErrChargeDeclined)
}

func TestGateway_Charge_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	gateway := NewGateway(config.PaymentConfig{Endpoint: server.URL, Currency: "USD", TimeoutSeconds: 5})

	_, err := gateway.Charge(context.Background(), ChargeRequest{AmountCents: 2875})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrChargeDeclined)
}
