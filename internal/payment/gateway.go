package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/Gvirgo2/touropia/config"
)

type ChargeRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	Reference   string `json:"reference"`
}

type ChargeResult struct {
	ProviderID string `json:"provider_id"`
	Status     string `json:"status"`
}

var ErrChargeDeclined = errors.New("charge declined")

// Gateway charges through the external payment processor. Calls run behind
// a circuit breaker so a failing processor sheds checkout load fast. Mock
// mode approves every charge locally.
type Gateway struct {
	endpoint string
	currency string
	mock     bool
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*ChargeResult]
}

func NewGateway(cfg config.PaymentConfig) *Gateway {
	return &Gateway{
		endpoint: cfg.Endpoint,
		currency: cfg.Currency,
		mock:     cfg.Mock,
		client:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		breaker: gobreaker.NewCircuitBreaker[*ChargeResult](gobreaker.Settings{
			Name:    "payment-gateway",
			Timeout: 30 * time.Second,
		}),
	}
}

func (g *Gateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if req.Currency == "" {
		req.Currency = g.currency
	}
	if g.mock {
		return &ChargeResult{ProviderID: uuid.NewString(), Status: "approved"}, nil
	}

	return g.breaker.Execute(func() (*ChargeResult, error) {
		return g.charge(ctx, req)
	})
}

func (g *Gateway) charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/charges", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, ErrChargeDeclined
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("charge failed with status %d", resp.StatusCode)
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode charge response: %w", err)
	}
	return &result, nil
}
