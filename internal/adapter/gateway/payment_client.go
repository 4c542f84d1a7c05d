// Package gateway holds clients for downstream services owned by other
// teams. The payment gateway exposes REST; wallet debits/credits and
// settlement live entirely on its side.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type PaymentClient struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewPaymentClient(baseURL, token string, timeout time.Duration) *PaymentClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &PaymentClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   token,
	}
}

type submitOrderReq struct {
	OrderID  string  `json:"orderId"`
	UserID   string  `json:"userId"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// SubmitOrder asks the gateway to take payment for an order. The gateway
// reports the outcome asynchronously on Kafka; a 202 here only means the
// request was accepted.
func (c *PaymentClient) SubmitOrder(ctx context.Context, orderID, userID string, total float64, currency string) error {
	body, err := json.Marshal(submitOrderReq{
		OrderID:  orderID,
		UserID:   userID,
		Total:    total,
		Currency: currency,
	})
	if err != nil {
		return fmt.Errorf("marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("payment gateway status %d for order %s", resp.StatusCode, orderID)
	}
	return nil
}
