package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

// Fetcher retrieves the current rate for a metal from the upstream bullion
// provider.
type Fetcher interface {
	Fetch(ctx context.Context, metal domain.Metal) (domain.Rate, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, metal domain.Metal) (domain.Rate, error)

func (f FetcherFunc) Fetch(ctx context.Context, metal domain.Metal) (domain.Rate, error) {
	return f(ctx, metal)
}

// HTTPFetcher polls the provider's REST endpoint:
// GET {base}/rates/current?metal=gold -> {"buyRate":..., "sellRate":...}
type HTTPFetcher struct {
	client  *http.Client
	baseURL string
	token   string
}

func NewHTTPFetcher(client *http.Client, baseURL, token string) (*HTTPFetcher, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("provider base url is required")
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{client: client, baseURL: baseURL, token: token}, nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, metal domain.Metal) (domain.Rate, error) {
	u := fmt.Sprintf("%s/rates/current?metal=%s", f.baseURL, url.QueryEscape(string(metal)))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.Rate{}, err
	}
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Rate{}, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return domain.Rate{}, fmt.Errorf("provider status %d", resp.StatusCode)
	}

	var body struct {
		BuyRate  float64 `json:"buyRate"`
		SellRate float64 `json:"sellRate"`
		Source   string  `json:"source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Rate{}, fmt.Errorf("decode provider response: %w", err)
	}
	return domain.Rate{
		Metal:       metal,
		BuyPerGram:  body.BuyRate,
		SellPerGram: body.SellRate,
		UpdatedAt:   time.Now().UTC(),
		Source:      body.Source,
	}, nil
}
