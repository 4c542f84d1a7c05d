package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rates/current" || r.URL.Query().Get("metal") != "gold" {
			t.Fatalf("unexpected request: %s?%s", r.URL.Path, r.URL.RawQuery)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Fatalf("expected auth header, got %q", got)
		}
		w.Write([]byte(`{"buyRate": 6245.5, "sellRate": 6198.2, "source": "mcx"}`))
	}))
	defer server.Close()

	fetcher, err := NewHTTPFetcher(server.Client(), server.URL, "token")
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}

	rate, err := fetcher.Fetch(context.Background(), domain.MetalGold)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if rate.BuyPerGram != 6245.5 || rate.SellPerGram != 6198.2 || rate.Source != "mcx" {
		t.Fatalf("unexpected rate: %+v", rate)
	}
}

func TestHTTPFetcherNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher, _ := NewHTTPFetcher(server.Client(), server.URL, "")
	if _, err := fetcher.Fetch(context.Background(), domain.MetalGold); err == nil {
		t.Fatal("expected error on non-200")
	}
}
