package kafka

import (
	"context"
	"time"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/rates"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

// RateUpdateHandler applies pushed provider prices to the rate service. The
// poller covers gaps; whichever source delivered last wins.
type RateUpdateHandler struct {
	Rates *rates.Service
}

func NewRateUpdateHandler(svc *rates.Service) *RateUpdateHandler {
	return &RateUpdateHandler{Rates: svc}
}

func (h *RateUpdateHandler) Handle(_ context.Context, ev usecase.RateUpdateMsg) error {
	metal, ok := domain.ParseMetal(ev.Metal)
	if !ok {
		// Unknown metal is not retryable; drop it.
		return nil
	}
	ts, err := time.Parse(time.RFC3339, ev.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}
	h.Rates.Apply(domain.Rate{
		Metal:       metal,
		BuyPerGram:  ev.BuyRate,
		SellPerGram: ev.SellRate,
		UpdatedAt:   ts,
		Source:      "push",
	})
	return nil
}
