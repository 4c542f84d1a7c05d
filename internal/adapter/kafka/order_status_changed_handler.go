package kafka

import (
	"context"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

// OrderStatusChangedHandler lands payment-gateway settlement results on the
// order row, guarded so a late event cannot overwrite a terminal state.
type OrderStatusChangedHandler struct {
	Repo  usecase.OrderRepo
	Cache usecase.OrderCache // optional
}

func NewOrderStatusChangedHandler(repo usecase.OrderRepo, cache usecase.OrderCache) *OrderStatusChangedHandler {
	return &OrderStatusChangedHandler{Repo: repo, Cache: cache}
}

func (h *OrderStatusChangedHandler) Handle(ctx context.Context, ev usecase.OrderStatusChangedMsg) error {
	var newStatus domain.Status
	switch ev.Status {
	case "SUCCESS":
		newStatus = domain.StatusConfirmed
	default:
		newStatus = domain.StatusFailed
	}

	// Guarded transition: only PENDING/PROCESSING orders move.
	moved, err := h.Repo.UpdateStatusIf(ctx, ev.OrderID, string(domain.StatusProcessing), string(newStatus))
	if err != nil {
		return err
	}
	if !moved {
		if _, err := h.Repo.UpdateStatusIf(ctx, ev.OrderID, string(domain.StatusPending), string(newStatus)); err != nil {
			return err
		}
	}

	// Cache best-effort
	if h.Cache != nil {
		_ = h.Cache.SetStatus(ctx, ev.OrderID, string(newStatus))
	}
	return nil
}
