package queue

import (
	"context"

	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

// PaymentGateway is the port to the downstream payment service that debits
// the user's wallet for an accepted order.
type PaymentGateway interface {
	SubmitOrder(ctx context.Context, orderID, userID string, total float64, currency string) error
}

// OrderCreatedHandler forwards accepted orders to the payment gateway.
type OrderCreatedHandler struct {
	GW PaymentGateway
}

func NewOrderCreatedHandler(gw PaymentGateway) *OrderCreatedHandler {
	return &OrderCreatedHandler{GW: gw}
}

// HandleCreate is used with the JSON adapter (queue.JSONHandler[usecase.OrderCreatedMsg]).
func (h *OrderCreatedHandler) HandleCreate(ctx context.Context, msg usecase.OrderCreatedMsg) error {
	return h.GW.SubmitOrder(ctx, msg.OrderID, msg.UserID, msg.Total, msg.Currency)
}
