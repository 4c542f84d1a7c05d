package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ATjewellers01/zold-cart-api/internal/cart"
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/pricing"
)

var ErrDuplicate = errors.New("duplicate idempotency key")

type CheckoutInput struct {
	UserID, IdempotencyKey string
}

type CheckoutOutput struct {
	OrderID string
	Status  string
	Summary cart.Summary
}

// Checkout folds the user's cart into an order: summary derived from the
// line items at submission time, order row persisted, event queued for the
// payment gateway, cart cleared. A replay under a known idempotency key
// answers from the stored order; everything else recomputes the summary from
// store contents inside the call, never from a cache.
type Checkout struct {
	carts   *cart.Manager
	repo    OrderRepo
	idem    IdempotencyStore
	out     OutboxRepo
	queue   EventQueue
	cache   OrderCache
	gstRate float64
}

func NewCheckout(carts *cart.Manager, repo OrderRepo, idem IdempotencyStore, out OutboxRepo, queue EventQueue, cache OrderCache, gstRate float64) *Checkout {
	return &Checkout{
		carts:   carts,
		repo:    repo,
		idem:    idem,
		out:     out,
		queue:   queue,
		cache:   cache,
		gstRate: gstRate,
	}
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	// Recall runs before anything touches the cart: on a genuine retry the
	// first call already cleared it, so the replay must answer from the
	// stored order, never from current cart contents.
	if id, ok, _ := uc.idem.Recall(ctx, in.UserID, in.IdempotencyKey); ok {
		if rec, err := uc.repo.GetByID(ctx, id); err == nil && rec != nil {
			return CheckoutOutput{
				OrderID: rec.ID,
				Status:  rec.Status,
				Summary: cart.Summary{
					Subtotal:    rec.Subtotal,
					Tax:         rec.Tax,
					Total:       rec.Total,
					TotalUnits:  rec.TotalUnits,
					TotalWeight: rec.TotalWeightGrams,
				},
			}, nil
		}
		return CheckoutOutput{OrderID: id, Status: string(domain.StatusPending)}, nil
	}

	store := uc.carts.ForUser(ctx, in.UserID)
	items := store.Items()
	if len(items) == 0 {
		return CheckoutOutput{}, domain.ErrEmptyCart
	}
	summary := cart.Summarize(items, uc.gstRate, pricing.TaxAdded)

	// The order's metal comes from the lines themselves, priced at add
	// time; a request parameter cannot relabel them.
	metal := items[0].Metal
	if metal == "" {
		metal = domain.MetalGold
	}

	ok, err := uc.idem.TryLock(ctx, in.UserID, in.IdempotencyKey)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if !ok {
		return CheckoutOutput{}, ErrDuplicate
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return CheckoutOutput{}, fmt.Errorf("marshal items: %w", err)
	}

	orderID := uuid.NewString()
	order := domain.Order{
		ID:          orderID,
		UserID:      in.UserID,
		Status:      domain.StatusPending,
		Metal:       metal,
		Subtotal:    summary.Subtotal,
		Tax:         summary.Tax,
		Total:       summary.Total,
		TotalUnits:  summary.TotalUnits,
		TotalWeight: summary.TotalWeight,
		ItemsJSON:   string(itemsJSON),
	}
	if err := order.Validate(); err != nil {
		return CheckoutOutput{}, err
	}
	rec := &OrderRecord{
		ID:               order.ID,
		UserID:           order.UserID,
		Status:           string(order.Status),
		Metal:            string(order.Metal),
		Subtotal:         order.Subtotal,
		Tax:              order.Tax,
		Total:            order.Total,
		TotalUnits:       order.TotalUnits,
		TotalWeightGrams: order.TotalWeight,
		ItemsJSON:        order.ItemsJSON,
		IdempotencyKey:   in.IdempotencyKey,
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return CheckoutOutput{}, err
	}

	// Outbox row first, then a best-effort direct publish; the outbox
	// drainer covers a lost publish.
	msg := OrderCreatedMsg{OrderID: orderID, UserID: in.UserID, Total: summary.Total, Currency: "INR"}
	if payload, err := json.Marshal(msg); err == nil {
		_ = uc.out.InsertOrderCreated(ctx, payload)
	}
	_ = uc.queue.PublishOrderCreated(ctx, msg)

	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, orderID, string(domain.StatusPending))
	}

	store.Clear(ctx)
	_ = uc.idem.Remember(ctx, in.UserID, in.IdempotencyKey, orderID)
	return CheckoutOutput{OrderID: orderID, Status: string(domain.StatusPending), Summary: summary}, nil
}
