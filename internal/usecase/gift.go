package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/ATjewellers01/zold-cart-api/internal/cart"
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

type GiftInput struct {
	SenderID, RecipientID string
	Metal                 domain.Metal
	Denomination          int
	Quantity              int
}

type GiftOutput struct {
	GiftID   string
	Status   string
	Quantity int // after clamping to the sender's balance
}

// SendCoinGift validates a coin gift against the sender's balance and hands
// it to the delivery pipeline. Quantity is clamped to the available balance;
// a denomination the sender holds none of is rejected, not clamped to zero.
type SendCoinGift struct {
	inv   InventoryRepo
	repo  GiftRepo
	out   OutboxRepo
	queue EventQueue
}

func NewSendCoinGift(inv InventoryRepo, repo GiftRepo, out OutboxRepo, queue EventQueue) *SendCoinGift {
	return &SendCoinGift{inv: inv, repo: repo, out: out, queue: queue}
}

func (uc *SendCoinGift) Execute(ctx context.Context, in GiftInput) (GiftOutput, error) {
	balances, err := uc.inv.CoinBalances(ctx, in.SenderID, in.Metal)
	if err != nil {
		return GiftOutput{}, err
	}
	qty, err := cart.ClampAdd(in.Quantity, balances[in.Denomination])
	if err != nil {
		return GiftOutput{}, err
	}

	giftID := uuid.NewString()
	rec := &GiftRecord{
		ID:           giftID,
		SenderID:     in.SenderID,
		RecipientID:  in.RecipientID,
		Status:       string(domain.StatusPending),
		Metal:        string(in.Metal),
		Denomination: in.Denomination,
		Quantity:     qty,
	}
	if err := uc.repo.Create(ctx, rec); err != nil {
		return GiftOutput{}, err
	}

	msg := GiftCreatedMsg{
		GiftID:       giftID,
		SenderID:     in.SenderID,
		RecipientID:  in.RecipientID,
		Metal:        string(in.Metal),
		Denomination: in.Denomination,
		Quantity:     qty,
	}
	if payload, err := json.Marshal(msg); err == nil {
		_ = uc.out.InsertGiftCreated(ctx, payload)
	}
	_ = uc.queue.PublishGiftCreated(ctx, msg)

	return GiftOutput{GiftID: giftID, Status: string(domain.StatusPending), Quantity: qty}, nil
}
