package usecase

import (
	"context"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

// Persistence shape for orders (kept out of domain).
type OrderRecord struct {
	ID, UserID, Status, Metal, ItemsJSON string
	Subtotal, Tax, Total                 float64
	TotalUnits, TotalWeightGrams         int
	IdempotencyKey                       string
}

type OrderRepo interface {
	Create(ctx context.Context, o *OrderRecord) error
	GetByID(ctx context.Context, id string) (*OrderRecord, error)
	UpdateStatus(ctx context.Context, id, toStatus string) error
	UpdateStatusIf(ctx context.Context, id string, fromStatus, toStatus string) (bool, error)
}

// GiftRecord is a coin gift awaiting downstream delivery.
type GiftRecord struct {
	ID, SenderID, RecipientID, Status string
	Metal                             string
	Denomination, Quantity            int
}

type GiftRepo interface {
	Create(ctx context.Context, g *GiftRecord) error
}

type OutboxRepo interface {
	InsertOrderCreated(ctx context.Context, payload []byte) error
	InsertGiftCreated(ctx context.Context, payload []byte) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type OrderCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
}

type EventQueue interface {
	PublishOrderCreated(ctx context.Context, msg OrderCreatedMsg) error
	PublishGiftCreated(ctx context.Context, msg GiftCreatedMsg) error
}

// InventoryRepo reports denomination availability. Shop stock gates cart
// adds; per-user coin balances gate the gift flow. Both are read-only here.
type InventoryRepo interface {
	ShopStock(ctx context.Context, metal domain.Metal) (map[int]int, error)
	CoinBalances(ctx context.Context, userID string, metal domain.Metal) (map[int]int, error)
}

type UserRecord struct {
	ID, Name, Email, Role string
	Verified              bool
}

type UserRepo interface {
	List(ctx context.Context, search, role string) ([]UserRecord, error)
}

// RateSource yields the latest known rate; ok=false until the first refresh
// ever lands.
type RateSource interface {
	Current(metal domain.Metal) (domain.Rate, bool)
}
