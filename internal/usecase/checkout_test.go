package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/ATjewellers01/zold-cart-api/internal/cart"
	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

type memSnapshots struct{ data map[string][]domain.LineItem }

func (m *memSnapshots) Load(_ context.Context, userID string) ([]domain.LineItem, bool, error) {
	items, ok := m.data[userID]
	return items, ok, nil
}

func (m *memSnapshots) Save(_ context.Context, userID string, items []domain.LineItem) error {
	m.data[userID] = items
	return nil
}

type fakeOrderRepo struct {
	created []*OrderRecord
	fail    error
}

func (f *fakeOrderRepo) Create(_ context.Context, o *OrderRecord) error {
	if f.fail != nil {
		return f.fail
	}
	f.created = append(f.created, o)
	return nil
}
func (f *fakeOrderRepo) GetByID(_ context.Context, id string) (*OrderRecord, error) {
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, nil
}
func (f *fakeOrderRepo) UpdateStatus(context.Context, string, string) error    { return nil }
func (f *fakeOrderRepo) UpdateStatusIf(context.Context, string, string, string) (bool, error) {
	return true, nil
}

type fakeIdem struct {
	remembered map[string]string
	locked     map[string]bool
}

func newFakeIdem() *fakeIdem {
	return &fakeIdem{remembered: map[string]string{}, locked: map[string]bool{}}
}

func (f *fakeIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + "/" + key
	if f.locked[k] {
		return false, nil
	}
	f.locked[k] = true
	return true, nil
}

func (f *fakeIdem) Remember(_ context.Context, scope, key, value string) error {
	f.remembered[scope+"/"+key] = value
	return nil
}

func (f *fakeIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := f.remembered[scope+"/"+key]
	return v, ok, nil
}

type fakeOutbox struct{ orders, gifts [][]byte }

func (f *fakeOutbox) InsertOrderCreated(_ context.Context, p []byte) error {
	f.orders = append(f.orders, p)
	return nil
}

func (f *fakeOutbox) InsertGiftCreated(_ context.Context, p []byte) error {
	f.gifts = append(f.gifts, p)
	return nil
}

type fakeQueue struct {
	orders []OrderCreatedMsg
	gifts  []GiftCreatedMsg
}

func (f *fakeQueue) PublishOrderCreated(_ context.Context, m OrderCreatedMsg) error {
	f.orders = append(f.orders, m)
	return nil
}

func (f *fakeQueue) PublishGiftCreated(_ context.Context, m GiftCreatedMsg) error {
	f.gifts = append(f.gifts, m)
	return nil
}

func testManager() *cart.Manager {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cart.NewManager(&memSnapshots{data: map[string][]domain.LineItem{}}, log)
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	uc := NewCheckout(testManager(), &fakeOrderRepo{}, newFakeIdem(), &fakeOutbox{}, &fakeQueue{}, nil, 3)
	_, err := uc.Execute(context.Background(), CheckoutInput{UserID: "u1", IdempotencyKey: "k1"})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	ctx := context.Background()
	carts := testManager()
	repo := &fakeOrderRepo{}
	idem := newFakeIdem()
	out := &fakeOutbox{}
	q := &fakeQueue{}

	store := carts.ForUser(ctx, "u1")
	_ = store.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 1, UnitPrice: 6245.5, DisplayName: "ZG 1 Gram"})

	uc := NewCheckout(carts, repo, idem, out, q, nil, 3)
	got, err := uc.Execute(ctx, CheckoutInput{UserID: "u1", IdempotencyKey: "k1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got.OrderID == "" || got.Status != string(domain.StatusPending) {
		t.Fatalf("unexpected output: %+v", got)
	}
	if math.Abs(got.Summary.Total-6432.865) > 1e-9 {
		t.Fatalf("total = %v", got.Summary.Total)
	}
	if len(repo.created) != 1 || repo.created[0].IdempotencyKey != "k1" {
		t.Fatalf("order row not created: %+v", repo.created)
	}
	if len(out.orders) != 1 || len(q.orders) != 1 {
		t.Fatalf("event not recorded: outbox=%d queue=%d", len(out.orders), len(q.orders))
	}
	if len(store.Items()) != 0 {
		t.Fatal("cart should be cleared after checkout")
	}
}

func TestCheckoutIdempotency(t *testing.T) {
	ctx := context.Background()
	carts := testManager()
	repo := &fakeOrderRepo{}
	idem := newFakeIdem()

	store := carts.ForUser(ctx, "u1")
	_ = store.AddItem(ctx, domain.LineItem{Denomination: 2, Quantity: 1, UnitPrice: 12491})

	uc := NewCheckout(carts, repo, idem, &fakeOutbox{}, &fakeQueue{}, nil, 3)
	first, err := uc.Execute(ctx, CheckoutInput{UserID: "u1", IdempotencyKey: "k1"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if len(store.Items()) != 0 {
		t.Fatal("first checkout should clear the cart")
	}

	// Replay with the same key against the now-empty cart: the retry a lost
	// response produces. It must recall the order, not report an empty cart.
	second, err := uc.Execute(ctx, CheckoutInput{UserID: "u1", IdempotencyKey: "k1"})
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if second.OrderID != first.OrderID {
		t.Fatalf("replay created a new order: %s vs %s", second.OrderID, first.OrderID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 order row, got %d", len(repo.created))
	}
	if math.Abs(second.Summary.Total-first.Summary.Total) > 1e-9 {
		t.Fatalf("replay total = %v, want original %v", second.Summary.Total, first.Summary.Total)
	}

	// A refilled cart must not leak into the replayed figures either.
	_ = store.AddItem(ctx, domain.LineItem{Denomination: 5, Quantity: 3, UnitPrice: 31227.5})
	third, err := uc.Execute(ctx, CheckoutInput{UserID: "u1", IdempotencyKey: "k1"})
	if err != nil {
		t.Fatalf("replay after refill: %v", err)
	}
	if third.OrderID != first.OrderID || math.Abs(third.Summary.Total-first.Summary.Total) > 1e-9 {
		t.Fatalf("replay after refill: %+v, want order %s total %v", third, first.OrderID, first.Summary.Total)
	}
}

func TestCheckoutMetalTakenFromCartLines(t *testing.T) {
	ctx := context.Background()
	carts := testManager()
	repo := &fakeOrderRepo{}

	store := carts.ForUser(ctx, "u1")
	_ = store.AddItem(ctx, domain.LineItem{Metal: domain.MetalSilver, Denomination: 10, Quantity: 1, UnitPrice: 780})

	uc := NewCheckout(carts, repo, newFakeIdem(), &fakeOutbox{}, &fakeQueue{}, nil, 3)
	if _, err := uc.Execute(ctx, CheckoutInput{UserID: "u1", IdempotencyKey: "k1"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(repo.created) != 1 || repo.created[0].Metal != string(domain.MetalSilver) {
		t.Fatalf("order metal = %+v, want silver from the priced lines", repo.created)
	}
}

func TestCheckoutLockedKeyIsDuplicate(t *testing.T) {
	ctx := context.Background()
	carts := testManager()
	idem := newFakeIdem()
	idem.locked["u1/k1"] = true // in-flight sibling request holds the lock

	store := carts.ForUser(ctx, "u1")
	_ = store.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 1, UnitPrice: 6245.5})

	uc := NewCheckout(carts, &fakeOrderRepo{}, idem, &fakeOutbox{}, &fakeQueue{}, nil, 3)
	if _, err := uc.Execute(ctx, CheckoutInput{UserID: "u1", IdempotencyKey: "k1"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}
