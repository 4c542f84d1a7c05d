package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/pricing"
)

type fakeSnapshots struct {
	data     map[string][]byte
	loadErr  error
	saveErr  error
	saveHits int
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: map[string][]byte{}}
}

func (f *fakeSnapshots) Load(_ context.Context, userID string) ([]domain.LineItem, bool, error) {
	if f.loadErr != nil {
		return nil, false, f.loadErr
	}
	raw, ok := f.data[userID]
	if !ok {
		return nil, false, nil
	}
	var items []domain.LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (f *fakeSnapshots) Save(_ context.Context, userID string, items []domain.LineItem) error {
	f.saveHits++
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	f.data[userID] = raw
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testStore(t *testing.T, snaps Snapshots) *Store {
	t.Helper()
	return NewManager(snaps, testLogger()).ForUser(context.Background(), "u1")
}

func subtotalOf(items []domain.LineItem) float64 {
	var s float64
	for _, it := range items {
		s += float64(it.Quantity) * it.UnitPrice
	}
	return s
}

func TestAddMergesAndKeepsSnapshotPrice(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, newFakeSnapshots())

	if err := s.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 1, UnitPrice: 6245.5, DisplayName: "ZG 1 Gram"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Same denomination at a different live price: quantity merges, the
	// original unit price stays.
	if err := s.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 2, UnitPrice: 6300, DisplayName: "ZG 1 Gram (new)"}); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	items := s.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Quantity != 3 || items[0].UnitPrice != 6245.5 || items[0].DisplayName != "ZG 1 Gram" {
		t.Fatalf("snapshot not preserved: %+v", items[0])
	}
	if got := subtotalOf(items); math.Abs(got-18736.5) > 1e-9 {
		t.Fatalf("subtotal = %v, want 18736.5", got)
	}
	if !s.IsOpen() {
		t.Fatal("add should open the cart")
	}
}

func TestUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, newFakeSnapshots())
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 3, UnitPrice: 6245.5})

	t.Run("delta to zero removes the line", func(t *testing.T) {
		if err := s.UpdateQuantity(ctx, 1, -3); err != nil {
			t.Fatalf("update: %v", err)
		}
		if len(s.Items()) != 0 {
			t.Fatalf("expected empty cart, got %v", s.Items())
		}
	})

	t.Run("missing denomination is a signalled no-op", func(t *testing.T) {
		before := s.Items()
		if err := s.UpdateQuantity(ctx, 5, 1); !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
		if len(s.Items()) != len(before) {
			t.Fatal("no-op update mutated the cart")
		}
	})
}

func TestQuantityNeverNonPositive(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, newFakeSnapshots())
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 2, Quantity: 2, UnitPrice: 100})
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 5, Quantity: 1, UnitPrice: 500})

	deltas := []struct {
		denom, delta int
	}{{2, -1}, {2, 1}, {5, -4}, {2, -10}, {5, 2}}
	for _, d := range deltas {
		_ = s.UpdateQuantity(ctx, d.denom, d.delta)
		for _, it := range s.Items() {
			if it.Quantity <= 0 {
				t.Fatalf("stored quantity %d for denomination %d", it.Quantity, it.Denomination)
			}
		}
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, newFakeSnapshots())
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 10, Quantity: 1, UnitPrice: 62455})

	s.RemoveItem(ctx, 10)
	after := s.Items()
	s.RemoveItem(ctx, 10)
	if len(s.Items()) != len(after) {
		t.Fatal("second remove changed state")
	}
}

func TestClearClosesCart(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, newFakeSnapshots())
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 1, UnitPrice: 6245.5})

	s.Clear(ctx)
	if len(s.Items()) != 0 || s.IsOpen() {
		t.Fatalf("clear left items=%v open=%v", s.Items(), s.IsOpen())
	}
}

func TestSubtotalInvariantAfterMutationSequence(t *testing.T) {
	ctx := context.Background()
	s := testStore(t, newFakeSnapshots())

	_ = s.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 2, UnitPrice: 6245.5})
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 2, Quantity: 1, UnitPrice: 12491})
	_ = s.UpdateQuantity(ctx, 1, 1)
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 5, Quantity: 3, UnitPrice: 31227.5})
	_ = s.UpdateQuantity(ctx, 2, -1)
	s.RemoveItem(ctx, 5)
	_ = s.AddItem(ctx, domain.LineItem{Denomination: 10, Quantity: 1, UnitPrice: 62455})

	sum := Summarize(s.Items(), 3, pricing.TaxAdded)
	if want := subtotalOf(s.Items()); math.Abs(sum.Subtotal-want) > 1e-9 {
		t.Fatalf("summary subtotal %v != recomputed %v", sum.Subtotal, want)
	}
}

func TestRehydrateFromSnapshot(t *testing.T) {
	ctx := context.Background()
	snaps := newFakeSnapshots()
	m := NewManager(snaps, testLogger())

	first := m.ForUser(ctx, "u1")
	_ = first.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 2, UnitPrice: 6245.5})

	// A fresh manager simulates a new process reading the persisted state.
	second := NewManager(snaps, testLogger()).ForUser(ctx, "u1")
	items := second.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("rehydrated cart wrong: %v", items)
	}
}

func TestCorruptSnapshotFailsOpen(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.data["u1"] = []byte(`{not json`)

	s := testStore(t, snaps)
	if len(s.Items()) != 0 {
		t.Fatalf("expected empty cart, got %v", s.Items())
	}
	// The store must stay usable afterwards.
	if err := s.AddItem(context.Background(), domain.LineItem{Denomination: 1, Quantity: 1, UnitPrice: 6245.5}); err != nil {
		t.Fatalf("add after corrupt load: %v", err)
	}
}

func TestSnapshotEntriesViolatingInvariantDropped(t *testing.T) {
	snaps := newFakeSnapshots()
	snaps.data["u1"] = []byte(`[{"denomination":1,"quantity":0,"unitPrice":10},{"denomination":2,"quantity":1,"unitPrice":20}]`)

	s := testStore(t, snaps)
	items := s.Items()
	if len(items) != 1 || items[0].Denomination != 2 {
		t.Fatalf("expected only the valid line, got %v", items)
	}
}

func TestPersistFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	snaps := newFakeSnapshots()
	snaps.saveErr = errors.New("redis down")

	s := testStore(t, snaps)
	if err := s.AddItem(ctx, domain.LineItem{Denomination: 1, Quantity: 1, UnitPrice: 6245.5}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(s.Items()) != 1 {
		t.Fatal("in-memory cart must stay authoritative when persistence fails")
	}
	if snaps.saveHits == 0 {
		t.Fatal("expected a persistence attempt")
	}
}

func TestInvalidAddRejected(t *testing.T) {
	s := testStore(t, newFakeSnapshots())
	for _, it := range []domain.LineItem{
		{Denomination: 0, Quantity: 1, UnitPrice: 10},
		{Denomination: 1, Quantity: 0, UnitPrice: 10},
		{Denomination: 1, Quantity: -2, UnitPrice: 10},
	} {
		if err := s.AddItem(context.Background(), it); !errors.Is(err, domain.ErrInvalidQuantity) {
			t.Fatalf("item %+v: expected ErrInvalidQuantity, got %v", it, err)
		}
	}
}
