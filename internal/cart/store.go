// Package cart owns the session cart: an ordered set of line items keyed by
// denomination, plus the summary and clamping logic layered over it.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

var cartMutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cart_mutations_total",
		Help: "Cart mutations by operation",
	},
	[]string{"op"},
)

// Snapshots persists the full item list after every mutation and restores it
// at session start. Implementations must treat a missing snapshot as
// (nil, false, nil), not an error.
type Snapshots interface {
	Load(ctx context.Context, userID string) ([]domain.LineItem, bool, error)
	Save(ctx context.Context, userID string, items []domain.LineItem) error
}

// Store is one user's cart for the lifetime of their session. The in-memory
// state is authoritative; snapshot writes are best-effort and never gate the
// next mutation.
type Store struct {
	mu     sync.Mutex
	userID string
	items  []domain.LineItem
	isOpen bool
	snaps  Snapshots
	log    *slog.Logger
}

// newStore rehydrates a prior snapshot if one parses, otherwise starts empty.
// A corrupt or unreadable snapshot is logged and discarded, never fatal.
func newStore(ctx context.Context, userID string, snaps Snapshots, log *slog.Logger) *Store {
	s := &Store{userID: userID, snaps: snaps, log: log}
	items, ok, err := snaps.Load(ctx, userID)
	if err != nil {
		log.Warn("cart snapshot unreadable, starting empty", "user_id", userID, "err", err)
		return s
	}
	if ok {
		// Drop entries that violate the quantity invariant; a snapshot is
		// untrusted input.
		for _, it := range items {
			if it.Denomination > 0 && it.Quantity > 0 {
				s.items = append(s.items, it)
			}
		}
	}
	return s
}

// AddItem merges quantity into an existing line for the same denomination,
// keeping the stored UnitPrice and DisplayName (price-at-add-time is a
// contract: a later live price never rewrites it). New denominations append.
// Adding marks the cart open.
func (s *Store) AddItem(ctx context.Context, item domain.LineItem) error {
	if item.Denomination <= 0 || item.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].Denomination == item.Denomination {
			s.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, item)
	}
	s.isOpen = true
	cartMutations.WithLabelValues("add").Inc()
	s.persist(ctx)
	return nil
}

// UpdateQuantity adds delta (positive or negative) to an existing line. A
// resulting quantity <= 0 removes the line entirely; a line with quantity
// zero is never stored. Unknown denominations leave the cart untouched and
// report ErrItemNotFound.
func (s *Store) UpdateQuantity(ctx context.Context, denomination, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Denomination != denomination {
			continue
		}
		if s.items[i].Quantity+delta <= 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity += delta
		}
		cartMutations.WithLabelValues("update").Inc()
		s.persist(ctx)
		return nil
	}
	return domain.ErrItemNotFound
}

// RemoveItem deletes the line unconditionally. Removing an absent
// denomination is a no-op.
func (s *Store) RemoveItem(ctx context.Context, denomination int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Denomination == denomination {
			s.items = append(s.items[:i], s.items[i+1:]...)
			cartMutations.WithLabelValues("remove").Inc()
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the cart and closes it.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.isOpen = false
	cartMutations.WithLabelValues("clear").Inc()
	s.persist(ctx)
}

// SetOpen toggles the visibility flag only; items are untouched.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	s.isOpen = open
	s.mu.Unlock()
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// persist is called with s.mu held. Failures are swallowed: the in-memory
// cart stays authoritative for the session whether or not the write lands.
func (s *Store) persist(ctx context.Context) {
	items := make([]domain.LineItem, len(s.items))
	copy(items, s.items)
	if err := s.snaps.Save(ctx, s.userID, items); err != nil {
		s.log.Warn("cart snapshot write failed", "user_id", s.userID, "err", err)
	}
}

// Manager hands out per-user session stores, rehydrating each from its
// snapshot on first access. It replaces the original's ambient singleton so
// stores stay constructor-injected and testable.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	snaps  Snapshots
	log    *slog.Logger
}

func NewManager(snaps Snapshots, log *slog.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		snaps:  snaps,
		log:    log,
	}
}

// ForUser returns the session store for userID, creating it on first use.
func (m *Manager) ForUser(ctx context.Context, userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[userID]; ok {
		return s
	}
	s := newStore(ctx, userID, m.snaps, m.log)
	m.stores[userID] = s
	return s
}
