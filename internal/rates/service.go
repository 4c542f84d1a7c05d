// Package rates holds the last-known-good buy/sell price per metal and fans
// updates out to subscribers (the WebSocket push endpoint). Rates arrive from
// two sides: the HTTP poller and Kafka push updates; whichever lands later
// replaces the snapshot wholesale.
package rates

import (
	"log/slog"
	"sync"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

type Service struct {
	mu     sync.RWMutex
	latest map[domain.Metal]domain.Rate
	subs   map[int]chan domain.Rate
	nextID int
	log    *slog.Logger
}

func New(log *slog.Logger) *Service {
	return &Service{
		latest: make(map[domain.Metal]domain.Rate),
		subs:   make(map[int]chan domain.Rate),
		log:    log,
	}
}

// Current returns the latest snapshot for a metal. ok=false means no rate
// has ever loaded; callers must treat that as "compute disabled", not zero.
func (s *Service) Current(metal domain.Metal) (domain.Rate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.latest[metal]
	return r, ok
}

// Apply replaces the snapshot for the rate's metal and notifies subscribers.
// Rates with a non-positive buy side are ignored; a broken refresh must not
// evict the last known good value.
func (s *Service) Apply(rate domain.Rate) {
	if rate.BuyPerGram <= 0 || rate.SellPerGram <= 0 {
		s.log.Warn("discarding unusable rate", "metal", rate.Metal, "buy", rate.BuyPerGram, "sell", rate.SellPerGram)
		return
	}
	s.mu.Lock()
	s.latest[rate.Metal] = rate
	for _, ch := range s.subs {
		select {
		case ch <- rate:
		default: // slow subscriber, drop rather than block the update path
		}
	}
	s.mu.Unlock()
}

// All returns every metal's current snapshot.
func (s *Service) All() []domain.Rate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Rate, 0, len(s.latest))
	for _, r := range s.latest {
		out = append(out, r)
	}
	return out
}

// Subscribe registers a channel receiving every applied rate. The returned
// cancel func must be called when the consumer goes away.
func (s *Service) Subscribe() (<-chan domain.Rate, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan domain.Rate, 8)
	s.subs[id] = ch
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
