package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
)

var rateRefreshes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rate_refreshes_total",
		Help: "Rate refresh attempts by metal and outcome",
	},
	[]string{"metal", "outcome"},
)

// Poller periodically fetches provider rates for each configured metal and
// applies them to the service. A failed fetch leaves the previous snapshot in
// place (last-known-good).
type Poller struct {
	svc      *Service
	fetcher  Fetcher
	metals   []domain.Metal
	interval time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

func NewPoller(svc *Service, fetcher Fetcher, metals []domain.Metal, interval time.Duration, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		svc:      svc,
		fetcher:  fetcher,
		metals:   metals,
		interval: interval,
		log:      log,
	}
}

func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		// Prime immediately so rates are usable before the first tick.
		p.tick(runCtx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				p.tick(runCtx)
			}
		}
	}()

	p.log.Info("rate poller started", "interval", p.interval)
}

func (p *Poller) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.running = false
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	p.log.Info("rate poller stopped")
}

func (p *Poller) tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, metal := range p.metals {
		rate, err := p.fetcher.Fetch(ctx, metal)
		if err != nil {
			rateRefreshes.WithLabelValues(string(metal), "error").Inc()
			p.log.Warn("rate fetch failed, keeping last known value", "metal", metal, "err", err)
			continue
		}
		rateRefreshes.WithLabelValues(string(metal), "ok").Inc()
		p.svc.Apply(rate)
	}
}
