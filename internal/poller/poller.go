// Package poller re-evaluates the catalog on an interval so the monitor cache
// stays warm and status changes show up in the logs without waiting for an API
// request.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dooor-ai/readiness/internal/engine"
	"github.com/dooor-ai/readiness/pkg/types"
)

// DefaultInterval between catalog evaluations.
const DefaultInterval = 5 * time.Minute

// Poller periodically evaluates every product and logs status transitions.
type Poller struct {
	engine   *engine.Engine
	interval time.Duration
	logger   *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu   sync.Mutex
	last map[string]types.Status
}

// New creates a poller over the engine. A non-positive interval falls back to
// DefaultInterval.
func New(eng *engine.Engine, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		engine:   eng,
		interval: interval,
		logger:   logger,
		last:     make(map[string]types.Status),
	}
}

// Start begins the polling loop. The first evaluation runs immediately.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.logger.Info("poller started", "interval", p.interval)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.poll(ctx)
		for {
			select {
			case <-ctx.Done():
				p.logger.Info("poller stopping")
				return
			case <-ticker.C:
				p.poll(ctx)
			}
		}
	}()
}

// Stop shuts down the polling loop, waiting for an in-flight evaluation to
// finish or ctx to expire.
func (p *Poller) Stop(ctx context.Context) {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warn("poller stop timed out")
	}
}

// LastStatuses returns the statuses observed by the most recent poll.
func (p *Poller) LastStatuses() map[string]types.Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make(map[string]types.Status, len(p.last))
	for id, s := range p.last {
		out[id] = s
	}
	return out
}

func (p *Poller) poll(ctx context.Context) {
	records := p.engine.EvaluateAll(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, rec := range records {
		prev, seen := p.last[rec.ProductID]
		if seen && prev != rec.Status {
			p.logger.Info("readiness status changed",
				"product", rec.ProductID,
				"from", prev,
				"to", rec.Status,
				"score", rec.ReadinessScore)
		}
		p.last[rec.ProductID] = rec.Status
	}
}
