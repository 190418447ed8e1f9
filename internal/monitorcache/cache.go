// Package monitorcache memoizes the uptime monitor listing behind a short TTL.
// The upstream returns every monitored product in one call, so a catalog-wide
// evaluation needs exactly one upstream fetch instead of one per product.
package monitorcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dooor-ai/readiness/internal/metrics"
	"github.com/dooor-ai/readiness/internal/signal"
	"github.com/dooor-ai/readiness/pkg/types"
)

// DefaultTTL is the payload freshness window.
const DefaultTTL = 5 * time.Minute

// Fetcher is the upstream monitor listing call.
type Fetcher interface {
	FetchMonitors(ctx context.Context, includeResponseTimes bool) (*signal.MonitorPayload, error)
}

type entry struct {
	payload   *signal.MonitorPayload
	fetchedAt time.Time
}

// Cache is a TTL-keyed memo of monitor payloads, keyed by whether response
// times were requested. Two evaluations racing past TTL expiry may both
// refresh; the refresh is idempotent so the duplicate call is tolerated.
type Cache struct {
	mu      sync.Mutex
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
	entries map[bool]entry
	logger  *slog.Logger
}

// New creates a cache in front of fetcher. A non-positive ttl falls back to
// DefaultTTL.
func New(fetcher Fetcher, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[bool]entry),
		logger:  slog.Default(),
	}
}

// SetClock overrides the time source, for deterministic TTL tests.
func (c *Cache) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// SetLogger overrides the default logger.
func (c *Cache) SetLogger(l *slog.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Fetch returns the cached payload when fresh, otherwise performs the
// upstream call and stores the result under the includeResponseTimes key.
func (c *Cache) Fetch(ctx context.Context, includeResponseTimes bool) (*signal.MonitorPayload, error) {
	c.mu.Lock()
	if e, ok := c.entries[includeResponseTimes]; ok && c.now().Sub(e.fetchedAt) < c.ttl {
		c.mu.Unlock()
		metrics.MonitorCacheHits.Add(1)
		return e.payload, nil
	}
	c.mu.Unlock()

	metrics.MonitorCacheMisses.Add(1)
	payload, err := c.fetcher.FetchMonitors(ctx, includeResponseTimes)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[includeResponseTimes] = entry{payload: payload, fetchedAt: c.now()}
	c.mu.Unlock()
	return payload, nil
}

// Clear drops all cached payloads, forcing the next fetch upstream.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[bool]entry)
	c.mu.Unlock()
	metrics.MonitorCacheRefreshes.Add(1)
}

// AllProductStats resolves uptime and latency for every given product id from
// one (possibly cached) upstream call. Products without a matching monitor get
// an explicit zero-value UptimeSignal, meaning unavailable rather than failed.
func (c *Cache) AllProductStats(ctx context.Context, ids []string) map[string]types.UptimeSignal {
	out := make(map[string]types.UptimeSignal, len(ids))
	for _, id := range ids {
		out[id] = types.UptimeSignal{}
	}

	payload, err := c.Fetch(ctx, true)
	if err != nil {
		c.logger.Warn("monitor listing unavailable", "error", err)
		return out
	}

	for _, id := range ids {
		if m, ok := payload.FindMonitor(id); ok {
			out[id] = m.Signal()
		}
	}
	return out
}

// ProductStats resolves uptime and latency for a single product. Used by
// single-product evaluations when no pre-fetched batch exists.
func (c *Cache) ProductStats(ctx context.Context, id string) types.UptimeSignal {
	payload, err := c.Fetch(ctx, true)
	if err != nil {
		c.logger.Warn("monitor listing unavailable", "product", id, "error", err)
		return types.UptimeSignal{}
	}

	m, ok := payload.FindMonitor(id)
	if !ok {
		return types.UptimeSignal{}
	}
	return m.Signal()
}
