// Package market implements the 60-second market cache (C3): a defensive
// wall between the risk engine and the upstream odds feed so a burst of
// incoming tickets never fans out into a burst of outbound HTTP calls.
package market

import (
	"context"
	"sync"
	"time"

	"github.com/attaboy/shadowbook/internal/domain"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the cache's refresh interval (config key cache_ttl_seconds).
const DefaultTTL = 60 * time.Second

// Feed is the subset of provider.OddsFeed the cache depends on.
type Feed interface {
	FetchOdds(ctx context.Context) ([]domain.MarketQuote, error)
}

// Cache holds the most recent market snapshot, keyed by match_id, and
// coalesces concurrent refreshes into a single upstream call.
type Cache struct {
	feed Feed
	ttl  time.Duration

	mu        sync.RWMutex
	snapshot  map[string]domain.MarketQuote
	fetchedAt time.Time

	group singleflight.Group
}

// New builds a Cache around the given feed with the given TTL. A zero ttl
// falls back to DefaultTTL.
func New(feed Feed, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{feed: feed, ttl: ttl, snapshot: make(map[string]domain.MarketQuote)}
}

// GetLiveMarket returns the current market snapshot, refreshing it from the
// feed first if the cache is empty, stale, or force is set. Concurrent
// callers that arrive during a refresh share one upstream fetch. The feed is
// never allowed to fail this call: a feed error or an exhausted retry chain
// just means the refresh is skipped and the prior snapshot (or an empty map,
// if there has never been a good fetch) is returned instead. Downstream,
// match_ids missing from the snapshot surface as per-ticket
// "missing external benchmark" rejections, not a batch-wide error.
func (c *Cache) GetLiveMarket(ctx context.Context, force bool) (map[string]domain.MarketQuote, error) {
	if !force && c.fresh() {
		return c.read(), nil
	}

	_, _, _ = c.group.Do("refresh", func() (interface{}, error) {
		// Re-check under the singleflight key: a sibling call may have just
		// refreshed while this one was waiting to enter Do.
		if !force && c.fresh() {
			return nil, nil
		}
		quotes, err := c.feed.FetchOdds(ctx)
		if err != nil || len(quotes) == 0 {
			// A feed error or an empty response is treated as a transient
			// miss — the stale snapshot is preserved rather than wiped
			// (matches the orchestrator's "only replace on a nonempty
			// fetch" rule).
			return nil, nil
		}
		next := make(map[string]domain.MarketQuote, len(quotes))
		for _, q := range quotes {
			next[q.MatchID] = q
		}
		c.mu.Lock()
		c.snapshot = next
		c.fetchedAt = time.Now()
		c.mu.Unlock()
		return nil, nil
	})
	return c.read(), nil
}

func (c *Cache) fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.snapshot) > 0 && time.Since(c.fetchedAt) <= c.ttl
}

func (c *Cache) read() map[string]domain.MarketQuote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]domain.MarketQuote, len(c.snapshot))
	for k, v := range c.snapshot {
		out[k] = v
	}
	return out
}
