package station

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KaiRo-at/weatherthing/internal/observability"
)

// ErrNoData is returned when a fetch fails and the cache has never held
// an observation. Callers must treat it as "no value yet", distinct from
// a value that merely went stale.
var ErrNoData = errors.New("no observation available yet")

// DefaultTTL is how long a fetched observation is considered fresh.
const DefaultTTL = 10 * time.Second

// DefaultFetchTimeout bounds a single upstream fetch so it cannot hold
// the cache lock indefinitely.
const DefaultFetchTimeout = 8 * time.Second

type cacheEntry struct {
	obs       Observation
	fetchedAt time.Time
}

// Cache is a single-flight, time-bounded cache over one station fetch.
//
// The mutex guards the whole read-check-fetch-replace sequence, so at
// most one fetch is ever in flight; callers arriving meanwhile block
// until it completes and reuse its result.
type Cache struct {
	fetcher      Fetcher
	ttl          time.Duration
	fetchTimeout time.Duration
	log          *logrus.Entry
	metrics      *observability.Metrics

	mu    sync.Mutex
	entry *cacheEntry
}

func NewCache(fetcher Fetcher, ttl time.Duration, logger *logrus.Logger, metrics *observability.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		fetcher:      fetcher,
		ttl:          ttl,
		fetchTimeout: DefaultFetchTimeout,
		log:          logger.WithField("component", "cache"),
		metrics:      metrics,
	}
}

// SetFetchTimeout overrides the per-fetch deadline. Zero or negative
// values leave the fetch unbounded.
func (c *Cache) SetFetchTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchTimeout = d
}

// GetLatest returns the current observation, fetching from the station
// when the cached one has expired.
//
// On a failed refresh the previous entry is left untouched, including
// its timestamp, so the very next call retries instead of waiting out
// another freshness window. A stale observation is served silently in
// that case; only a failure with an empty cache surfaces ErrNoData.
func (c *Cache) GetLatest(ctx context.Context) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entry != nil && time.Since(c.entry.fetchedAt) < c.ttl {
		c.metrics.CacheHit()
		return c.entry.obs, nil
	}

	// The fetch runs on the cache's own context: cancelling one caller
	// must not abort a fetch other callers are blocked on.
	fetchCtx := context.Background()
	if c.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, c.fetchTimeout)
		defer cancel()
	}

	set, err := c.fetcher.FetchObservations(fetchCtx)
	if err == nil {
		obs, ok := set.Latest()
		if !ok {
			err = fmt.Errorf("%w: no timestamped records", ErrUpstream)
		} else {
			c.metrics.FetchSucceeded()
			c.entry = &cacheEntry{obs: obs, fetchedAt: time.Now()}
			return obs, nil
		}
	}

	c.metrics.FetchFailed()
	if c.entry != nil {
		c.metrics.StaleServed()
		c.log.Warnf("refresh failed, serving observation from %s: %v",
			c.entry.fetchedAt.Format(time.RFC3339), err)
		return c.entry.obs, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrNoData, err)
}
