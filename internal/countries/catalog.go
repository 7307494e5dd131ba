package countries

import (
	"context"
	"sync"
	"time"
)

// PoolFetcher is the slice of Client the catalog needs.
type PoolFetcher interface {
	FetchPool(ctx context.Context) ([]Country, error)
}

// Catalog caches the eligible country pool for a bounded TTL. The upstream
// directory is large and changes rarely, so one fetch serves many rounds.
type Catalog struct {
	fetcher PoolFetcher
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	pool      []Country
	fetchedAt time.Time
}

func NewCatalog(fetcher PoolFetcher, ttl time.Duration) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Pool returns the cached pool, refetching when the cache is empty or the
// TTL has elapsed. A failed refresh serves the stale pool rather than
// failing the round; only the very first fetch can error out.
func (c *Catalog) Pool(ctx context.Context) ([]Country, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.pool, nil
	}

	pool, err := c.fetcher.FetchPool(ctx)
	if err != nil {
		if c.pool != nil {
			return c.pool, nil
		}
		return nil, err
	}
	c.pool = pool
	c.fetchedAt = c.now()
	return c.pool, nil
}

// Age reports how long ago the pool was fetched, and whether a cached pool
// exists at all.
func (c *Catalog) Age() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pool == nil {
		return 0, false
	}
	return c.now().Sub(c.fetchedAt), true
}
