// Package plancache memoizes chunk plans per request shape with a
// single-computation-per-key guarantee: concurrent callers for the
// same key observe exactly one planning run and share its result.
package plancache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/kcsc-gpt/standards-api/internal/chunker"
	"github.com/kcsc-gpt/standards-api/internal/store"
)

// Cache wraps the planning pipeline. The LRU holds completed plans
// under a capacity and TTL bound; the singleflight group coalesces
// in-flight computations, so eviction can never cause a request
// already in flight to recompute or to see a torn value.
type Cache struct {
	group singleflight.Group
	lru   *expirable.LRU[string, *chunker.Plan]
}

// New creates a cache bounded by capacity entries and ttl per entry.
func New(capacity int, ttl time.Duration) *Cache {
	return &Cache{
		lru: expirable.NewLRU[string, *chunker.Plan](capacity, nil, ttl),
	}
}

// GetOrCompute returns the cached plan for (code, query, chunkSize) or
// runs compute exactly once across all concurrent callers for that
// key. Failed computations are not cached, so a transient fault does
// not poison the key.
func (c *Cache) GetOrCompute(code, query string, chunkSize int, compute func() (*chunker.Plan, error)) (*chunker.Plan, error) {
	k := Key(code, query, chunkSize)

	if plan, ok := c.lru.Get(k); ok {
		return plan, nil
	}

	v, err, _ := c.group.Do(k, func() (any, error) {
		if plan, ok := c.lru.Get(k); ok {
			return plan, nil
		}
		plan, err := compute()
		if err != nil {
			return nil, err
		}
		c.lru.Add(k, plan)
		return plan, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*chunker.Plan), nil
}

// Len returns the number of cached plans.
func (c *Cache) Len() int { return c.lru.Len() }

// Key hashes the normalized request shape: codes through the store's
// code normalization, queries through the scorer's, so equivalent
// spellings share one plan.
func Key(code, query string, chunkSize int) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d",
		store.NormalizeCode(code), chunker.NormalizeQuery(query), chunkSize))
	return hex.EncodeToString(sum[:])
}
