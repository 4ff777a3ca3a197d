// Package dedup suppresses redelivered webhook events. The platform retries
// deliveries it considers slow, and re-running a pipeline would push the same
// result to the user twice.
package dedup

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCapacity bounds the cache to the platform's practical retry horizon.
const DefaultCapacity = 1000

// Cache is a bounded membership set over message identifiers. Lookups never
// refresh an entry and every identifier is inserted at most once, so the
// underlying LRU evicts in exact insertion order: strict FIFO at capacity.
//
// The guard is approximate: identifiers seen before an eviction or a process
// restart are forgotten. That trade-off is accepted.
type Cache struct {
	entries *lru.Cache[string, struct{}]
}

// New creates a cache holding at most capacity identifiers. Non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, struct{}](capacity)
	if err != nil {
		return nil, fmt.Errorf("create dedup cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// ShouldProcess records id and reports whether this is its first appearance.
// Check and insert happen under one lock, so concurrent calls for the same id
// yield exactly one true.
func (c *Cache) ShouldProcess(id string) bool {
	present, _ := c.entries.ContainsOrAdd(id, struct{}{})
	return !present
}

// Len returns the number of identifiers currently held.
func (c *Cache) Len() int {
	return c.entries.Len()
}
