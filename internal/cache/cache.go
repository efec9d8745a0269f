// Package cache holds fetched record lists per owner so repeated reads do not
// hit the backend. Writers invalidate the affected key; nothing is mutated in
// place.
package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Resource names a cached record list.
type Resource string

const (
	Animals          Resource = "animals"
	Alerts           Resource = "alerts"
	MilkRecords      Resource = "milk_records"
	FinancialRecords Resource = "financial_records"
	FeedRecords      Resource = "feed_records"
	FarmProfile      Resource = "farm_profile"
)

// Key identifies one owner's list of one resource.
type Key struct {
	Owner    uuid.UUID
	Resource Resource
}

// QueryCache is an expiring LRU of fetched lists.
type QueryCache struct {
	lru *expirable.LRU[Key, any]
}

// New builds a cache holding at most size entries for ttl each. A nil
// *QueryCache is valid and caches nothing.
func New(size int, ttl time.Duration) *QueryCache {
	if size <= 0 {
		size = 256
	}
	return &QueryCache{lru: expirable.NewLRU[Key, any](size, nil, ttl)}
}

// Invalidate drops the cached list so the next read goes to the backend.
func (c *QueryCache) Invalidate(key Key) {
	if c == nil {
		return
	}
	c.lru.Remove(key)
}

// InvalidateOwner drops every list of one owner.
func (c *QueryCache) InvalidateOwner(owner uuid.UUID) {
	if c == nil {
		return
	}
	for _, k := range c.lru.Keys() {
		if k.Owner == owner {
			c.lru.Remove(k)
		}
	}
}

// Len is the number of live entries.
func (c *QueryCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Fetch returns the cached value for key, or calls load and caches its result.
// Failed loads are not cached.
func Fetch[T any](ctx context.Context, c *QueryCache, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	if c != nil {
		if v, ok := c.lru.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}

	v, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if c != nil {
		c.lru.Add(key, v)
	}
	return v, nil
}
