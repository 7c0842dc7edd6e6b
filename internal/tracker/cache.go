package tracker

import (
	"slices"
	"sync"
)

// cache is the local copy of one table. It is never authoritative: Fetch
// replaces it wholesale and Add prepends the row the store returned.
type cache[T any] struct {
	mu       sync.RWMutex
	items    []T
	inflight int
	lastErr  error
}

func (c *cache[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *cache[T]) begin() {
	c.mu.Lock()
	c.inflight++
	c.lastErr = nil
	c.mu.Unlock()
}

// end finishes a call started with begin; it always runs, success or not.
func (c *cache[T]) end(err error) {
	c.mu.Lock()
	c.inflight--
	if err != nil {
		c.lastErr = err
	}
	c.mu.Unlock()
}

func (c *cache[T]) replace(items []T) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

// prepend inserts item at the front, then applies sortFn when set.
func (c *cache[T]) prepend(item T, sortFn func(a, b T) int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
	if sortFn != nil {
		slices.SortStableFunc(c.items, sortFn)
	}
}

func (c *cache[T]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

// LastError is the error of the most recent failed call, cleared when a new call starts.
func (c *cache[T]) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
