package loader

import (
	"sync/atomic"
)

// Cache owns the process-wide loader and swaps it for a fresh one on reload.
type Cache[V any] struct {
	build      func() *Loader[V]
	current    atomic.Pointer[Loader[V]]
	generation atomic.Int64
}

// NewCache builds a cache whose loaders come from build.
func NewCache[V any](build func() *Loader[V]) *Cache[V] {
	c := &Cache[V]{build: build}
	c.current.Store(build())
	return c
}

// Current returns the active loader.
func (c *Cache[V]) Current() *Loader[V] {
	return c.current.Load()
}

// Reload replaces the active loader with an empty one and returns it.
// Requests holding the previous loader finish against it.
func (c *Cache[V]) Reload() *Loader[V] {
	next := c.build()
	c.current.Store(next)
	c.generation.Add(1)
	return next
}

// Generation counts completed reloads.
func (c *Cache[V]) Generation() int64 {
	return c.generation.Load()
}
