// Package cache provides an in-memory response cache keyed by workspace
// id. Converter outputs are expensive to rebuild, so export handlers keep
// rendered responses here; every store mutation invalidates the owning
// workspace's entries through the core.Invalidator hookup.
package cache

import "sync"

// Cache stores rendered responses per workspace. Entries within one
// workspace are distinguished by a caller-chosen key (format, delimiter).
// It implements core.Invalidator.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]map[string][]byte
	listeners map[chan string]struct{}
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries:   make(map[string]map[string][]byte),
		listeners: make(map[chan string]struct{}),
	}
}

// Get returns the cached response for a workspace/key pair.
func (c *Cache) Get(workspaceID, key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byKey, ok := c.entries[workspaceID]
	if !ok {
		return nil, false
	}
	value, ok := byKey[key]
	return value, ok
}

// Put stores a response. The value is copied so later caller mutations
// cannot corrupt the cache.
func (c *Cache) Put(workspaceID, key string, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	defer c.mu.Unlock()

	byKey, ok := c.entries[workspaceID]
	if !ok {
		byKey = make(map[string][]byte)
		c.entries[workspaceID] = byKey
	}
	byKey[key] = stored
}

// Invalidate drops every entry for a workspace and pings subscribers.
// The store calls this after every mutation.
func (c *Cache) Invalidate(workspaceID string) {
	c.mu.Lock()
	delete(c.entries, workspaceID)
	c.mu.Unlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for ch := range c.listeners {
		select {
		case ch <- workspaceID:
		default:
			// Channel full, skip (listener will catch up on next ping)
		}
	}
}

// Subscribe returns a channel that receives the workspace id whenever a
// workspace is invalidated. The caller must call Unsubscribe when done to
// prevent goroutine leaks.
func (c *Cache) Subscribe() chan string {
	ch := make(chan string, 1)
	c.mu.Lock()
	c.listeners[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (c *Cache) Unsubscribe(ch chan string) {
	c.mu.Lock()
	delete(c.listeners, ch)
	c.mu.Unlock()
	close(ch)
}
