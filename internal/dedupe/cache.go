// ABOUTME: TTL and size bounded cache of results keyed by request id.
// ABOUTME: Lets the tool router replay the answer to a resubmitted request.

package dedupe

import (
	"container/list"
	"sync"
	"time"
)

type entry[V any] struct {
	key     string
	value   V
	expires time.Time
}

// Cache holds up to maxSize values, each for ttl after it was stored. The
// oldest entry is evicted first when the cache is full.
type Cache[V any] struct {
	mu      sync.Mutex
	items   map[string]*list.Element
	order   *list.List // *entry[V], oldest at front
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// New creates a cache. A non-positive maxSize is treated as 1.
func New[V any](ttl time.Duration, maxSize int) *Cache[V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Cache[V]{
		items:   make(map[string]*list.Element),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Get returns the value stored under key if it has not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	e := elem.Value.(*entry[V])
	if !c.now().Before(e.expires) {
		c.removeLocked(elem)
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, replacing any previous value and restarting its TTL.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[V])
		e.value = value
		e.expires = now.Add(c.ttl)
		c.order.MoveToBack(elem)
		return
	}

	c.expireLocked(now)
	for len(c.items) >= c.maxSize {
		c.removeLocked(c.order.Front())
	}

	c.items[key] = c.order.PushBack(&entry[V]{key: key, value: value, expires: now.Add(c.ttl)})
}

// Len returns the number of entries, including expired ones not yet swept.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// expireLocked drops expired entries from the front. Entries are ordered by
// store time and share one TTL, so the scan stops at the first live entry.
func (c *Cache[V]) expireLocked(now time.Time) {
	for elem := c.order.Front(); elem != nil; elem = c.order.Front() {
		if now.Before(elem.Value.(*entry[V]).expires) {
			return
		}
		c.removeLocked(elem)
	}
}

func (c *Cache[V]) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry[V])
	c.order.Remove(elem)
	delete(c.items, e.key)
}
