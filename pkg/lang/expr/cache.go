package expr

import (
	"container/list"
)

// lruCache is a bounded least-recently-used cache of compiled predicates,
// keyed by trimmed source text. Not safe for concurrent use on its own;
// the Compiler serializes access.
//
// An unbounded cache would grow with every distinct expression string
// ever seen. Distinct authored expressions in practice number in the
// hundreds, so a small bound never evicts a hot entry.
type lruCache struct {
	capacity int
	order    *list.List // front = most recently used
	entries  map[string]*list.Element
}

type lruEntry struct {
	key       string
	predicate *Predicate
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element, capacity),
	}
}

func (c *lruCache) get(key string) (*Predicate, bool) {
	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruEntry).predicate, true
}

func (c *lruCache) put(key string, predicate *Predicate) {
	if elem, ok := c.entries[key]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*lruEntry).predicate = predicate
		return
	}

	elem := c.order.PushFront(&lruEntry{key: key, predicate: predicate})
	c.entries[key] = elem

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.entries, oldest.Value.(*lruEntry).key)
		}
	}
}

func (c *lruCache) len() int {
	return c.order.Len()
}
