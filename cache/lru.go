/*
Copyright 2026 The Flux authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cache

import (
	"sync"
)

// RemovalCause tells why an entry left a tier.
type RemovalCause int

const (
	// CauseExplicit is an entry removed by an invalidation.
	CauseExplicit RemovalCause = iota
	// CauseSize is an entry evicted to make room for another.
	CauseSize
)

func (c RemovalCause) String() string {
	if c == CauseSize {
		return "size"
	}
	return "explicit"
}

// removalFunc is notified of every entry leaving an lru. It is always
// called without the lru lock held.
type removalFunc[V any] func(key Key, value V, weight int64, cause RemovalCause)

// node is a node in a doubly linked list
// that is used to implement an LRU cache
type node[V any] struct {
	key    Key
	value  V
	weight int64
	prev   *node[V]
	next   *node[V]
}

type removal[V any] struct {
	key    Key
	value  V
	weight int64
	cause  RemovalCause
}

// lru is a thread-safe in-memory store bounded by the total weight of its
// entries. With a weigher returning 1 the bound is an entry count.
//
// Entries live in a doubly linked list between two sentinel nodes. The
// least recently used entry is right after head, the most recently used
// right before tail. Evictions take entries from the head side until the
// total weight fits the capacity.
//
//	  empty                                             empty
//	┌───────┐    ┌───────┐   ┌───────┐     ┌───────┐   ┌───────┐
//	│ HEAD  │◄──►│  LRU  │◄─►│       │◄───►│  MRU  │◄─►│ TAIL  │
//	└───────┘    └───────┘   └───────┘     └───────┘   └───────┘
//
// Removal callbacks run after the lock is released, in the goroutine that
// caused the removal.
type lru[V any] struct {
	items     map[Key]*node[V]
	capacity  int64
	weight    int64
	weigher   func(Key, V) int64
	onRemoval removalFunc[V]
	head      *node[V]
	tail      *node[V]
	mu        sync.Mutex
}

func newLRU[V any](capacity int64, weigher func(Key, V) int64, onRemoval removalFunc[V]) *lru[V] {
	head := &node[V]{}
	tail := &node[V]{}
	head.next = tail
	tail.prev = head
	if weigher == nil {
		weigher = func(Key, V) int64 { return 1 }
	}
	return &lru[V]{
		items:     make(map[Key]*node[V]),
		capacity:  capacity,
		weigher:   weigher,
		onRemoval: onRemoval,
		head:      head,
		tail:      tail,
	}
}

// putIfAbsent stores value unless key is present, in which case the
// present value is returned with loaded set. An entry heavier than the
// whole capacity is not stored.
func (c *lru[V]) putIfAbsent(key Key, value V) (existing V, loaded, stored bool) {
	w := c.weigher(key, value)

	c.mu.Lock()
	if n, ok := c.items[key]; ok {
		c.moveToBack(n)
		c.mu.Unlock()
		return n.value, true, false
	}
	if w > c.capacity {
		c.mu.Unlock()
		return existing, false, false
	}
	c.add(&node[V]{key: key, value: value, weight: w})
	var evicted []removal[V]
	for c.weight > c.capacity {
		n := c.head.next
		c.delete(n)
		evicted = append(evicted, removal[V]{key: n.key, value: n.value, weight: n.weight, cause: CauseSize})
	}
	c.mu.Unlock()

	c.notify(evicted)
	return existing, false, true
}

// get returns the value for key and marks it as most recently used.
func (c *lru[V]) get(key Key) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.items[key]
	if !ok {
		return value, false
	}
	c.moveToBack(n)
	return n.value, true
}

// contains reports whether key is present without touching its recency.
func (c *lru[V]) contains(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// remove deletes key, returning whether it was present.
func (c *lru[V]) remove(key Key) bool {
	c.mu.Lock()
	n, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return false
	}
	c.delete(n)
	c.mu.Unlock()

	c.notify([]removal[V]{{key: n.key, value: n.value, weight: n.weight, cause: CauseExplicit}})
	return true
}

// removeIf deletes all the entries whose key matches, returning how many
// were removed.
func (c *lru[V]) removeIf(match func(Key) bool) int {
	var removed []removal[V]
	c.mu.Lock()
	for n := c.head.next; n != c.tail; {
		next := n.next
		if match(n.key) {
			c.delete(n)
			removed = append(removed, removal[V]{key: n.key, value: n.value, weight: n.weight, cause: CauseExplicit})
		}
		n = next
	}
	c.mu.Unlock()

	c.notify(removed)
	return len(removed)
}

// clear deletes all the entries.
func (c *lru[V]) clear() int {
	return c.removeIf(func(Key) bool { return true })
}

func (c *lru[V]) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lru[V]) totalWeight() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weight
}

func (c *lru[V]) add(n *node[V]) {
	prev := c.tail.prev
	prev.next = n
	n.prev = prev
	n.next = c.tail
	c.tail.prev = n

	c.items[n.key] = n
	c.weight += n.weight
}

func (c *lru[V]) delete(n *node[V]) {
	n.prev.next, n.next.prev = n.next, n.prev
	n.next, n.prev = nil, nil // avoid memory leaks
	delete(c.items, n.key)
	c.weight -= n.weight
}

func (c *lru[V]) moveToBack(n *node[V]) {
	n.prev.next, n.next.prev = n.next, n.prev
	prev := c.tail.prev
	prev.next = n
	n.prev = prev
	n.next = c.tail
	c.tail.prev = n
}

func (c *lru[V]) notify(removed []removal[V]) {
	if c.onRemoval == nil {
		return
	}
	for _, r := range removed {
		c.onRemoval(r.key, r.value, r.weight, r.cause)
	}
}
