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

package manager

import (
	"sync"

	"github.com/fluxcd/pkg/objectcache/cache"
)

// connections hands out a single ObjectCache per tenant for as long as
// it has references, disconnecting it when the last one is released.
type connections struct {
	mu         sync.Mutex
	conns      map[cache.Identifier]*connection
	connect    func(cache.Identifier) *cache.ObjectCache
	disconnect func(*cache.ObjectCache)
}

type connection struct {
	cache *cache.ObjectCache
	refs  int
}

func newConnections(connect func(cache.Identifier) *cache.ObjectCache, disconnect func(*cache.ObjectCache)) *connections {
	return &connections{
		conns:      make(map[cache.Identifier]*connection),
		connect:    connect,
		disconnect: disconnect,
	}
}

func (p *connections) acquire(id cache.Identifier) *cache.ObjectCache {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.conns[id]
	if !ok {
		c = &connection{cache: p.connect(id)}
		p.conns[id] = c
	}
	c.refs++
	return c.cache
}

// release drops a reference to oc. It returns false if oc is not a
// connected cache, which leaves the pool untouched.
func (p *connections) release(oc *cache.ObjectCache) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.conns[oc.Identifier()]
	if !ok || c.cache != oc {
		return false
	}
	c.refs--
	if c.refs == 0 {
		delete(p.conns, oc.Identifier())
		// The tenant can't be connected again before its entries are gone.
		p.disconnect(oc)
	}
	return true
}

// refs returns the number of references to the tenant of id.
func (p *connections) refs(id cache.Identifier) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.conns[id]; ok {
		return c.refs
	}
	return 0
}

// len returns the number of connected tenants.
func (p *connections) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.conns)
}
