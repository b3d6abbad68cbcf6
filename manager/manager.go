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
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/fluxcd/pkg/objectcache/cache"
	"github.com/fluxcd/pkg/objectcache/codec"
)

// Manager hands out per tenant views of a single shared object cache, and
// controls the size of that cache.
//
// Tenants acquire an ObjectCache with a string that uniquely identifies the
// resources they operate upon, and must release it once done with it:
//
//	c := m.Acquire("/data/repos/roads")
//	defer m.Release(c)
//
// Each tenant string is given a key prefix the first time it is acquired,
// kept for the lifetime of the Manager. When the last reference of a tenant
// is released its objects are removed from the shared cache.
//
// The shared cache is built on first use, with the size given by the
// options, the environment or by default a quarter of the memory limit.
// SetMaximumSize replaces it with an empty cache of the new size.
type Manager struct {
	opts        Options
	log         logr.Logger
	memoryLimit int64
	metrics     *cache.Metrics

	// mu serializes the builds of the shared cache.
	mu           sync.Mutex
	shared       atomic.Pointer[sharedRef]
	resolvedSize int64
	codec        codec.Codec
	currentSize  atomic.Int64

	conns *connections
	ids   sync.Map
	seq   atomic.Int32
}

type sharedRef struct {
	cache.SharedCache
}

// New returns a Manager configured with opts. The shared cache is only
// built on first use.
func New(opts Options) *Manager {
	m := &Manager{
		opts:         opts,
		log:          opts.Logger,
		memoryLimit:  opts.MemoryLimit,
		resolvedSize: -1,
	}
	if m.log.GetSink() == nil {
		m.log = logr.Discard()
	}
	if m.memoryLimit <= 0 {
		m.memoryLimit = MemoryLimit()
	}
	m.currentSize.Store(-1)
	m.conns = newConnections(m.connect, m.disconnect)
	if opts.Registerer != nil {
		m.metrics = cache.NewMetrics(opts.Registerer, opts.MetricsPrefix)
		m.registerMetrics()
	}
	return m
}

// Acquire returns the cache of tenant. Acquisitions of the same tenant
// return the same ObjectCache until all of them are released.
func (m *Manager) Acquire(tenant string) *cache.ObjectCache {
	return m.conns.acquire(m.identifier(tenant))
}

// Release returns c, obtained with Acquire, to the Manager. Once all the
// acquisitions of a tenant are released, its objects are removed from the
// cache and the next Acquire returns a new ObjectCache.
func (m *Manager) Release(c *cache.ObjectCache) {
	if c == nil {
		return
	}
	if !m.conns.release(c) {
		m.log.V(1).Info("ignoring release of a cache that is not acquired", "prefix", c.Prefix())
	}
}

// Identifier returns the key factory assigned to tenant, if any.
func (m *Manager) Identifier(tenant string) (cache.Identifier, bool) {
	v, ok := m.ids.Load(tenant)
	if !ok {
		return cache.Identifier{}, false
	}
	return v.(cache.Identifier), true
}

// Tenants returns the number of tenants with an acquired cache.
func (m *Manager) Tenants() int {
	return m.conns.len()
}

func (m *Manager) identifier(tenant string) cache.Identifier {
	if id, ok := m.Identifier(tenant); ok {
		return id
	}
	id := cache.NewIdentifier(m.seq.Add(1))
	actual, _ := m.ids.LoadOrStore(tenant, id)
	return actual.(cache.Identifier)
}

func (m *Manager) connect(id cache.Identifier) *cache.ObjectCache {
	return cache.NewObjectCache(id, m.sharedCache)
}

func (m *Manager) disconnect(c *cache.ObjectCache) {
	c.InvalidateAll()
}

// sharedCache returns the current shared cache, building it on first use.
func (m *Manager) sharedCache() cache.SharedCache {
	if ref := m.shared.Load(); ref != nil {
		return ref.SharedCache
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if ref := m.shared.Load(); ref != nil {
		return ref.SharedCache
	}
	size := m.resolveDefaultMaxSize()
	if err := m.setMaximumSize(size); err != nil {
		m.log.Error(err, "unable to build the shared object cache, cache is disabled")
		m.swap(cache.NoCache(), 0)
	}
	return m.shared.Load().SharedCache
}

// resolveDefaultMaxSize returns the configured cache size: the first of
// the options and the environment holding a valid size within the
// absolute maximum, otherwise DefaultSizePercent of the memory limit.
// It must be called with mu held.
func (m *Manager) resolveDefaultMaxSize() int64 {
	if m.resolvedSize != -1 {
		return m.resolvedSize
	}
	absolute := AbsoluteMaximumSize(m.memoryLimit)
	sources := []struct {
		name  string
		value string
	}{
		{name: "flag --" + flagMaxSize, value: m.opts.MaxSize},
		{name: "environment variable " + EnvMaxSize, value: maxSizeEnv()},
	}
	for _, src := range sources {
		size, err := ParseSize(src.value, m.memoryLimit)
		if err != nil {
			m.log.Error(err, "unable to parse the object cache size, falling back",
				"source", src.name, "value", src.value)
			continue
		}
		if size == -1 {
			continue
		}
		if size > absolute {
			m.log.Info("object cache size is too big, falling back",
				"source", src.name, "size", size, "maximum", absolute)
			continue
		}
		m.log.Info("configuring the shared object cache maximum size",
			"source", src.name, "value", src.value, "size", size)
		m.resolvedSize = size
		return size
	}

	size, _ := SizePercent(DefaultSizePercent, m.memoryLimit)
	m.log.Info("configuring the shared object cache maximum size to the default share of the memory limit",
		"percent", DefaultSizePercent, "size", size, "memoryLimit", m.memoryLimit)
	m.resolvedSize = size
	return size
}

// SetMaximumSize replaces the shared cache with an empty one of the given
// size, between 0 and the absolute maximum. A size of 0 disables the cache.
// The objects of the previous cache are dropped.
func (m *Manager) SetMaximumSize(size int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setMaximumSize(size)
}

// SetMaximumSizePercent sets the size of the cache as a share of the
// memory limit.
func (m *Manager) SetMaximumSizePercent(percent float64) error {
	size, err := SizePercent(percent, m.memoryLimit)
	if err != nil {
		return err
	}
	return m.SetMaximumSize(size)
}

// SetMaximumSizeMB sets the size of the cache in mebibytes.
func (m *Manager) SetMaximumSizeMB(mb float64) error {
	return m.SetMaximumSize(int64(mb * mib))
}

func (m *Manager) setMaximumSize(size int64) error {
	absolute := AbsoluteMaximumSize(m.memoryLimit)
	if size < 0 || size > absolute {
		return invalidArgument("cache max size must be between 0 and %d, got %d", absolute, size)
	}

	if size == 0 {
		m.swap(cache.NoCache(), 0)
		m.log.Info("shared object cache disabled")
		return nil
	}

	name := cache.SelectBuilder(m.opts.Builder)
	builder, err := cache.LookupBuilder(name)
	if err != nil {
		m.log.Error(err, "no shared cache implementation found, cache is disabled", "builder", name)
		m.swap(cache.NoCache(), 0)
		return nil
	}
	if m.codec == nil {
		c, err := codec.Resolve(m.opts.Codec)
		if err != nil {
			m.log.Error(err, "no codec found, cache is disabled", "codec", codec.SelectName(m.opts.Codec))
			m.swap(cache.NoCache(), 0)
			return nil
		}
		m.codec = c
	}

	opts := []cache.Options{
		cache.WithCodec(m.codec),
		cache.WithLogger(m.log.WithName("shared-cache")),
		cache.WithMetrics(m.metrics),
	}
	shared, err := builder(size, append(opts, m.opts.CacheOptions...)...)
	if err != nil {
		return fmt.Errorf("failed to build shared cache %q: %w", name, err)
	}
	m.swap(shared, size)
	m.log.Info("initialized shared object cache", "builder", name, "codec", m.codec.Name(),
		"implementation", fmt.Sprintf("%T", shared), "size", size)
	return nil
}

// swap makes shared the current cache and empties the previous one.
func (m *Manager) swap(shared cache.SharedCache, size int64) {
	old := m.shared.Swap(&sharedRef{shared})
	m.currentSize.Store(size)
	if old != nil {
		old.InvalidateAll()
	}
}

// SetCodec replaces the codec of the shared cache and of the caches built
// after it.
func (m *Manager) SetCodec(c codec.Codec) {
	if c == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codec = c
	if ref := m.shared.Load(); ref != nil {
		ref.SetCodec(c)
	}
}

// Close empties the shared cache and drops it, once its pending write-backs
// completed. The Manager remains usable and builds a new cache on next use.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	old := m.shared.Swap(nil)
	m.currentSize.Store(-1)
	if old != nil {
		old.Cleanup()
		old.InvalidateAll()
	}
}

// MemoryLimit returns the memory budget sizes are relative to.
func (m *Manager) MemoryLimit() int64 {
	return m.memoryLimit
}
