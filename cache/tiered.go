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
	"fmt"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/fluxcd/pkg/objectcache/codec"
	"github.com/fluxcd/pkg/objectcache/object"
)

// TieredCache is a SharedCache with two tiers.
//
// The hot tier keeps a bounded number of decoded objects, by default the
// trees, as they are slow to decode and read often. The cold tier keeps
// the encoded form of every object, bounded by its total weight in bytes.
//
// Objects put in the cache always end up encoded in the cold tier, the
// encoding running on a WriteBackPool. Hot tier entries evicted for space
// are written back to the cold tier if missing, entries removed by an
// invalidation are not. Cold tier hits for hot tier objects are promoted
// back into the hot tier.
type TieredCache struct {
	maxBytes    int64
	hot         *lru[object.Object]
	cold        *coldTier
	tracker     SizeTracker
	codec       atomic.Pointer[codecRef]
	hotEligible func(object.Object) bool
	pool        *WriteBackPool
	pending     *pending
	log         logr.Logger
	metrics     *Metrics
}

type codecRef struct {
	codec.Codec
}

var _ SharedCache = &TieredCache{}

// Build returns a shared cache holding at most maxBytes in its cold tier.
// A zero size returns the disabled cache, a negative one an error.
func Build(maxBytes int64, opts ...Options) (SharedCache, error) {
	if maxBytes < 0 {
		return nil, &CacheError{
			Reason: ErrInvalidArgument,
			Err:    fmt.Errorf("cache size can't be < 0, 0 meaning no cache at all, got %d", maxBytes),
		}
	}
	o, err := makeOptions(opts...)
	if err != nil {
		return nil, &CacheError{Reason: ErrInvalidArgument, Err: fmt.Errorf("failed to apply options: %w", err)}
	}
	if maxBytes == 0 {
		return NoCache(), nil
	}
	return newTieredCache(maxBytes, o)
}

// NewTieredCache returns a two tier cache holding at most maxBytes, which
// must be positive.
func NewTieredCache(maxBytes int64, opts ...Options) (*TieredCache, error) {
	if maxBytes <= 0 {
		return nil, &CacheError{
			Reason: ErrInvalidArgument,
			Err:    fmt.Errorf("cache size must be > 0, got %d", maxBytes),
		}
	}
	o, err := makeOptions(opts...)
	if err != nil {
		return nil, &CacheError{Reason: ErrInvalidArgument, Err: fmt.Errorf("failed to apply options: %w", err)}
	}
	return newTieredCache(maxBytes, o)
}

func newTieredCache(maxBytes int64, o *buildOptions) (*TieredCache, error) {
	if o.codec == nil {
		c, err := codec.NewCBOR()
		if err != nil {
			return nil, err
		}
		o.codec = c
	}
	if o.pool == nil {
		o.pool = defaultWriteBackPool()
	}

	c := &TieredCache{
		maxBytes:    maxBytes,
		hotEligible: o.hotPredicate,
		pool:        o.pool,
		pending:     newPending(),
		log:         o.log,
		metrics:     o.metrics,
	}
	c.codec.Store(&codecRef{o.codec})
	c.hot = newLRU(int64(o.hotCapacity), nil, c.onHotRemoval)
	c.cold = newColdTier(maxBytes, o.concurrency, c.onColdRemoval)
	return c, nil
}

// MaxBytes returns the capacity of the cold tier.
func (c *TieredCache) MaxBytes() int64 {
	return c.maxBytes
}

// Codec returns the codec in use.
func (c *TieredCache) Codec() codec.Codec {
	return c.codec.Load().Codec
}

// SetCodec replaces the codec. Entries encoded with the previous codec
// that the new one can't decode are dropped when read.
func (c *TieredCache) SetCodec(cd codec.Codec) {
	if cd == nil {
		return
	}
	c.codec.Store(&codecRef{cd})
}

func (c *TieredCache) Contains(key Key) bool {
	return c.hot.contains(key) || c.cold.contains(key)
}

// GetIfPresent looks up the hot tier first, then the cold tier. Only the
// cold tier lookup is counted in the statistics.
func (c *TieredCache) GetIfPresent(key Key) (object.Object, bool) {
	if obj, ok := c.hot.get(key); ok {
		return obj, true
	}

	data, ok := c.cold.get(key)
	if !ok {
		recordEvent(c.metrics, CacheEventTypeMiss)
		return nil, false
	}
	recordEvent(c.metrics, CacheEventTypeHit)

	obj, err := c.Codec().Decode(key.ID(), data)
	if err != nil {
		err = &CacheError{Reason: ErrDecode, Err: err}
		c.log.Error(err, "dropping unreadable cache entry", "key", key)
		c.cold.remove(key)
		return nil, false
	}
	if c.hotEligible(obj) {
		c.putHot(key, obj)
	}
	return obj, true
}

// Put stores obj under key. Hot tier objects are stored decoded right away,
// and every object is scheduled for insertion into the cold tier unless
// already there.
func (c *TieredCache) Put(key Key, obj object.Object) *WriteBack {
	if obj == nil {
		return nil
	}
	if c.hotEligible(obj) {
		// Whether the hot tier already held it or not, its eviction may have
		// happened before the cold tier got it.
		c.putHot(key, obj)
	}
	return c.writeBack(key, obj)
}

func (c *TieredCache) putHot(key Key, obj object.Object) {
	if _, _, stored := c.hot.putIfAbsent(key, obj); stored {
		recordItems(c.metrics, TierHot, 1)
	}
}

func (c *TieredCache) writeBack(key Key, obj object.Object) *WriteBack {
	if c.cold.contains(key) {
		return nil
	}
	c.pending.add()
	wb, inline := c.pool.submit(func() error {
		defer c.pending.done()
		return c.insertCold(key, obj)
	})
	if inline {
		recordCallerRuns(c.metrics)
	}
	return wb
}

func (c *TieredCache) insertCold(key Key, obj object.Object) error {
	if c.cold.contains(key) {
		return nil
	}
	data, err := c.Codec().Encode(obj)
	if err != nil {
		recordWriteBack(c.metrics, StatusFailure)
		err = &CacheError{Reason: ErrEncode, Err: err}
		c.log.Error(err, "write-back failed", "key", key, "type", obj.Type())
		return err
	}
	if c.cold.putIfAbsent(key, data) {
		w := weigh(key, data)
		c.tracker.Inserted(w)
		recordBytes(c.metrics, w)
		recordItems(c.metrics, TierCold, 1)
	}
	recordWriteBack(c.metrics, StatusSuccess)
	return nil
}

func (c *TieredCache) onHotRemoval(key Key, obj object.Object, _ int64, cause RemovalCause) {
	recordItems(c.metrics, TierHot, -1)
	if cause != CauseSize {
		return
	}
	recordEviction(c.metrics, TierHot)
	c.writeBack(key, obj)
}

func (c *TieredCache) onColdRemoval(_ Key, _ []byte, weight int64, cause RemovalCause) {
	c.tracker.Removed(weight)
	recordBytes(c.metrics, -weight)
	recordItems(c.metrics, TierCold, -1)
	if cause == CauseSize {
		recordEviction(c.metrics, TierCold)
	}
}

// Invalidate removes key from both tiers, without writing it back.
func (c *TieredCache) Invalidate(key Key) {
	c.hot.remove(key)
	c.cold.remove(key)
}

// InvalidateTenant scans both tiers for the keys of the tenant, once the
// pending write-backs completed so none of them can insert a key of the
// tenant after the scan. The cost is proportional to the number of cached
// objects, not to the share of the tenant.
func (c *TieredCache) InvalidateTenant(id Identifier) {
	c.pending.wait()
	prefix := id.Prefix()
	match := func(k Key) bool { return k.Prefix() == prefix }
	hot := c.hot.removeIf(match)
	cold := c.cold.removeIf(match)
	c.log.V(1).Info("invalidated tenant", "prefix", prefix, "hot", hot, "cold", cold)
}

func (c *TieredCache) InvalidateAll() {
	c.hot.clear()
	c.cold.clear()
}

func (c *TieredCache) Cleanup() {
	c.pending.wait()
}

func (c *TieredCache) SizeBytes() int64 {
	return c.tracker.Size()
}

func (c *TieredCache) ObjectCount() int64 {
	return int64(c.cold.len())
}

// HotCount returns the number of objects in the hot tier.
func (c *TieredCache) HotCount() int {
	return c.hot.len()
}

func (c *TieredCache) Stats() Stats {
	return c.cold.stats()
}

func (c *TieredCache) String() string {
	count := c.ObjectCount()
	size := c.SizeBytes()
	var avg int64
	if count > 0 {
		avg = size / count
	}
	return fmt.Sprintf("Size: %d, bytes: %d, avg: %d bytes/entry, %s", count, size, avg, c.Stats())
}
