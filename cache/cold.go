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
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const (
	// EstimatedKeySize is the weight added to every cold tier entry to
	// account for its key and bookkeeping.
	EstimatedKeySize = 32

	// minShardBytes is the smallest capacity given to a cold tier shard.
	minShardBytes = 1 << 20
)

// weigh returns the weight of an encoded entry.
func weigh(_ Key, data []byte) int64 {
	return EstimatedKeySize + int64(len(data))
}

// coldTier holds encoded objects in shards, each an lru bounded by an
// equal share of the total byte budget. Lookups through get are counted in
// the tier statistics.
type coldTier struct {
	shards    []*lru[[]byte]
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// newColdTier returns a cold tier of at most maxBytes. The shard count is
// lowered as needed so that every shard gets at least minShardBytes.
func newColdTier(maxBytes int64, concurrency int, onRemoval removalFunc[[]byte]) *coldTier {
	n := int64(concurrency)
	if limit := maxBytes / minShardBytes; n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}

	t := &coldTier{shards: make([]*lru[[]byte], n)}
	listener := func(key Key, value []byte, weight int64, cause RemovalCause) {
		if cause == CauseSize {
			t.evictions.Add(1)
		}
		if onRemoval != nil {
			onRemoval(key, value, weight, cause)
		}
	}
	for i := range t.shards {
		capacity := maxBytes / n
		if int64(i) < maxBytes%n {
			capacity++
		}
		t.shards[i] = newLRU(capacity, weigh, listener)
	}
	return t
}

func (t *coldTier) shard(key Key) *lru[[]byte] {
	return t.shards[key.hash()%uint64(len(t.shards))]
}

func (t *coldTier) get(key Key) ([]byte, bool) {
	data, ok := t.shard(key).get(key)
	if ok {
		t.hits.Add(1)
	} else {
		t.misses.Add(1)
	}
	return data, ok
}

func (t *coldTier) contains(key Key) bool {
	return t.shard(key).contains(key)
}

func (t *coldTier) putIfAbsent(key Key, data []byte) bool {
	_, _, stored := t.shard(key).putIfAbsent(key, data)
	return stored
}

func (t *coldTier) remove(key Key) bool {
	return t.shard(key).remove(key)
}

// removeIf scans all the shards in parallel.
func (t *coldTier) removeIf(match func(Key) bool) int {
	var removed atomic.Int64
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, s := range t.shards {
		g.Go(func() error {
			removed.Add(int64(s.removeIf(match)))
			return nil
		})
	}
	_ = g.Wait()
	return int(removed.Load())
}

func (t *coldTier) clear() {
	for _, s := range t.shards {
		s.clear()
	}
}

func (t *coldTier) len() int {
	var n int
	for _, s := range t.shards {
		n += s.len()
	}
	return n
}

func (t *coldTier) stats() Stats {
	return Stats{
		HitCount:      t.hits.Load(),
		MissCount:     t.misses.Load(),
		EvictionCount: t.evictions.Load(),
	}
}

// SizeTracker keeps the running total of the bytes held by a cold tier.
type SizeTracker struct {
	size atomic.Int64
}

// Inserted accounts for a new entry of the given weight.
func (t *SizeTracker) Inserted(weight int64) {
	t.size.Add(weight)
}

// Removed accounts for an entry of the given weight leaving the tier.
func (t *SizeTracker) Removed(weight int64) {
	t.size.Add(-weight)
}

// Size returns the current total.
func (t *SizeTracker) Size() int64 {
	return t.size.Load()
}
