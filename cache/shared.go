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
	"github.com/fluxcd/pkg/objectcache/codec"
	"github.com/fluxcd/pkg/objectcache/object"
)

// SharedCache is an object cache shared by all the tenants of a process.
// Tenants are told apart by the prefix of the keys.
type SharedCache interface {
	// Contains reports whether key is present in either tier. It is not
	// counted in the statistics.
	Contains(key Key) bool
	// GetIfPresent returns the object stored under key.
	GetIfPresent(key Key) (object.Object, bool)
	// Put stores obj under key. The returned handle completes when the
	// encoded object is in the cold tier, it is nil if nothing had to be
	// scheduled.
	Put(key Key, obj object.Object) *WriteBack
	// Invalidate removes key.
	Invalidate(key Key)
	// InvalidateTenant removes all the keys with the prefix of id.
	InvalidateTenant(id Identifier)
	// InvalidateAll removes all the keys.
	InvalidateAll()
	// Cleanup waits for the pending write-backs.
	Cleanup()
	// SetCodec replaces the codec used for new cold tier entries.
	SetCodec(c codec.Codec)
	// SizeBytes returns the weight of the cold tier.
	SizeBytes() int64
	// ObjectCount returns the number of objects in the cold tier.
	ObjectCount() int64
	// Stats returns the lookup statistics.
	Stats() Stats
	String() string
}

// NoCache returns a disabled cache: every lookup misses and every
// mutation is ignored.
func NoCache() SharedCache {
	return noCache{}
}

// IsDisabled reports whether c is the disabled cache.
func IsDisabled(c SharedCache) bool {
	_, ok := c.(noCache)
	return ok
}

type noCache struct{}

func (noCache) Contains(Key) bool                      { return false }
func (noCache) GetIfPresent(Key) (object.Object, bool) { return nil, false }
func (noCache) Put(Key, object.Object) *WriteBack      { return nil }
func (noCache) Invalidate(Key)                         {}
func (noCache) InvalidateTenant(Identifier)            {}
func (noCache) InvalidateAll()                         {}
func (noCache) Cleanup()                               {}
func (noCache) SetCodec(codec.Codec)                   {}
func (noCache) SizeBytes() int64                       { return 0 }
func (noCache) ObjectCount() int64                     { return 0 }
func (noCache) Stats() Stats                           { return Stats{} }
func (noCache) String() string                         { return "NoCache" }
