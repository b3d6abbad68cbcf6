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

	"github.com/fluxcd/pkg/objectcache/object"
)

// Key identifies a cache slot: the tenant prefix plus the content hash,
// held as three words so keys compare and hash without touching the
// hash bytes.
//
// Key is comparable and can be used as a map key. Two keys are equal only
// if their prefixes and all three words are equal.
type Key struct {
	prefix int32
	w1     int32
	w2     int64
	w3     int64
}

// NewKey returns the key for id under the tenant prefix.
func NewKey(prefix int32, id object.ID) Key {
	w1, w2, w3 := object.Words(id)
	return Key{prefix: prefix, w1: w1, w2: w2, w3: w3}
}

// Prefix returns the tenant prefix of the key.
func (k Key) Prefix() int32 {
	return k.prefix
}

// ID returns the content hash of the key.
func (k Key) ID() object.ID {
	return object.FromWords(k.w1, k.w2, k.w3)
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.prefix, k.ID())
}

// hash mixes all the key words into a value suitable for picking a shard.
func (k Key) hash() uint64 {
	const m = 0x9e3779b97f4a7c15
	h := uint64(uint32(k.prefix))
	h = (h ^ uint64(uint32(k.w1))) * m
	h = (h ^ uint64(k.w2)) * m
	h = (h ^ uint64(k.w3)) * m
	return h ^ (h >> 29)
}

// Identifier creates the keys of one tenant.
type Identifier struct {
	prefix int32
}

// NewIdentifier returns an identifier for the tenant prefix.
func NewIdentifier(prefix int32) Identifier {
	return Identifier{prefix: prefix}
}

// Prefix returns the tenant prefix.
func (i Identifier) Prefix() int32 {
	return i.prefix
}

// Create returns the key of id for this tenant.
func (i Identifier) Create(id object.ID) Key {
	return NewKey(i.prefix, id)
}

func (i Identifier) String() string {
	return fmt.Sprintf("Identifier[%d]", i.prefix)
}
