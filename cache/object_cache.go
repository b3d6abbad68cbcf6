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
	"github.com/fluxcd/pkg/objectcache/object"
)

// ObjectCache is the view of a shared cache for a single tenant. It holds
// no data: every call qualifies the object id with the tenant prefix and
// goes to the shared cache current at the time of the call.
type ObjectCache struct {
	id     Identifier
	shared func() SharedCache
}

// NewObjectCache returns the view of the caches returned by shared for the
// tenant of id.
func NewObjectCache(id Identifier, shared func() SharedCache) *ObjectCache {
	return &ObjectCache{id: id, shared: shared}
}

// Identifier returns the key factory of the tenant.
func (c *ObjectCache) Identifier() Identifier {
	return c.id
}

// Prefix returns the tenant prefix.
func (c *ObjectCache) Prefix() int32 {
	return c.id.Prefix()
}

func (c *ObjectCache) Contains(id object.ID) bool {
	return c.shared().Contains(c.id.Create(id))
}

func (c *ObjectCache) GetIfPresent(id object.ID) (object.Object, bool) {
	return c.shared().GetIfPresent(c.id.Create(id))
}

// Put stores obj under its own id.
func (c *ObjectCache) Put(obj object.Object) *WriteBack {
	if obj == nil {
		return nil
	}
	return c.shared().Put(c.id.Create(obj.ID()), obj)
}

func (c *ObjectCache) Invalidate(id object.ID) {
	c.shared().Invalidate(c.id.Create(id))
}

// InvalidateAll removes all the objects of the tenant.
func (c *ObjectCache) InvalidateAll() {
	c.shared().InvalidateTenant(c.id)
}
