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

// Package cache provides a two tier, size bounded cache of immutable, content
// addressed objects, shared by any number of tenants within a process.
//
// Keys are made of a tenant prefix and an object id. Each tenant gets an
// Identifier creating its keys, and an ObjectCache view that qualifies
// object ids on its behalf:
//
//	shared, err := cache.Build(512 << 20)
//	// Handle any error.
//	...
//	repo := cache.NewObjectCache(cache.NewIdentifier(1), func() cache.SharedCache { return shared })
//	repo.Put(tree)
//	obj, ok := repo.GetIfPresent(tree.ID())
//
// The hot tier keeps recently used trees decoded, the cold tier keeps every
// object encoded with a codec and is bounded by its weight in bytes. Writes
// to the cold tier are asynchronous: Put returns a WriteBack that can be
// waited on when the write must be visible.
//
// The cache is self-instrumenting when configured with Metrics:
//
//	shared, err := cache.Build(512<<20, cache.WithMetrics(cache.NewMetrics(reg, "gotk_")))
package cache
