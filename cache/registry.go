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
	"os"
	"sort"
	"sync"
)

const (
	// DefaultBuilder is the builder used when none is configured.
	DefaultBuilder = "tiered"
	// DisabledBuilder is the builder of the disabled cache.
	DisabledBuilder = "none"
	// BuilderEnv is the environment variable naming the builder to use.
	BuilderEnv = "SHARED_CACHE_BUILDER"
)

// Builder creates a shared cache of the given size.
type Builder func(maxBytes int64, opts ...Options) (SharedCache, error)

var (
	buildersMu sync.RWMutex
	builders   = map[string]Builder{
		DefaultBuilder:  Build,
		DisabledBuilder: buildDisabled,
	}
)

// buildDisabled returns the disabled cache whatever the size.
func buildDisabled(maxBytes int64, _ ...Options) (SharedCache, error) {
	if maxBytes < 0 {
		return nil, &CacheError{Reason: ErrInvalidArgument, Err: fmt.Errorf("cache size can't be < 0, got %d", maxBytes)}
	}
	return NoCache(), nil
}

// RegisterBuilder makes a shared cache implementation available under name.
func RegisterBuilder(name string, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[name] = b
}

// LookupBuilder returns the builder registered under name.
func LookupBuilder(name string) (Builder, error) {
	buildersMu.RLock()
	b, ok := builders[name]
	buildersMu.RUnlock()
	if !ok {
		return nil, &CacheError{
			Reason: ErrUnknownBuilder,
			Err:    fmt.Errorf("no builder named %q, available: %v", name, BuilderNames()),
		}
	}
	return b, nil
}

// BuilderNames returns the sorted names of the registered builders.
func BuilderNames() []string {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectBuilder returns flag if not empty, otherwise the value of the
// BuilderEnv environment variable if set, otherwise DefaultBuilder.
func SelectBuilder(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(BuilderEnv); env != "" {
		return env
	}
	return DefaultBuilder
}
