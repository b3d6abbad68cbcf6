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

package codec

import (
	"fmt"
	"os"
	"sort"
	"sync"
)

const (
	// DefaultName is the codec used when none is configured.
	DefaultName = CBORName
	// EnvName is the environment variable naming the codec to use.
	EnvName = "SHARED_CACHE_CODEC"
)

// Factory constructs a codec.
type Factory func() (Codec, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		CBORName: NewCBOR,
		JSONName: NewJSON,
	}
)

// Register makes a codec available under name, replacing any codec
// previously registered under the same name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Lookup returns a new instance of the codec registered under name.
func Lookup(name string) (Codec, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q, available: %v", ErrUnknownCodec, name, Names())
	}
	return f()
}

// Names returns the sorted names of all the registered codecs.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the codec named by flag if not empty, otherwise by the
// EnvName environment variable if set, otherwise the default codec.
func Resolve(flag string) (Codec, error) {
	return Lookup(SelectName(flag))
}

// SelectName returns the codec name Resolve would look up.
func SelectName(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvName); env != "" {
		return env
	}
	return DefaultName
}
