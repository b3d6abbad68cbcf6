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
	"errors"
	"fmt"
	"runtime"

	"github.com/go-logr/logr"

	"github.com/fluxcd/pkg/objectcache/codec"
	"github.com/fluxcd/pkg/objectcache/object"
)

// DefaultHotTierCapacity is the default number of decoded objects kept in
// the hot tier.
const DefaultHotTierCapacity = 10_000

type buildOptions struct {
	codec        codec.Codec
	log          logr.Logger
	metrics      *Metrics
	hotCapacity  int
	hotPredicate func(object.Object) bool
	concurrency  int
	pool         *WriteBackPool
}

// Options is a function that sets the shared cache build options.
type Options func(*buildOptions) error

func makeOptions(opts ...Options) (*buildOptions, error) {
	o := &buildOptions{
		log:          logr.Discard(),
		hotCapacity:  DefaultHotTierCapacity,
		hotPredicate: object.IsTree,
		concurrency:  4 * runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithCodec sets the codec used to encode objects into the cold tier.
// Defaults to CBOR.
func WithCodec(c codec.Codec) Options {
	return func(o *buildOptions) error {
		if c == nil {
			return errors.New("codec can't be nil")
		}
		o.codec = c
		return nil
	}
}

// WithLogger sets the logger of the cache.
func WithLogger(log logr.Logger) Options {
	return func(o *buildOptions) error {
		o.log = log
		return nil
	}
}

// WithMetrics sets the metrics recorded by the cache.
func WithMetrics(m *Metrics) Options {
	return func(o *buildOptions) error {
		o.metrics = m
		return nil
	}
}

// WithHotTierCapacity sets the number of decoded objects kept in the hot
// tier. Zero disables the hot tier.
func WithHotTierCapacity(n int) Options {
	return func(o *buildOptions) error {
		if n < 0 {
			return fmt.Errorf("hot tier capacity can't be < 0, got %d", n)
		}
		o.hotCapacity = n
		return nil
	}
}

// WithHotTierPredicate sets which objects are kept decoded in the hot
// tier. Defaults to trees.
func WithHotTierPredicate(fn func(object.Object) bool) Options {
	return func(o *buildOptions) error {
		if fn == nil {
			return errors.New("hot tier predicate can't be nil")
		}
		o.hotPredicate = fn
		return nil
	}
}

// WithConcurrencyLevel sets the number of independently locked shards of
// the cold tier.
func WithConcurrencyLevel(n int) Options {
	return func(o *buildOptions) error {
		if n < 1 {
			return fmt.Errorf("concurrency level must be > 0, got %d", n)
		}
		o.concurrency = n
		return nil
	}
}

// WithWriteBackPool sets the pool running cold tier insertions. Defaults
// to a pool shared by the whole process.
func WithWriteBackPool(p *WriteBackPool) Options {
	return func(o *buildOptions) error {
		o.pool = p
		return nil
	}
}
