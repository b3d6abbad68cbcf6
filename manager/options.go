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
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/fluxcd/pkg/objectcache/cache"
	"github.com/fluxcd/pkg/objectcache/codec"
)

const (
	flagMaxSize = "object-cache-max-size"
	flagBuilder = "object-cache-builder"
	flagCodec   = "object-cache-codec"

	// EnvMaxSize is the environment variable holding the cache size, read
	// when the flag is not set.
	EnvMaxSize = "OBJECT_CACHE_MAX_SIZE"
)

// Options contains the configuration of a Manager.
//
// The size, builder and codec are usually bound to the flag set of the
// program, the rest is set by the program itself:
//
//	var opts manager.Options
//	opts.BindFlags(pflag.CommandLine)
//	pflag.Parse()
//
//	opts.Logger = log
//	opts.Registerer = prometheus.DefaultRegisterer
//	m := manager.New(opts)
type Options struct {
	// MaxSize is the size of the shared cache, in the format accepted by
	// ParseSize. When empty the EnvMaxSize environment variable is used,
	// and then a quarter of the memory limit.
	MaxSize string
	// Builder is the name of the shared cache implementation. When empty
	// the cache.BuilderEnv environment variable is used, and then
	// cache.DefaultBuilder.
	Builder string
	// Codec is the name of the codec of the shared cache. When empty the
	// codec.EnvName environment variable is used, and then the default
	// codec.
	Codec string

	// MemoryLimit is the memory budget cache sizes are relative to.
	// Detected with MemoryLimit when zero.
	MemoryLimit int64
	// Logger defaults to a discarding logger.
	Logger logr.Logger
	// Registerer enables the cache metrics when set.
	Registerer prometheus.Registerer
	// MetricsPrefix is prepended to the names of all the metrics.
	MetricsPrefix string
	// CacheOptions are passed on to the builder of every shared cache.
	CacheOptions []cache.Options
}

// BindFlags will parse the given pflag.FlagSet for cache option flags and set the Options accordingly.
func (o *Options) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.MaxSize, flagMaxSize, "",
		"Maximum size of the shared object cache, as a fraction of the memory limit between 0 and 0.9 (e.g. '0.25') "+
			"or an amount of bytes with an optional B, K, M or G unit (e.g. '512M'). "+
			"Defaults to $"+EnvMaxSize+", then 25% of the memory limit. '0' disables the cache.")
	fs.StringVar(&o.Builder, flagBuilder, "",
		"Name of the shared object cache implementation. Defaults to $"+cache.BuilderEnv+", then '"+cache.DefaultBuilder+"'.")
	fs.StringVar(&o.Codec, flagCodec, "",
		"Name of the codec used to encode cached objects. Defaults to $"+codec.EnvName+", then '"+codec.DefaultName+"'.")
}

func maxSizeEnv() string {
	return os.Getenv(EnvMaxSize)
}
