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
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fluxcd/pkg/objectcache/cache"
)

const (
	// DefaultSizePercent is the share of the memory limit used when no
	// size is configured.
	DefaultSizePercent = 0.25
	// MaxSizePercent is the largest share of the memory limit the cache
	// can be given.
	MaxSizePercent = 0.9

	mib = 1024 * 1024
)

var (
	sizePattern = regexp.MustCompile(`^([+-]?[\d.]+)([GMKB]?)(.*)$`)
	unitPowers  = map[string]float64{"": 0, "B": 0, "K": 1, "M": 2, "G": 3}
)

// ParseSize parses a cache size relative to memoryLimit.
//
// The accepted formats are:
//
//   - a number between 0 and 1 without unit, the fraction of memoryLimit
//     (e.g. "0", "0.5", ".25"), limited to MaxSizePercent
//   - a number with an optional unit B, K, M or G, in any case, the size in
//     bytes, kibibytes, mebibytes or gibibytes (e.g. "1024", "1024b", "1.5K", "2g")
//
// A number without unit is a fraction whenever it is at most 1, so "1" is
// the whole memoryLimit and rejected. An empty arg returns -1, meaning no
// size was given.
func ParseSize(arg string, memoryLimit int64) (int64, error) {
	if arg == "" {
		return -1, nil
	}
	upper := strings.ToUpper(arg)
	m := sizePattern.FindStringSubmatch(upper)
	if m == nil {
		return 0, invalidArgument("invalid size format (%s), expected <float>[B|K|M|G]", arg)
	}
	number, unit, rest := m[1], m[2], m[3]
	if rest != "" {
		return 0, invalidArgument("size format mismatch: too many arguments (%s), expected <float>[B|K|M|G]", arg)
	}
	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, invalidArgument("invalid size number (%s): %v", arg, err)
	}
	if n < 0 {
		return 0, invalidArgument("size must be a positive number or zero, got %s", arg)
	}
	if unit == "" && n <= 1 {
		return SizePercent(n, memoryLimit)
	}
	bytes := n * math.Pow(1024, unitPowers[unit])
	if bytes >= math.MaxInt64 {
		return 0, invalidArgument("size %s overflows", arg)
	}
	return int64(bytes), nil
}

// SizePercent returns the share percent of memoryLimit, percent being
// between 0 and MaxSizePercent.
func SizePercent(percent float64, memoryLimit int64) (int64, error) {
	if math.IsNaN(percent) || percent < 0 || percent > MaxSizePercent {
		return 0, invalidArgument("percent must be between zero and %v, got %v", MaxSizePercent, percent)
	}
	return int64(float64(memoryLimit) * percent), nil
}

// AbsoluteMaximumSize returns the largest cache size allowed for memoryLimit.
func AbsoluteMaximumSize(memoryLimit int64) int64 {
	return int64(float64(memoryLimit) * MaxSizePercent)
}

func invalidArgument(format string, args ...any) error {
	return &cache.CacheError{Reason: cache.ErrInvalidArgument, Err: fmt.Errorf(format, args...)}
}

func toMB(bytes int64) float64 {
	return float64(bytes) / mib
}
