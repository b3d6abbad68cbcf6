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
	"math"
	"runtime/debug"
)

// DefaultMemoryLimit is the memory limit used when none can be detected.
const DefaultMemoryLimit = 4 << 30

// MemoryLimit returns the memory budget of the process: the Go runtime
// soft memory limit when one is set, otherwise the physical memory of the
// host.
func MemoryLimit() int64 {
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		return limit
	}
	if total := physicalMemory(); total > 0 {
		return total
	}
	return DefaultMemoryLimit
}
