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

import "fmt"

// Stats are the lookup statistics of a shared cache.
//
// Only cold tier lookups are counted: a hit in the hot tier never reaches
// the cold tier and is not recorded, so HitRate under reports the share of
// lookups the cache actually served.
type Stats struct {
	HitCount      uint64 `json:"hitCount"`
	MissCount     uint64 `json:"missCount"`
	EvictionCount uint64 `json:"evictionCount"`
}

// RequestCount returns the number of counted lookups.
func (s Stats) RequestCount() uint64 {
	return s.HitCount + s.MissCount
}

// HitRate returns the ratio of lookups that were hits, 1 when there were none.
func (s Stats) HitRate() float64 {
	n := s.RequestCount()
	if n == 0 {
		return 1
	}
	return float64(s.HitCount) / float64(n)
}

// MissRate returns the ratio of lookups that were misses, 0 when there were none.
func (s Stats) MissRate() float64 {
	n := s.RequestCount()
	if n == 0 {
		return 0
	}
	return float64(s.MissCount) / float64(n)
}

func (s Stats) String() string {
	return fmt.Sprintf("Stats{hitCount=%d, missCount=%d, evictionCount=%d, hitRate=%.3f}",
		s.HitCount, s.MissCount, s.EvictionCount, s.HitRate())
}
