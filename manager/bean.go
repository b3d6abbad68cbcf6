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
)

// Bean is the management surface of a Manager: read only statistics and
// size settings, plus the operations clearing or resizing the cache.
type Bean interface {
	// Size returns the number of cached objects.
	Size() int64
	SizeBytes() int64
	SizeMB() float64
	// Clear removes all the cached objects, keeping the statistics.
	Clear()

	HitCount() uint64
	HitRate() float64
	MissCount() uint64
	MissRate() float64
	EvictionCount() uint64

	SetMaximumSize(size int64) error
	SetMaximumSizePercent(percent float64) error
	SetMaximumSizeMB(mb float64) error
	MaximumSize() int64
	MaximumSizeMB() float64
	MaximumSizePercent() float64
	DefaultSizeMB() float64
	AbsoluteMaximumSizeMB() float64

	// MaximumSizeProperty returns the size given in the options.
	MaximumSizeProperty() string
	// MaximumSizeEnv returns the size given in the environment.
	MaximumSizeEnv() string
	// ImplementationName returns the type of the shared cache.
	ImplementationName() string
}

var _ Bean = &Manager{}

func (m *Manager) Size() int64 {
	return m.sharedCache().ObjectCount()
}

func (m *Manager) SizeBytes() int64 {
	return m.sharedCache().SizeBytes()
}

func (m *Manager) SizeMB() float64 {
	return toMB(m.SizeBytes())
}

// Clear empties the shared cache if it was built.
func (m *Manager) Clear() {
	if ref := m.shared.Load(); ref != nil {
		ref.InvalidateAll()
	}
}

func (m *Manager) HitCount() uint64 {
	return m.sharedCache().Stats().HitCount
}

func (m *Manager) HitRate() float64 {
	return m.sharedCache().Stats().HitRate()
}

func (m *Manager) MissCount() uint64 {
	return m.sharedCache().Stats().MissCount
}

func (m *Manager) MissRate() float64 {
	return m.sharedCache().Stats().MissRate()
}

func (m *Manager) EvictionCount() uint64 {
	return m.sharedCache().Stats().EvictionCount
}

// MaximumSize returns the size of the shared cache in bytes.
func (m *Manager) MaximumSize() int64 {
	m.sharedCache()
	return m.currentSize.Load()
}

func (m *Manager) MaximumSizeMB() float64 {
	return toMB(m.MaximumSize())
}

// MaximumSizePercent returns the size of the shared cache as a share of
// the memory limit.
func (m *Manager) MaximumSizePercent() float64 {
	return float64(m.MaximumSize()) / float64(m.memoryLimit)
}

// DefaultSizeMB returns the size resolved from the options, the
// environment or the default share of the memory limit.
func (m *Manager) DefaultSizeMB() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toMB(m.resolveDefaultMaxSize())
}

func (m *Manager) AbsoluteMaximumSizeMB() float64 {
	return toMB(AbsoluteMaximumSize(m.memoryLimit))
}

func (m *Manager) MaximumSizeProperty() string {
	return m.opts.MaxSize
}

func (m *Manager) MaximumSizeEnv() string {
	return maxSizeEnv()
}

func (m *Manager) ImplementationName() string {
	return fmt.Sprintf("%T", m.sharedCache())
}

// String returns a summary of the shared cache.
func (m *Manager) String() string {
	return m.sharedCache().String()
}

// Status is a snapshot of a Bean.
type Status struct {
	Implementation        string  `json:"implementation"`
	Summary               string  `json:"summary"`
	Size                  int64   `json:"size"`
	SizeBytes             int64   `json:"sizeBytes"`
	SizeMB                float64 `json:"sizeMB"`
	HitCount              uint64  `json:"hitCount"`
	HitRate               float64 `json:"hitRate"`
	MissCount             uint64  `json:"missCount"`
	MissRate              float64 `json:"missRate"`
	EvictionCount         uint64  `json:"evictionCount"`
	MaximumSize           int64   `json:"maximumSize"`
	MaximumSizeMB         float64 `json:"maximumSizeMB"`
	MaximumSizePercent    float64 `json:"maximumSizePercent"`
	DefaultSizeMB         float64 `json:"defaultSizeMB"`
	AbsoluteMaximumSizeMB float64 `json:"absoluteMaximumSizeMB"`
	MaximumSizeProperty   string  `json:"maximumSizeProperty,omitempty"`
	MaximumSizeEnv        string  `json:"maximumSizeEnv,omitempty"`
}

// Snapshot reads the current Status of b.
func Snapshot(b Bean) Status {
	s := Status{
		Implementation:        b.ImplementationName(),
		Size:                  b.Size(),
		SizeBytes:             b.SizeBytes(),
		SizeMB:                b.SizeMB(),
		HitCount:              b.HitCount(),
		HitRate:               b.HitRate(),
		MissCount:             b.MissCount(),
		MissRate:              b.MissRate(),
		EvictionCount:         b.EvictionCount(),
		MaximumSize:           b.MaximumSize(),
		MaximumSizeMB:         b.MaximumSizeMB(),
		MaximumSizePercent:    b.MaximumSizePercent(),
		DefaultSizeMB:         b.DefaultSizeMB(),
		AbsoluteMaximumSizeMB: b.AbsoluteMaximumSizeMB(),
		MaximumSizeProperty:   b.MaximumSizeProperty(),
		MaximumSizeEnv:        b.MaximumSizeEnv(),
	}
	if str, ok := b.(fmt.Stringer); ok {
		s.Summary = str.String()
	}
	return s
}
