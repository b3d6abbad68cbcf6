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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// registerMetrics exposes the size settings and the tenant count. The
// gauges read the Manager on scrape and never build the shared cache.
func (m *Manager) registerMetrics() {
	prefix := m.opts.MetricsPrefix
	promauto.With(m.opts.Registerer).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%sobject_cache_max_size_bytes", prefix),
			Help: "Configured maximum size of the shared object cache, -1 until it is built.",
		},
		func() float64 { return float64(m.currentSize.Load()) },
	)
	promauto.With(m.opts.Registerer).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%sobject_cache_absolute_max_size_bytes", prefix),
			Help: "Largest size the shared object cache can be given.",
		},
		func() float64 { return float64(AbsoluteMaximumSize(m.memoryLimit)) },
	)
	promauto.With(m.opts.Registerer).NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: fmt.Sprintf("%sobject_cache_tenants", prefix),
			Help: "Number of tenants holding a reference to the shared object cache.",
		},
		func() float64 { return float64(m.conns.len()) },
	)
}
