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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// CacheEventTypeMiss is the event type for cache misses.
	CacheEventTypeMiss = "cache_miss"
	// CacheEventTypeHit is the event type for cache hits.
	CacheEventTypeHit = "cache_hit"
	// StatusSuccess is the status for successful write-backs.
	StatusSuccess = "success"
	// StatusFailure is the status for failed write-backs.
	StatusFailure = "failure"
	// TierHot labels metrics of the decoded object tier.
	TierHot = "hot"
	// TierCold labels metrics of the encoded object tier.
	TierCold = "cold"
)

// Metrics are the Prometheus metrics of a shared cache. A single Metrics
// can be shared by the successive caches of a manager.
type Metrics struct {
	cacheEventsCounter   *prometheus.CounterVec
	cacheEvictionCounter *prometheus.CounterVec
	writeBackCounter     *prometheus.CounterVec
	callerRunsCounter    prometheus.Counter
	cacheItemsGauge      *prometheus.GaugeVec
	cacheBytesGauge      prometheus.Gauge
}

// NewMetrics creates the cache metrics, registering them with reg. All
// metric names start with prefix.
func NewMetrics(reg prometheus.Registerer, prefix string) *Metrics {
	return &Metrics{
		cacheEventsCounter: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%sobject_cache_events_total", prefix),
				Help: "Total number of cold tier lookups partitioned by hit or miss.",
			},
			[]string{"event_type"},
		),
		cacheEvictionCounter: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%sobject_cache_evictions_total", prefix),
				Help: "Total number of entries evicted for space.",
			},
			[]string{"tier"},
		),
		writeBackCounter: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%sobject_cache_write_backs_total", prefix),
				Help: "Total number of cold tier insertions partitioned by success or failure.",
			},
			[]string{"status"},
		),
		callerRunsCounter: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: fmt.Sprintf("%sobject_cache_caller_runs_total", prefix),
				Help: "Total number of write-backs run by the caller because the queue was full.",
			},
		),
		cacheItemsGauge: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: fmt.Sprintf("%sobject_cache_items", prefix),
				Help: "Number of objects in the cache.",
			},
			[]string{"tier"},
		),
		cacheBytesGauge: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: fmt.Sprintf("%sobject_cache_bytes", prefix),
				Help: "Total weight in bytes of the cold tier.",
			},
		),
	}
}

func recordEvent(metrics *Metrics, event string) {
	if metrics != nil {
		metrics.cacheEventsCounter.WithLabelValues(event).Inc()
	}
}

func recordEviction(metrics *Metrics, tier string) {
	if metrics != nil {
		metrics.cacheEvictionCounter.WithLabelValues(tier).Inc()
	}
}

func recordWriteBack(metrics *Metrics, status string) {
	if metrics != nil {
		metrics.writeBackCounter.WithLabelValues(status).Inc()
	}
}

func recordCallerRuns(metrics *Metrics) {
	if metrics != nil {
		metrics.callerRunsCounter.Inc()
	}
}

func recordItems(metrics *Metrics, tier string, delta float64) {
	if metrics != nil {
		metrics.cacheItemsGauge.WithLabelValues(tier).Add(delta)
	}
}

func recordBytes(metrics *Metrics, delta int64) {
	if metrics != nil {
		metrics.cacheBytesGauge.Add(float64(delta))
	}
}
