// Copyright 2025 Brightclass Authors
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes Prometheus instrumentation for the upload client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client-side upload and catalog metrics.
type Metrics struct {
	UploadsTotal   *prometheus.CounterVec
	UploadBytes    prometheus.Counter
	UploadDuration prometheus.Histogram

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New registers the metric set on reg. Pass prometheus.NewRegistry() in tests
// to avoid cross-test registration collisions.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediaup",
			Subsystem: "upload",
			Name:      "attempts_total",
			Help:      "Upload attempts by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		UploadBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mediaup",
			Subsystem: "upload",
			Name:      "bytes_total",
			Help:      "Total bytes handed to upload transfers",
		}),
		UploadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mediaup",
			Subsystem: "upload",
			Name:      "attempt_duration_seconds",
			Help:      "Wall time of upload attempts",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mediaup",
			Subsystem: "catalog",
			Name:      "cache_hits_total",
			Help:      "Catalog listings served from cache",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "mediaup",
			Subsystem: "catalog",
			Name:      "cache_misses_total",
			Help:      "Catalog listings fetched from the backend",
		}),
	}
}
