// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package capture

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resourcesExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hwpmig_capture_resources_total",
			Help: "Resources exported by capture runs, by kind",
		},
		[]string{"kind"},
	)

	captureDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hwpmig_capture_duration_seconds",
			Help:    "Time taken by a full capture run",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120},
		},
	)
)
