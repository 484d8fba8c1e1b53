// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for reconcileTotal.
const (
	outcomeNoChange = "no_change"
	outcomeChanged  = "changed"
	outcomeDryRun   = "dry_run"
	outcomeError    = "error"
)

// Patch target labels for patchesApplied.
const (
	patchTargetAnnotation = "annotation"
	patchTargetData       = "data"
)

var (
	reconcileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hwpmig_reconcile_total",
			Help: "Total number of ConfigMap reconciliation runs",
		},
		[]string{"outcome"},
	)

	reconcileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hwpmig_reconcile_duration_seconds",
			Help:    "Time taken by a ConfigMap reconciliation run",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	patchesApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hwpmig_reconcile_patches_total",
			Help: "Merge patches actually written, by target field",
		},
		[]string{"target"},
	)
)
