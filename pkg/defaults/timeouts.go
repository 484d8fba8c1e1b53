// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package defaults

import "time"

// Operator install timeouts for OLM resources.
const (
	// CatalogSourceReadyTimeout is the bound for a CatalogSource reaching READY.
	CatalogSourceReadyTimeout = 5 * time.Minute

	// InstallPlanTimeout is the bound for an InstallPlan appearing for a Subscription.
	InstallPlanTimeout = 5 * time.Minute

	// CSVSucceededTimeout is the bound for a ClusterServiceVersion reaching Succeeded.
	CSVSucceededTimeout = 10 * time.Minute

	// CRDEstablishedTimeout is the bound for a CustomResourceDefinition being established.
	CRDEstablishedTimeout = 2 * time.Minute
)

// Platform timeouts for the data-science custom resources.
const (
	// DSCInitializationReadyTimeout is the bound for a DSCInitialization reaching Ready.
	DSCInitializationReadyTimeout = 10 * time.Minute

	// DataScienceClusterReadyTimeout is the bound for a DataScienceCluster reaching Ready.
	DataScienceClusterReadyTimeout = 20 * time.Minute

	// NamespaceDeletionTimeout is the bound for a namespace finishing termination.
	NamespaceDeletionTimeout = 10 * time.Minute
)

// Reconciler timeouts for the ConfigMap routine and its dependent workload.
const (
	// ConfigMapPatchTimeout is the per-write bound for ConfigMap merge patches.
	ConfigMapPatchTimeout = 30 * time.Second

	// ControllerRestartTimeout is the bound for the dependent controller
	// Deployment reporting ready after a rollout restart. Exceeding it is
	// advisory, not fatal.
	ControllerRestartTimeout = 5 * time.Minute
)

// Polling cadence for bounded status waits.
const (
	// PollInterval is the base interval between status probes.
	PollInterval = 2 * time.Second

	// PollRatePerSecond caps the status probe rate against the API server.
	PollRatePerSecond = 2

	// SessionProbeTimeout is the bound for the API session precondition check.
	SessionProbeTimeout = 15 * time.Second
)

// Capture timeouts for state export operations.
const (
	// CaptureListTimeout is the per-kind bound for listing resource bodies.
	CaptureListTimeout = 60 * time.Second

	// CapturePushTimeout is the bound for pushing a capture bundle to a registry.
	CapturePushTimeout = 5 * time.Minute
)
