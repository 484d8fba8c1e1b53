// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/client"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/waiter"
)

const (
	// DefaultNamespace is the applications namespace the platform deploys
	// its workloads into.
	DefaultNamespace = "redhat-ods-applications"

	// DSCIName is the DSCInitialization singleton name.
	DSCIName = "default-dsci"

	// DSCName is the DataScienceCluster singleton name.
	DSCName = "default-dsc"

	// AcceleratorAnnotation is the v2 annotation binding a workload to an
	// AcceleratorProfile.
	AcceleratorAnnotation = "opendatahub.io/accelerator-name"

	// HardwareProfileAnnotation is the v3 annotation the migration rewrites
	// workloads to.
	HardwareProfileAnnotation = "opendatahub.io/hardware-profile-name"

	// HardwareProfileNamespaceAnnotation names the namespace the referenced
	// HardwareProfile lives in.
	HardwareProfileNamespaceAnnotation = "opendatahub.io/hardware-profile-namespace"
)

// FixtureProfiles are the AcceleratorProfiles the prepare step creates; the
// migration must materialize a HardwareProfile for each.
var FixtureProfiles = []string{"migration-nvidia-gpu", "migration-amd-gpu"}

// Workload fixture names.
const (
	NotebookFixture         = "hwp-migration-notebook"
	ServingRuntimeFixture   = "hwp-migration-runtime"
	InferenceServiceFixture = "hwp-migration-isvc"
)

// Config scopes platform operations. Zero values take the package defaults.
type Config struct {
	// Namespace is the applications namespace.
	Namespace string
	// DryRun logs every write instead of performing it.
	DryRun bool
}

// Platform runs platform-layer operations against one cluster.
type Platform struct {
	clients *client.Clients
	waiter  *waiter.Waiter
	config  Config
}

// New creates a Platform, applying package defaults to unset fields.
func New(clients *client.Clients, cfg Config) *Platform {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	return &Platform{
		clients: clients,
		waiter:  waiter.New(),
		config:  cfg,
	}
}

// newWithWaiter is used by tests to inject a fast waiter.
func newWithWaiter(clients *client.Clients, cfg Config, w *waiter.Waiter) *Platform {
	p := New(clients, cfg)
	p.waiter = w
	return p
}

// ignoreAlreadyExists makes resource creation idempotent.
func ignoreAlreadyExists(err error) error {
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	return err
}
