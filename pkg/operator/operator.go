// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package operator

import (
	"fmt"

	"github.com/distribution/reference"
	apierrors "k8s.io/apimachinery/pkg/api/errors"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/client"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/waiter"
)

const (
	// DefaultNamespace is where the operator Subscription lives.
	DefaultNamespace = "redhat-ods-operator"

	// DefaultPackage is the OLM package name of the RHOAI operator.
	DefaultPackage = "rhods-operator"

	// DefaultChannel is the subscription channel used for the initial install.
	DefaultChannel = "stable"

	// DefaultCatalogSource is the marketplace catalog the operator ships in.
	DefaultCatalogSource = "redhat-operators"

	// CatalogNamespace is where CatalogSources live on OpenShift.
	CatalogNamespace = "openshift-marketplace"

	// CustomCatalogSource is the name given to a CatalogSource created from a
	// positional catalog image override.
	CustomCatalogSource = "rhoai-custom-catalog"

	// OperatorGroupName is the OperatorGroup created in the operator namespace.
	OperatorGroupName = "rhoai-operator-group"
)

// Config selects the operator package and where to install it from. Zero
// values take the package defaults.
type Config struct {
	// Namespace is the operator namespace.
	Namespace string
	// Package is the OLM package name.
	Package string
	// Channel is the subscription channel.
	Channel string
	// CatalogImage, when set, is an index image a custom CatalogSource is
	// created from; the Subscription then points at that source instead of
	// the marketplace default.
	CatalogImage string
	// DryRun logs every write instead of performing it.
	DryRun bool
}

// Manager runs OLM operations against one cluster.
type Manager struct {
	clients *client.Clients
	waiter  *waiter.Waiter
	config  Config
}

// New creates a Manager, applying package defaults to unset fields. The
// catalog image override, when present, must be a fully-qualified image
// reference.
func New(clients *client.Clients, cfg Config) (*Manager, error) {
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Package == "" {
		cfg.Package = DefaultPackage
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	if cfg.CatalogImage != "" {
		if _, err := reference.ParseNamed(cfg.CatalogImage); err != nil {
			return nil, hwperrors.Wrap(hwperrors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid catalog image reference %q", cfg.CatalogImage), err)
		}
	}
	return &Manager{
		clients: clients,
		waiter:  waiter.New(),
		config:  cfg,
	}, nil
}

// newWithWaiter is used by tests to inject a fast waiter.
func newWithWaiter(clients *client.Clients, cfg Config, w *waiter.Waiter) (*Manager, error) {
	m, err := New(clients, cfg)
	if err != nil {
		return nil, err
	}
	m.waiter = w
	return m, nil
}

// catalogSource returns the CatalogSource name the Subscription points at.
func (m *Manager) catalogSource() string {
	if m.config.CatalogImage != "" {
		return CustomCatalogSource
	}
	return DefaultCatalogSource
}

// ignoreAlreadyExists makes resource creation idempotent.
func ignoreAlreadyExists(err error) error {
	if apierrors.IsAlreadyExists(err) {
		return nil
	}
	return err
}
