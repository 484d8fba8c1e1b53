// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/client-go/util/homedir"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
)

// Interface is an alias for kubernetes.Interface to allow easier mocking in
// tests via fake.NewClientset().
type Interface = kubernetes.Interface

// Clients bundles the typed and dynamic clients every lifecycle driver needs.
// The typed client covers core resources (ConfigMaps, Deployments,
// Namespaces); the dynamic client covers OLM and data-science custom
// resources addressed by GroupVersionResource.
type Clients struct {
	Typed   Interface
	Dynamic dynamic.Interface
	Config  *rest.Config
}

// Build creates the client bundle from the given kubeconfig path.
//
// An empty path uses automatic discovery:
//  1. KUBECONFIG environment variable
//  2. ~/.kube/config (if it exists)
//  3. in-cluster service account configuration
func Build(kubeconfig string) (*Clients, error) {
	config, err := buildRESTConfig(kubeconfig)
	if err != nil {
		return nil, err
	}

	typed, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}

	dyn, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return &Clients{Typed: typed, Dynamic: dyn, Config: config}, nil
}

// EnsureSession verifies that an authenticated API session exists by probing
// the server version. An authentication or authorization rejection maps to
// UNAUTHORIZED; an unreachable server is fatal. Every command runs this
// before touching any resource.
func (c *Clients) EnsureSession(ctx context.Context) error {
	// Discovery ServerVersion carries no context in client-go; the probe is
	// bounded by the rest.Config timeout instead.
	_ = ctx

	sv, err := c.Typed.Discovery().ServerVersion()
	if err != nil {
		if apierrors.IsUnauthorized(err) || apierrors.IsForbidden(err) {
			return hwperrors.Wrap(hwperrors.ErrCodeUnauthorized,
				"no active cluster session, log in first", err)
		}
		return hwperrors.Wrap(hwperrors.ErrCodeInternal,
			"cluster API server is not reachable", err)
	}

	if sv != nil && sv.GitVersion == "" {
		return hwperrors.New(hwperrors.ErrCodeInternal,
			"cluster API server returned an empty version")
	}
	return nil
}

// ServerVersion returns the cluster's reported version string, or "unknown"
// when discovery fails. Used to stamp capture manifests.
func (c *Clients) ServerVersion() string {
	sv, err := c.Typed.Discovery().ServerVersion()
	if err != nil || sv == nil || sv.GitVersion == "" {
		return "unknown"
	}
	return sv.GitVersion
}

// buildRESTConfig resolves the kubeconfig source and creates a rest.Config.
func buildRESTConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig == "" {
		kubeconfig = os.Getenv("KUBECONFIG")

		if kubeconfig == "" {
			kubeconfig = filepath.Join(homedir.HomeDir(), ".kube", "config")
			if _, err := os.Stat(kubeconfig); os.IsNotExist(err) {
				kubeconfig = ""
			}
		}
	}

	// Use InClusterConfig directly when no kubeconfig is available.
	if kubeconfig == "" {
		config, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to get in-cluster config: %w", err)
		}
		return config, nil
	}

	config, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build kube config from %s: %w", kubeconfig, err)
	}
	return config, nil
}
