// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/gvr"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/waiter"
)

// Provision creates the DSCInitialization and DataScienceCluster singletons
// and waits for each to report Ready. Both creates are idempotent. The CRDs
// are waited for first: right after an operator install they may not be
// served yet.
func (p *Platform) Provision(ctx context.Context) error {
	if !p.config.DryRun {
		for _, crd := range []string{
			"dscinitializations.dscinitialization.opendatahub.io",
			"datascienceclusters.datasciencecluster.opendatahub.io",
		} {
			if err := p.waitForCRDEstablished(ctx, crd); err != nil {
				return err
			}
		}
	}
	if err := p.ensureDSCI(ctx); err != nil {
		return err
	}
	return p.ensureDSC(ctx)
}

// waitForCRDEstablished waits until the named CRD reports the Established
// condition True.
func (p *Platform) waitForCRDEstablished(ctx context.Context, name string) error {
	_, err := p.waiter.Wait(ctx, fmt.Sprintf("crd %s", name),
		defaults.CRDEstablishedTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			obj, err := p.clients.Dynamic.Resource(gvr.CustomResourceDefinitions).
				Get(ctx, name, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				return waiter.StatePending, "not created yet", nil
			}
			if err != nil {
				return waiter.StatePending, "", err
			}
			conditions, _, _ := unstructured.NestedSlice(obj.Object, "status", "conditions")
			for _, c := range conditions {
				cond, ok := c.(map[string]any)
				if !ok {
					continue
				}
				if cond["type"] == "Established" && cond["status"] == "True" {
					return waiter.StateReady, "", nil
				}
			}
			return waiter.StatePending, "not established", nil
		})
	return err
}

func (p *Platform) ensureDSCI(ctx context.Context) error {
	dsci := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "dscinitialization.opendatahub.io/v1",
		"kind":       "DSCInitialization",
		"metadata":   map[string]any{"name": DSCIName},
		"spec": map[string]any{
			"applicationsNamespace": p.config.Namespace,
			"monitoring": map[string]any{
				"managementState": "Removed",
			},
		},
	}}

	if p.config.DryRun {
		slog.Info("dry run, would ensure DSCInitialization", "name", DSCIName)
		return nil
	}

	if err := p.ensureClusterResource(ctx, gvr.DSCInitializations, dsci); err != nil {
		return err
	}
	return p.waitForPhase(ctx, gvr.DSCInitializations,
		fmt.Sprintf("dscinitialization %s", DSCIName), DSCIName,
		defaults.DSCInitializationReadyTimeout)
}

func (p *Platform) ensureDSC(ctx context.Context) error {
	dsc := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "datasciencecluster.opendatahub.io/v1",
		"kind":       "DataScienceCluster",
		"metadata":   map[string]any{"name": DSCName},
		"spec": map[string]any{
			"components": map[string]any{
				"dashboard":   map[string]any{"managementState": "Managed"},
				"workbenches": map[string]any{"managementState": "Managed"},
				"kserve":      map[string]any{"managementState": "Managed"},
			},
		},
	}}

	if p.config.DryRun {
		slog.Info("dry run, would ensure DataScienceCluster", "name", DSCName)
		return nil
	}

	if err := p.ensureClusterResource(ctx, gvr.DataScienceClusters, dsc); err != nil {
		return err
	}
	return p.waitForPhase(ctx, gvr.DataScienceClusters,
		fmt.Sprintf("datasciencecluster %s", DSCName), DSCName,
		defaults.DataScienceClusterReadyTimeout)
}

func (p *Platform) ensureClusterResource(ctx context.Context, resource schema.GroupVersionResource, obj *unstructured.Unstructured) error {
	_, err := p.clients.Dynamic.Resource(resource).Create(ctx, obj, metav1.CreateOptions{})
	if err := ignoreAlreadyExists(err); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to create %s %s", obj.GetKind(), obj.GetName()), err)
	}
	slog.Info("resource ensured", "kind", obj.GetKind(), "name", obj.GetName())
	return nil
}

// waitForPhase waits until the cluster-scoped resource reports status.phase
// Ready. An Error phase ends the wait immediately.
func (p *Platform) waitForPhase(ctx context.Context, resource schema.GroupVersionResource, description, name string, timeout time.Duration) error {
	_, err := p.waiter.Wait(ctx, description, timeout,
		func(ctx context.Context) (waiter.State, string, error) {
			obj, err := p.clients.Dynamic.Resource(resource).Get(ctx, name, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				return waiter.StatePending, "not created yet", nil
			}
			if err != nil {
				return waiter.StatePending, "", err
			}
			phase, _, _ := unstructured.NestedString(obj.Object, "status", "phase")
			switch phase {
			case "Ready":
				return waiter.StateReady, "", nil
			case "Error":
				return waiter.StateFailed, fmt.Sprintf("phase %q", phase), nil
			default:
				return waiter.StatePending, fmt.Sprintf("phase %q", phase), nil
			}
		})
	return err
}
