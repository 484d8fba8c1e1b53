// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package operator

import (
	"context"
	"fmt"
	"log/slog"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/gvr"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/waiter"
)

// Cleanup tears down the operator install in reverse order of creation:
// Subscription, installed CSV, OperatorGroup, the custom CatalogSource, and
// finally the operator namespace, waiting for the namespace to actually go
// away. The CatalogSource delete is attempted regardless of configuration:
// an earlier install run may have created it, and an absent source reports
// AlreadyAbsent. Individual failures are recorded and do not stop the
// teardown.
func (m *Manager) Cleanup(ctx context.Context) []k8s.DeleteResult {
	var results []k8s.DeleteResult

	// Resolve the CSV name while the Subscription still exists.
	csvName, err := m.InstalledCSV(ctx)
	if err != nil {
		slog.Warn("could not resolve installed CSV before cleanup", "error", err)
	}

	results = append(results, m.deleteResource(ctx,
		gvr.Subscriptions, "Subscription", m.config.Namespace, m.config.Package))

	if csvName != "" {
		results = append(results, m.deleteResource(ctx,
			gvr.ClusterServiceVersions, "ClusterServiceVersion", m.config.Namespace, csvName))
	}

	results = append(results, m.deleteResource(ctx,
		gvr.OperatorGroups, "OperatorGroup", m.config.Namespace, OperatorGroupName))

	results = append(results, m.deleteResource(ctx,
		gvr.CatalogSources, "CatalogSource", CatalogNamespace, CustomCatalogSource))

	results = append(results, m.deleteNamespace(ctx, m.config.Namespace))
	return results
}

func (m *Manager) deleteResource(ctx context.Context, resource schema.GroupVersionResource, kind, namespace, name string) k8s.DeleteResult {
	if m.config.DryRun {
		slog.Info("dry run, would delete", "kind", kind, "name", name, "namespace", namespace)
		return k8s.DeleteResult{
			Kind: kind, Name: name, Namespace: namespace, Outcome: k8s.OutcomeSkipped,
		}
	}
	return k8s.Delete(ctx, m.clients.Dynamic, resource, kind, namespace, name)
}

// deleteNamespace deletes a namespace and waits, bounded, for it to be gone.
// Finalizer hangs surface as a Failed outcome with a timeout error.
func (m *Manager) deleteNamespace(ctx context.Context, name string) k8s.DeleteResult {
	result := k8s.DeleteResult{Kind: "Namespace", Name: name}

	if m.config.DryRun {
		slog.Info("dry run, would delete namespace", "namespace", name)
		result.Outcome = k8s.OutcomeSkipped
		return result
	}

	namespaces := m.clients.Typed.CoreV1().Namespaces()
	err := namespaces.Delete(ctx, name, metav1.DeleteOptions{})
	if apierrors.IsNotFound(err) {
		result.Outcome = k8s.OutcomeAlreadyAbsent
		return result
	}
	if err != nil {
		result.Outcome = k8s.OutcomeFailed
		result.Error = err.Error()
		return result
	}

	_, err = m.waiter.Wait(ctx,
		fmt.Sprintf("namespace %s deletion", name),
		defaults.NamespaceDeletionTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			_, err := namespaces.Get(ctx, name, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				return waiter.StateReady, "", nil
			}
			if err != nil {
				return waiter.StatePending, "", err
			}
			return waiter.StatePending, "terminating", nil
		})
	if err != nil {
		result.Outcome = k8s.OutcomeFailed
		result.Error = err.Error()
		slog.Warn("namespace did not terminate in time", "namespace", name, "error", err)
		return result
	}

	result.Outcome = k8s.OutcomeDeleted
	slog.Info("namespace deleted", "namespace", name)
	return result
}
