// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package platform

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

// Teardown deletes the platform layer in reverse order of creation: workload
// fixtures first, then the profiles, then the DataScienceCluster and finally
// the DSCInitialization. The DSC delete waits for its finalizers so the DSCI
// is not pulled out from under a component teardown. Individual failures are
// recorded and do not stop the teardown.
func (p *Platform) Teardown(ctx context.Context) []k8s.DeleteResult {
	var results []k8s.DeleteResult

	results = append(results, p.deleteFixture(ctx,
		gvr.InferenceServices, "InferenceService", InferenceServiceFixture))
	results = append(results, p.deleteFixture(ctx,
		gvr.ServingRuntimes, "ServingRuntime", ServingRuntimeFixture))
	results = append(results, p.deleteFixture(ctx,
		gvr.Notebooks, "Notebook", NotebookFixture))

	for _, profile := range FixtureProfiles {
		results = append(results, p.deleteFixture(ctx,
			gvr.AcceleratorProfiles, "AcceleratorProfile", profile))
		// Materialized by the migration, absent pre-upgrade.
		results = append(results, p.deleteFixture(ctx,
			gvr.HardwareProfiles, "HardwareProfile", profile))
	}

	results = append(results, p.deleteClusterSingleton(ctx,
		gvr.DataScienceClusters, "DataScienceCluster", DSCName, true))
	results = append(results, p.deleteClusterSingleton(ctx,
		gvr.DSCInitializations, "DSCInitialization", DSCIName, false))

	return results
}

func (p *Platform) deleteFixture(ctx context.Context, resource schema.GroupVersionResource, kind, name string) k8s.DeleteResult {
	if p.config.DryRun {
		slog.Info("dry run, would delete", "kind", kind, "name", name, "namespace", p.config.Namespace)
		return k8s.DeleteResult{
			Kind: kind, Name: name, Namespace: p.config.Namespace, Outcome: k8s.OutcomeSkipped,
		}
	}
	return k8s.Delete(ctx, p.clients.Dynamic, resource, kind, p.config.Namespace, name)
}

// deleteClusterSingleton deletes a cluster-scoped singleton, optionally
// waiting for finalizers to release it.
func (p *Platform) deleteClusterSingleton(ctx context.Context, resource schema.GroupVersionResource, kind, name string, waitGone bool) k8s.DeleteResult {
	if p.config.DryRun {
		slog.Info("dry run, would delete", "kind", kind, "name", name)
		return k8s.DeleteResult{Kind: kind, Name: name, Outcome: k8s.OutcomeSkipped}
	}

	result := k8s.Delete(ctx, p.clients.Dynamic, resource, kind, "", name)
	if result.Outcome != k8s.OutcomeDeleted || !waitGone {
		return result
	}

	_, err := p.waiter.Wait(ctx,
		fmt.Sprintf("%s %s deletion", kind, name),
		defaults.NamespaceDeletionTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			_, err := p.clients.Dynamic.Resource(resource).Get(ctx, name, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				return waiter.StateReady, "", nil
			}
			if err != nil {
				return waiter.StatePending, "", err
			}
			return waiter.StatePending, "finalizing", nil
		})
	if err != nil {
		result.Outcome = k8s.OutcomeFailed
		result.Error = err.Error()
		slog.Warn("singleton did not finalize in time", "kind", kind, "name", name, "error", err)
	}
	return result
}
