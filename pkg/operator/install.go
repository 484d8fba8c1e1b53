// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package operator

import (
	"context"
	"fmt"
	"log/slog"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/types"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/gvr"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/waiter"
)

// Install brings the operator to a Succeeded CSV: namespace, OperatorGroup,
// optional custom CatalogSource, Subscription, InstallPlan approval, CSV
// wait. Each step reuses what already exists. Returns the name of the CSV
// that reached Succeeded.
func (m *Manager) Install(ctx context.Context) (string, error) {
	if err := m.ensureNamespace(ctx); err != nil {
		return "", err
	}
	if err := m.ensureOperatorGroup(ctx); err != nil {
		return "", err
	}
	if m.config.CatalogImage != "" {
		if err := m.ensureCatalogSource(ctx); err != nil {
			return "", err
		}
	}
	if err := m.ensureSubscription(ctx); err != nil {
		return "", err
	}

	if m.config.DryRun {
		slog.Info("dry run, skipping install plan approval and CSV wait")
		return "", nil
	}

	if err := m.approveInstallPlan(ctx); err != nil {
		return "", err
	}
	return m.waitForCSV(ctx)
}

func (m *Manager) ensureNamespace(ctx context.Context) error {
	ns := &corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: m.config.Namespace}}

	if m.config.DryRun {
		slog.Info("dry run, would ensure namespace", "namespace", m.config.Namespace)
		return nil
	}

	_, err := m.clients.Typed.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{})
	if err := ignoreAlreadyExists(err); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to create namespace %s", m.config.Namespace), err)
	}
	slog.Info("namespace ensured", "namespace", m.config.Namespace)
	return nil
}

func (m *Manager) ensureOperatorGroup(ctx context.Context) error {
	og := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "operators.coreos.com/v1",
		"kind":       "OperatorGroup",
		"metadata": map[string]any{
			"name":      OperatorGroupName,
			"namespace": m.config.Namespace,
		},
		// No targetNamespaces: the operator watches all namespaces.
		"spec": map[string]any{},
	}}

	if m.config.DryRun {
		slog.Info("dry run, would ensure OperatorGroup", "name", OperatorGroupName)
		return nil
	}

	_, err := m.clients.Dynamic.Resource(gvr.OperatorGroups).Namespace(m.config.Namespace).
		Create(ctx, og, metav1.CreateOptions{})
	if err := ignoreAlreadyExists(err); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to create OperatorGroup %s", OperatorGroupName), err)
	}
	slog.Info("OperatorGroup ensured", "name", OperatorGroupName)
	return nil
}

// ensureCatalogSource creates a grpc CatalogSource from the configured index
// image and waits for its registry connection to report READY.
func (m *Manager) ensureCatalogSource(ctx context.Context) error {
	cs := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "operators.coreos.com/v1alpha1",
		"kind":       "CatalogSource",
		"metadata": map[string]any{
			"name":      CustomCatalogSource,
			"namespace": CatalogNamespace,
		},
		"spec": map[string]any{
			"sourceType":  "grpc",
			"image":       m.config.CatalogImage,
			"displayName": "RHOAI custom catalog",
			"publisher":   "hwpctl",
		},
	}}

	if m.config.DryRun {
		slog.Info("dry run, would ensure CatalogSource",
			"name", CustomCatalogSource, "image", m.config.CatalogImage)
		return nil
	}

	catalogs := m.clients.Dynamic.Resource(gvr.CatalogSources).Namespace(CatalogNamespace)
	_, err := catalogs.Create(ctx, cs, metav1.CreateOptions{})
	if err := ignoreAlreadyExists(err); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to create CatalogSource %s", CustomCatalogSource), err)
	}
	slog.Info("CatalogSource ensured", "name", CustomCatalogSource, "image", m.config.CatalogImage)

	_, err = m.waiter.Wait(ctx,
		fmt.Sprintf("catalogsource %s/%s", CatalogNamespace, CustomCatalogSource),
		defaults.CatalogSourceReadyTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			obj, err := catalogs.Get(ctx, CustomCatalogSource, metav1.GetOptions{})
			if err != nil {
				return waiter.StatePending, "", err
			}
			state, _, _ := unstructured.NestedString(obj.Object,
				"status", "connectionState", "lastObservedState")
			if state == "READY" {
				return waiter.StateReady, "", nil
			}
			return waiter.StatePending, fmt.Sprintf("connection state %q", state), nil
		})
	return err
}

func (m *Manager) ensureSubscription(ctx context.Context) error {
	sub := &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "operators.coreos.com/v1alpha1",
		"kind":       "Subscription",
		"metadata": map[string]any{
			"name":      m.config.Package,
			"namespace": m.config.Namespace,
		},
		"spec": map[string]any{
			"name":                m.config.Package,
			"channel":             m.config.Channel,
			"source":              m.catalogSource(),
			"sourceNamespace":     CatalogNamespace,
			"installPlanApproval": "Automatic",
		},
	}}

	if m.config.DryRun {
		slog.Info("dry run, would ensure Subscription",
			"name", m.config.Package, "channel", m.config.Channel, "source", m.catalogSource())
		return nil
	}

	_, err := m.clients.Dynamic.Resource(gvr.Subscriptions).Namespace(m.config.Namespace).
		Create(ctx, sub, metav1.CreateOptions{})
	if err := ignoreAlreadyExists(err); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to create Subscription %s", m.config.Package), err)
	}
	slog.Info("Subscription ensured",
		"name", m.config.Package, "channel", m.config.Channel, "source", m.catalogSource())
	return nil
}

// approveInstallPlan waits for the Subscription to reference an InstallPlan
// and approves it when OLM left it pending manual approval.
func (m *Manager) approveInstallPlan(ctx context.Context) error {
	planName, err := m.waitForInstallPlanRef(ctx)
	if err != nil {
		return err
	}

	plans := m.clients.Dynamic.Resource(gvr.InstallPlans).Namespace(m.config.Namespace)
	plan, err := plans.Get(ctx, planName, metav1.GetOptions{})
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to fetch InstallPlan %s", planName), err)
	}

	approved, _, _ := unstructured.NestedBool(plan.Object, "spec", "approved")
	if approved {
		slog.Info("install plan already approved", "installplan", planName)
		return nil
	}

	patch := []byte(`{"spec":{"approved":true}}`)
	if _, err := plans.Patch(ctx, planName, types.MergePatchType, patch, metav1.PatchOptions{}); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to approve InstallPlan %s", planName), err)
	}
	slog.Info("install plan approved", "installplan", planName)
	return nil
}

// waitForInstallPlanRef polls the Subscription status until OLM has resolved
// an InstallPlan for it.
func (m *Manager) waitForInstallPlanRef(ctx context.Context) (string, error) {
	subs := m.clients.Dynamic.Resource(gvr.Subscriptions).Namespace(m.config.Namespace)

	var planName string
	_, err := m.waiter.Wait(ctx,
		fmt.Sprintf("subscription %s install plan", m.config.Package),
		defaults.InstallPlanTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			sub, err := subs.Get(ctx, m.config.Package, metav1.GetOptions{})
			if err != nil {
				return waiter.StatePending, "", err
			}
			name, _, _ := unstructured.NestedString(sub.Object, "status", "installPlanRef", "name")
			if name == "" {
				return waiter.StatePending, "no install plan resolved", nil
			}
			planName = name
			return waiter.StateReady, "", nil
		})
	return planName, err
}

// waitForCSV resolves the Subscription's current CSV and waits for it to
// reach phase Succeeded. A Failed phase ends the wait immediately.
func (m *Manager) waitForCSV(ctx context.Context) (string, error) {
	csvName, err := m.waitForCurrentCSV(ctx, "")
	if err != nil {
		return "", err
	}
	return csvName, m.waitForCSVSucceeded(ctx, csvName)
}

// waitForCurrentCSV polls until the Subscription reports a current CSV
// different from previous (empty previous accepts any).
func (m *Manager) waitForCurrentCSV(ctx context.Context, previous string) (string, error) {
	subs := m.clients.Dynamic.Resource(gvr.Subscriptions).Namespace(m.config.Namespace)

	var csvName string
	_, err := m.waiter.Wait(ctx,
		fmt.Sprintf("subscription %s current CSV", m.config.Package),
		defaults.InstallPlanTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			sub, err := subs.Get(ctx, m.config.Package, metav1.GetOptions{})
			if err != nil {
				return waiter.StatePending, "", err
			}
			name, _, _ := unstructured.NestedString(sub.Object, "status", "currentCSV")
			if name == "" || name == previous {
				return waiter.StatePending, fmt.Sprintf("current CSV %q", name), nil
			}
			csvName = name
			return waiter.StateReady, "", nil
		})
	return csvName, err
}

func (m *Manager) waitForCSVSucceeded(ctx context.Context, csvName string) error {
	csvs := m.clients.Dynamic.Resource(gvr.ClusterServiceVersions).Namespace(m.config.Namespace)

	_, err := m.waiter.Wait(ctx,
		fmt.Sprintf("csv %s", csvName),
		defaults.CSVSucceededTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			csv, err := csvs.Get(ctx, csvName, metav1.GetOptions{})
			if apierrors.IsNotFound(err) {
				// OLM may not have materialized the CSV yet.
				return waiter.StatePending, "csv not created yet", nil
			}
			if err != nil {
				return waiter.StatePending, "", err
			}
			phase, _, _ := unstructured.NestedString(csv.Object, "status", "phase")
			switch phase {
			case "Succeeded":
				return waiter.StateReady, "", nil
			case "Failed":
				reason, _, _ := unstructured.NestedString(csv.Object, "status", "reason")
				return waiter.StateFailed, reason, nil
			default:
				return waiter.StatePending, fmt.Sprintf("phase %q", phase), nil
			}
		})
	return err
}

// InstalledCSV returns the CSV name the Subscription reports as installed,
// falling back to the current CSV when the installed field is still empty.
func (m *Manager) InstalledCSV(ctx context.Context) (string, error) {
	sub, err := m.clients.Dynamic.Resource(gvr.Subscriptions).Namespace(m.config.Namespace).
		Get(ctx, m.config.Package, metav1.GetOptions{})
	if err != nil {
		return "", hwperrors.Wrap(hwperrors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to fetch Subscription %s", m.config.Package), err)
	}
	name, _, _ := unstructured.NestedString(sub.Object, "status", "installedCSV")
	if name == "" {
		name, _, _ = unstructured.NestedString(sub.Object, "status", "currentCSV")
	}
	if name == "" {
		return "", hwperrors.New(hwperrors.ErrCodeNotFound,
			fmt.Sprintf("subscription %s has no installed CSV", m.config.Package))
	}
	return name, nil
}
