// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package operator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/gvr"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/version"
)

// UpgradeResult reports the before and after of a channel upgrade.
type UpgradeResult struct {
	PreviousCSV string `json:"previousCSV" yaml:"previousCSV"`
	TargetCSV   string `json:"targetCSV" yaml:"targetCSV"`
	Channel     string `json:"channel" yaml:"channel"`
	DryRun      bool   `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
}

// Upgrade moves the Subscription to the given channel (and the custom
// CatalogSource to the configured image, when one is set), then waits for a
// new CSV and refuses to proceed past resolution when it would be a
// downgrade. On a refused downgrade the pending InstallPlan is left
// unapproved, so the installed operator is untouched.
func (m *Manager) Upgrade(ctx context.Context, channel string) (*UpgradeResult, error) {
	if channel == "" {
		return nil, hwperrors.New(hwperrors.ErrCodeInvalidRequest, "upgrade channel is required")
	}

	installed, err := m.InstalledCSV(ctx)
	if err != nil {
		return nil, err
	}
	installedVersion, err := version.FromCSVName(installed)
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal,
			fmt.Sprintf("cannot parse version of installed CSV %s", installed), err)
	}

	result := &UpgradeResult{PreviousCSV: installed, Channel: channel, DryRun: m.config.DryRun}

	if m.config.DryRun {
		slog.Info("dry run, would upgrade subscription",
			"subscription", m.config.Package, "channel", channel, "installed", installed)
		return result, nil
	}

	if m.config.CatalogImage != "" {
		if err := m.updateCatalogImage(ctx); err != nil {
			return nil, err
		}
	}
	if err := m.patchSubscriptionChannel(ctx, channel); err != nil {
		return nil, err
	}

	// Manual approval from here on: the direction check has to happen after
	// OLM resolves the target CSV but before anything is installed.
	if err := m.patchSubscriptionApproval(ctx, "Manual"); err != nil {
		return nil, err
	}

	target, err := m.waitForCurrentCSV(ctx, installed)
	if err != nil {
		return nil, err
	}
	result.TargetCSV = target

	targetVersion, err := version.FromCSVName(target)
	if err != nil {
		return nil, hwperrors.Wrap(hwperrors.ErrCodeInternal,
			fmt.Sprintf("cannot parse version of target CSV %s", target), err)
	}
	if targetVersion.Compare(installedVersion) < 0 {
		return nil, hwperrors.NewWithContext(hwperrors.ErrCodeInvalidRequest,
			fmt.Sprintf("refusing downgrade from %s to %s", installed, target),
			map[string]any{"installed": installed, "target": target})
	}

	if err := m.approveInstallPlan(ctx); err != nil {
		return nil, err
	}
	if err := m.waitForCSVSucceeded(ctx, target); err != nil {
		return nil, err
	}

	slog.Info("upgrade complete", "from", installed, "to", target, "channel", channel)
	return result, nil
}

// updateCatalogImage points the custom CatalogSource at the configured index
// image, creating the source if it does not exist yet.
func (m *Manager) updateCatalogImage(ctx context.Context) error {
	if err := m.ensureCatalogSource(ctx); err != nil {
		return err
	}

	patch, err := json.Marshal(map[string]any{
		"spec": map[string]string{"image": m.config.CatalogImage},
	})
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to marshal catalog patch", err)
	}

	_, err = m.clients.Dynamic.Resource(gvr.CatalogSources).Namespace(CatalogNamespace).
		Patch(ctx, CustomCatalogSource, types.MergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to update CatalogSource %s image", CustomCatalogSource), err)
	}
	slog.Info("CatalogSource image updated",
		"name", CustomCatalogSource, "image", m.config.CatalogImage)
	return nil
}

func (m *Manager) patchSubscriptionChannel(ctx context.Context, channel string) error {
	patch, err := json.Marshal(map[string]any{
		"spec": map[string]string{
			"channel":         channel,
			"source":          m.catalogSource(),
			"sourceNamespace": CatalogNamespace,
		},
	})
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to marshal subscription patch", err)
	}

	_, err = m.clients.Dynamic.Resource(gvr.Subscriptions).Namespace(m.config.Namespace).
		Patch(ctx, m.config.Package, types.MergePatchType, patch, metav1.PatchOptions{})
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to patch Subscription %s channel", m.config.Package), err)
	}
	slog.Info("subscription channel patched", "subscription", m.config.Package, "channel", channel)
	return nil
}

func (m *Manager) patchSubscriptionApproval(ctx context.Context, approval string) error {
	patch := fmt.Sprintf(`{"spec":{"installPlanApproval":%q}}`, approval)
	_, err := m.clients.Dynamic.Resource(gvr.Subscriptions).Namespace(m.config.Namespace).
		Patch(ctx, m.config.Package, types.MergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to set Subscription %s approval to %s", m.config.Package, approval), err)
	}
	return nil
}
