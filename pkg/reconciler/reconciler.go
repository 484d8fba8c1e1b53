// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/client"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/waiter"
)

const (
	// DefaultConfigMapName is the inference service configuration ConfigMap
	// owned by the platform operator.
	DefaultConfigMapName = "inferenceservice-config"

	// ManagedAnnotation marks the ConfigMap as operator-managed. The
	// migration requires it pinned to "false" so manual edits survive.
	ManagedAnnotation = "opendatahub.io/managed"

	// managedDisabled is the terminal value of ManagedAnnotation.
	managedDisabled = "false"

	// DefaultPayloadKey is the data key holding the embedded JSON document.
	DefaultPayloadKey = "service"

	// disallowedListField is the JSON list field inside the payload that
	// the migration extends.
	disallowedListField = "serviceAnnotationDisallowedList"

	// DefaultDeployment is the controller that must observe the ConfigMap
	// change via a rollout restart.
	DefaultDeployment = "kserve-controller-manager"
)

// DesiredDisallowedEntries are the annotations the migration adds to the
// disallowed list, in the order they must be appended.
var DesiredDisallowedEntries = []string{
	"opendatahub.io/hardware-profile-name",
	"opendatahub.io/hardware-profile-namespace",
}

// Config configures a single reconciliation run. Zero values take the
// package defaults; Namespace is required.
type Config struct {
	Namespace      string
	ConfigMapName  string
	PayloadKey     string
	Entries        []string
	Deployment     string
	DryRun         bool
	RestartTimeout time.Duration
}

// Result reports what the reconciliation did (or, under dry-run, would do).
type Result struct {
	// AnnotationPatched is true when the managed annotation needed a write.
	AnnotationPatched bool `json:"annotationPatched" yaml:"annotationPatched"`
	// EntriesAppended lists the disallowed-list entries that were missing,
	// in append order.
	EntriesAppended []string `json:"entriesAppended,omitempty" yaml:"entriesAppended,omitempty"`
	// EntriesPresent lists the desired entries that were already in place.
	EntriesPresent []string `json:"entriesPresent,omitempty" yaml:"entriesPresent,omitempty"`
	// DataPatched is true when the payload data field needed a write.
	DataPatched bool `json:"dataPatched" yaml:"dataPatched"`
	// RestartTimedOut is true when the dependent controller did not report
	// ready within the bound. Advisory: the reconciliation itself succeeded.
	RestartTimedOut bool `json:"restartTimedOut,omitempty" yaml:"restartTimedOut,omitempty"`
	// DryRun records whether the run was a dry run.
	DryRun bool `json:"dryRun,omitempty" yaml:"dryRun,omitempty"`
}

// Changed reports whether the run found anything to do.
func (r *Result) Changed() bool {
	return r.AnnotationPatched || r.DataPatched
}

// Reconciler brings the inference service ConfigMap to the state the
// hardware-profile migration requires: managed annotation pinned to "false"
// and the desired entries present in the payload's disallowed list. Every
// write is conditional on actual need and the routine is idempotent.
type Reconciler struct {
	clientset client.Interface
	waiter    *waiter.Waiter
	config    Config
}

// New creates a Reconciler, applying package defaults to unset fields.
func New(clientset client.Interface, cfg Config) *Reconciler {
	if cfg.ConfigMapName == "" {
		cfg.ConfigMapName = DefaultConfigMapName
	}
	if cfg.PayloadKey == "" {
		cfg.PayloadKey = DefaultPayloadKey
	}
	if len(cfg.Entries) == 0 {
		cfg.Entries = DesiredDisallowedEntries
	}
	if cfg.Deployment == "" {
		cfg.Deployment = DefaultDeployment
	}
	if cfg.RestartTimeout == 0 {
		cfg.RestartTimeout = defaults.ControllerRestartTimeout
	}
	return &Reconciler{
		clientset: clientset,
		waiter:    waiter.New(),
		config:    cfg,
	}
}

// newWithWaiter is used by tests to inject a fast waiter.
func newWithWaiter(clientset client.Interface, cfg Config, w *waiter.Waiter) *Reconciler {
	r := New(clientset, cfg)
	r.waiter = w
	return r
}

// Reconcile runs the routine. The returned Result is non-nil on success and
// under dry-run; errors carry structured codes (NOT_FOUND, FETCH_FAILED,
// MALFORMED_PAYLOAD, PATCH_REJECTED).
func (r *Reconciler) Reconcile(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{DryRun: r.config.DryRun}

	if _, err := r.clientset.CoreV1().Namespaces().Get(ctx, r.config.Namespace, metav1.GetOptions{}); err != nil {
		reconcileTotal.WithLabelValues(outcomeError).Inc()
		if apierrors.IsNotFound(err) {
			return nil, hwperrors.Wrap(hwperrors.ErrCodeNotFound,
				fmt.Sprintf("namespace %s not found", r.config.Namespace), err)
		}
		return nil, hwperrors.Wrap(hwperrors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to check namespace %s", r.config.Namespace), err)
	}

	cm, err := r.fetch(ctx)
	if err != nil {
		reconcileTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}

	// Validate the embedded payload up front so a malformed document fails
	// the run before any patch is attempted.
	payload, err := r.parsePayload(cm)
	if err != nil {
		reconcileTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}

	cm, err = r.ensureManagedAnnotation(ctx, cm, result)
	if err != nil {
		reconcileTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}
	if result.AnnotationPatched && !r.config.DryRun {
		// The annotation write produced a new resourceVersion; re-parse from
		// the fresh copy rather than operating on the stale one.
		if payload, err = r.parsePayload(cm); err != nil {
			reconcileTotal.WithLabelValues(outcomeError).Inc()
			return nil, err
		}
	}

	if err := r.ensureDisallowedEntries(ctx, payload, result); err != nil {
		reconcileTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}

	if !result.Changed() {
		slog.Info("no change needed",
			"configmap", r.config.ConfigMapName,
			"namespace", r.config.Namespace)
		reconcileTotal.WithLabelValues(outcomeNoChange).Inc()
		reconcileDuration.Observe(time.Since(start).Seconds())
		return result, nil
	}

	if r.config.DryRun {
		slog.Info("dry run, skipping controller restart", "deployment", r.config.Deployment)
		reconcileTotal.WithLabelValues(outcomeDryRun).Inc()
		reconcileDuration.Observe(time.Since(start).Seconds())
		return result, nil
	}

	r.restartController(ctx, result)

	reconcileTotal.WithLabelValues(outcomeChanged).Inc()
	reconcileDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

// fetch reads the target ConfigMap.
func (r *Reconciler) fetch(ctx context.Context) (*corev1.ConfigMap, error) {
	cm, err := r.clientset.CoreV1().ConfigMaps(r.config.Namespace).
		Get(ctx, r.config.ConfigMapName, metav1.GetOptions{})
	if err != nil {
		return nil, hwperrors.WrapWithContext(hwperrors.ErrCodeFetchFailed,
			fmt.Sprintf("failed to fetch ConfigMap %s/%s", r.config.Namespace, r.config.ConfigMapName),
			err, map[string]any{"namespace": r.config.Namespace, "name": r.config.ConfigMapName})
	}
	return cm, nil
}

// parsePayload decodes the embedded JSON document from the payload data key.
// A missing key yields an empty document; invalid JSON is fatal.
func (r *Reconciler) parsePayload(cm *corev1.ConfigMap) (map[string]any, error) {
	raw, ok := cm.Data[r.config.PayloadKey]
	if !ok || raw == "" {
		return map[string]any{}, nil
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, hwperrors.WrapWithContext(hwperrors.ErrCodeMalformedPayload,
			fmt.Sprintf("data key %q of ConfigMap %s/%s is not valid JSON",
				r.config.PayloadKey, r.config.Namespace, r.config.ConfigMapName),
			err, map[string]any{"key": r.config.PayloadKey})
	}
	return payload, nil
}

// ensureManagedAnnotation pins the managed annotation to "false". When it is
// already exactly "false" nothing is written; otherwise a single merge patch
// sets it. Returns the ConfigMap to keep operating on: re-fetched after a
// real write, the in-memory copy otherwise.
func (r *Reconciler) ensureManagedAnnotation(ctx context.Context, cm *corev1.ConfigMap, result *Result) (*corev1.ConfigMap, error) {
	if cm.Annotations[ManagedAnnotation] == managedDisabled {
		slog.Info("managed annotation already satisfied",
			"configmap", r.config.ConfigMapName, "annotation", ManagedAnnotation)
		return cm, nil
	}

	result.AnnotationPatched = true

	patch := map[string]any{
		"metadata": map[string]any{
			"annotations": map[string]string{ManagedAnnotation: managedDisabled},
		},
	}
	if r.config.DryRun {
		slog.Info("dry run, would patch managed annotation",
			"configmap", r.config.ConfigMapName,
			"annotation", ManagedAnnotation,
			"value", managedDisabled)
		return cm, nil
	}

	if err := r.mergePatch(ctx, patch); err != nil {
		return nil, err
	}
	patchesApplied.WithLabelValues(patchTargetAnnotation).Inc()
	slog.Info("managed annotation patched",
		"configmap", r.config.ConfigMapName, "annotation", ManagedAnnotation)

	return r.fetch(ctx)
}

// ensureDisallowedEntries appends the missing desired entries to the
// disallowed list, preserving existing elements and their order, and writes
// the payload back with a single merge patch on the data field only. Elements
// that are not strings are kept verbatim in the rewritten list; they just
// never satisfy a desired entry.
func (r *Reconciler) ensureDisallowedEntries(ctx context.Context, payload map[string]any, result *Result) error {
	existing, _ := payload[disallowedListField].([]any)

	present := make(map[string]bool, len(existing))
	for _, item := range existing {
		if s, ok := item.(string); ok {
			present[s] = true
		}
	}

	for _, entry := range r.config.Entries {
		if present[entry] {
			slog.Info("disallowed-list entry already present", "entry", entry)
			result.EntriesPresent = append(result.EntriesPresent, entry)
			continue
		}
		result.EntriesAppended = append(result.EntriesAppended, entry)
	}

	if len(result.EntriesAppended) == 0 {
		return nil
	}

	result.DataPatched = true

	updated := make([]any, 0, len(existing)+len(result.EntriesAppended))
	updated = append(updated, existing...)
	for _, entry := range result.EntriesAppended {
		updated = append(updated, entry)
	}
	payload[disallowedListField] = updated

	serialized, err := json.Marshal(payload)
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to re-serialize payload", err)
	}

	if r.config.DryRun {
		slog.Info("dry run, would append disallowed-list entries",
			"configmap", r.config.ConfigMapName,
			"entries", result.EntriesAppended)
		return nil
	}

	patch := map[string]any{
		"data": map[string]string{r.config.PayloadKey: string(serialized)},
	}
	if err := r.mergePatch(ctx, patch); err != nil {
		return err
	}
	patchesApplied.WithLabelValues(patchTargetData).Inc()
	slog.Info("disallowed-list entries appended",
		"configmap", r.config.ConfigMapName,
		"entries", result.EntriesAppended)

	return nil
}

// mergePatch issues one bounded merge patch against the target ConfigMap.
func (r *Reconciler) mergePatch(ctx context.Context, patch map[string]any) error {
	body, err := json.Marshal(patch)
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodeInternal, "failed to marshal patch", err)
	}

	patchCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapPatchTimeout)
	defer cancel()

	_, err = r.clientset.CoreV1().ConfigMaps(r.config.Namespace).
		Patch(patchCtx, r.config.ConfigMapName, types.MergePatchType, body, metav1.PatchOptions{})
	if err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("merge patch of ConfigMap %s/%s rejected", r.config.Namespace, r.config.ConfigMapName),
			err)
	}
	return nil
}

// restartController triggers a rollout restart of the dependent controller
// and waits, bounded, for it to report ready. A timeout is advisory.
func (r *Reconciler) restartController(ctx context.Context, result *Result) {
	deployments := r.clientset.AppsV1().Deployments(r.config.Namespace)

	patch := fmt.Sprintf(
		`{"spec":{"template":{"metadata":{"annotations":{"kubectl.kubernetes.io/restartedAt":%q}}}}}`,
		time.Now().UTC().Format(time.RFC3339))
	if _, err := deployments.Patch(ctx, r.config.Deployment, types.MergePatchType,
		[]byte(patch), metav1.PatchOptions{}); err != nil {
		slog.Warn("failed to trigger controller restart",
			"deployment", r.config.Deployment, "error", err)
		result.RestartTimedOut = true
		return
	}

	state, err := r.waiter.Wait(ctx,
		fmt.Sprintf("deployment %s/%s rollout", r.config.Namespace, r.config.Deployment),
		r.config.RestartTimeout,
		func(ctx context.Context) (waiter.State, string, error) {
			dep, err := deployments.Get(ctx, r.config.Deployment, metav1.GetOptions{})
			if err != nil {
				return waiter.StatePending, "", err
			}
			if dep.Generation > dep.Status.ObservedGeneration {
				return waiter.StatePending, "generation not observed", nil
			}
			want := int32(1)
			if dep.Spec.Replicas != nil {
				want = *dep.Spec.Replicas
			}
			if dep.Status.UpdatedReplicas < want || dep.Status.AvailableReplicas < want {
				return waiter.StatePending,
					fmt.Sprintf("updated=%d available=%d want=%d",
						dep.Status.UpdatedReplicas, dep.Status.AvailableReplicas, want), nil
			}
			return waiter.StateReady, "", nil
		})
	if err != nil {
		// The reconciliation itself already succeeded; the controller will
		// converge on its own.
		slog.Warn("controller restart did not complete in time",
			"deployment", r.config.Deployment, "state", state, "error", err)
		result.RestartTimedOut = true
	}
}
