// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/gvr"
)

// Prepare creates the migration fixtures: one AcceleratorProfile per entry in
// FixtureProfiles, plus a Notebook, a ServingRuntime and an InferenceService
// that reference the first profile through the v2 accelerator annotation.
// The upgrade must migrate all of them. Creation is idempotent.
func (p *Platform) Prepare(ctx context.Context) error {
	for _, name := range FixtureProfiles {
		if err := p.ensureFixture(ctx, gvr.AcceleratorProfiles, p.acceleratorProfile(name)); err != nil {
			return err
		}
	}

	profile := FixtureProfiles[0]
	if err := p.ensureFixture(ctx, gvr.Notebooks, p.notebook(profile)); err != nil {
		return err
	}
	if err := p.ensureFixture(ctx, gvr.ServingRuntimes, p.servingRuntime()); err != nil {
		return err
	}
	return p.ensureFixture(ctx, gvr.InferenceServices, p.inferenceService(profile))
}

func (p *Platform) ensureFixture(ctx context.Context, resource schema.GroupVersionResource, obj *unstructured.Unstructured) error {
	if p.config.DryRun {
		slog.Info("dry run, would ensure fixture",
			"kind", obj.GetKind(), "name", obj.GetName(), "namespace", p.config.Namespace)
		return nil
	}

	_, err := p.clients.Dynamic.Resource(resource).Namespace(p.config.Namespace).
		Create(ctx, obj, metav1.CreateOptions{})
	if err := ignoreAlreadyExists(err); err != nil {
		return hwperrors.Wrap(hwperrors.ErrCodePatchRejected,
			fmt.Sprintf("failed to create %s %s", obj.GetKind(), obj.GetName()), err)
	}
	slog.Info("fixture ensured", "kind", obj.GetKind(), "name", obj.GetName())
	return nil
}

func (p *Platform) acceleratorProfile(name string) *unstructured.Unstructured {
	identifier := "nvidia.com/gpu"
	if name == "migration-amd-gpu" {
		identifier = "amd.com/gpu"
	}
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "dashboard.opendatahub.io/v1",
		"kind":       "AcceleratorProfile",
		"metadata": map[string]any{
			"name":      name,
			"namespace": p.config.Namespace,
		},
		"spec": map[string]any{
			"displayName": name,
			"enabled":     true,
			"identifier":  identifier,
		},
	}}
}

func (p *Platform) notebook(profile string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "kubeflow.org/v1",
		"kind":       "Notebook",
		"metadata": map[string]any{
			"name":        NotebookFixture,
			"namespace":   p.config.Namespace,
			"annotations": map[string]any{AcceleratorAnnotation: profile},
		},
		"spec": map[string]any{
			"template": map[string]any{
				"spec": map[string]any{
					"containers": []any{map[string]any{
						"name":  NotebookFixture,
						"image": "quay.io/opendatahub/workbench-images:jupyter-minimal",
					}},
				},
			},
		},
	}}
}

func (p *Platform) servingRuntime() *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "serving.kserve.io/v1alpha1",
		"kind":       "ServingRuntime",
		"metadata": map[string]any{
			"name":      ServingRuntimeFixture,
			"namespace": p.config.Namespace,
		},
		"spec": map[string]any{
			"supportedModelFormats": []any{
				map[string]any{"name": "onnx", "version": "1"},
			},
			"containers": []any{map[string]any{
				"name":  "kserve-container",
				"image": "quay.io/opendatahub/openvino_model_server:stable",
			}},
			"multiModel": false,
		},
	}}
}

func (p *Platform) inferenceService(profile string) *unstructured.Unstructured {
	return &unstructured.Unstructured{Object: map[string]any{
		"apiVersion": "serving.kserve.io/v1beta1",
		"kind":       "InferenceService",
		"metadata": map[string]any{
			"name":        InferenceServiceFixture,
			"namespace":   p.config.Namespace,
			"annotations": map[string]any{AcceleratorAnnotation: profile},
		},
		"spec": map[string]any{
			"predictor": map[string]any{
				"model": map[string]any{
					"modelFormat": map[string]any{"name": "onnx"},
					"runtime":     ServingRuntimeFixture,
					"storageUri":  "oci://quay.io/opendatahub/modelcar-sample:latest",
				},
			},
		},
	}}
}
