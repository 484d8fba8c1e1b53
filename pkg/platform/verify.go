// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/gvr"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/reconciler"
)

// Check is one verification probe and its outcome.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Report collects the verification checks for one cluster.
type Report struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// Passed reports whether every check passed.
func (r *Report) Passed() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Failed returns the names of the failed checks.
func (r *Report) Failed() []string {
	var names []string
	for _, c := range r.Checks {
		if !c.Passed {
			names = append(names, c.Name)
		}
	}
	return names
}

func (r *Report) add(name string, passed bool, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: detail})
	if passed {
		slog.Info("check passed", "check", name)
	} else {
		slog.Warn("check failed", "check", name, "detail", detail)
	}
}

// Verify checks the migration outcome: a HardwareProfile materialized for
// each fixture AcceleratorProfile, workload annotations rewritten to the
// hardware-profile form, and the inference service ConfigMap already in the
// reconciled state. Probe errors fail the affected check, not the run.
func (p *Platform) Verify(ctx context.Context) (*Report, error) {
	report := &Report{}

	for _, profile := range FixtureProfiles {
		p.checkHardwareProfile(ctx, report, profile)
	}
	p.checkWorkloadAnnotation(ctx, report, gvr.Notebooks, "notebook", NotebookFixture)
	p.checkWorkloadAnnotation(ctx, report, gvr.InferenceServices, "inferenceservice", InferenceServiceFixture)
	p.checkConfigMapReconciled(ctx, report)

	return report, nil
}

func (p *Platform) checkHardwareProfile(ctx context.Context, report *Report, profile string) {
	name := fmt.Sprintf("hardwareprofile %s materialized", profile)

	_, err := p.clients.Dynamic.Resource(gvr.HardwareProfiles).Namespace(p.config.Namespace).
		Get(ctx, profile, metav1.GetOptions{})
	switch {
	case err == nil:
		report.add(name, true, "")
	case apierrors.IsNotFound(err):
		report.add(name, false,
			fmt.Sprintf("no HardwareProfile %s/%s", p.config.Namespace, profile))
	default:
		report.add(name, false, err.Error())
	}
}

func (p *Platform) checkWorkloadAnnotation(ctx context.Context, report *Report, resource schema.GroupVersionResource, kind, workload string) {
	name := fmt.Sprintf("%s %s annotation rewritten", kind, workload)

	obj, err := p.clients.Dynamic.Resource(resource).Namespace(p.config.Namespace).
		Get(ctx, workload, metav1.GetOptions{})
	if err != nil {
		report.add(name, false, err.Error())
		return
	}

	annotations := obj.GetAnnotations()
	profile := annotations[HardwareProfileAnnotation]
	if profile == "" {
		report.add(name, false,
			fmt.Sprintf("annotation %s missing, still %q=%q", HardwareProfileAnnotation,
				AcceleratorAnnotation, annotations[AcceleratorAnnotation]))
		return
	}
	report.add(name, true, fmt.Sprintf("references %s", profile))
}

// checkConfigMapReconciled runs the ConfigMap reconciler in dry-run mode: a
// verified cluster is one where it finds nothing to do.
func (p *Platform) checkConfigMapReconciled(ctx context.Context, report *Report) {
	const name = "inferenceservice-config reconciled"

	r := reconciler.New(p.clients.Typed, reconciler.Config{
		Namespace: p.config.Namespace,
		DryRun:    true,
	})
	result, err := r.Reconcile(ctx)
	if err != nil {
		report.add(name, false, fmt.Sprintf("%s: %v", hwperrors.CodeOf(err), err))
		return
	}
	if result.Changed() {
		var pending []string
		if result.AnnotationPatched {
			pending = append(pending, "managed annotation not pinned")
		}
		if len(result.EntriesAppended) > 0 {
			pending = append(pending,
				fmt.Sprintf("missing entries %s", strings.Join(result.EntriesAppended, ", ")))
		}
		report.add(name, false, strings.Join(pending, "; "))
		return
	}
	report.add(name, true, "")
}
