// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/reconciler"
)

func TestDeleteResults(t *testing.T) {
	var out bytes.Buffer
	New(&out).DeleteResults("cleanup", []k8s.DeleteResult{
		{Kind: "Subscription", Name: "rhods-operator", Namespace: "redhat-ods-operator",
			Outcome: k8s.OutcomeDeleted},
		{Kind: "Namespace", Name: "redhat-ods-operator",
			Outcome: k8s.OutcomeFailed, Error: "finalizers pending"},
	})

	s := out.String()
	assert.Contains(t, s, "Cleanup:")
	assert.Contains(t, s, "redhat-ods-operator/rhods-operator")
	assert.Contains(t, s, "Deleted")
	assert.Contains(t, s, "finalizers pending")
}

func TestVerifyReport(t *testing.T) {
	var out bytes.Buffer
	New(&out).VerifyReport(&platform.Report{Checks: []platform.Check{
		{Name: "hardwareprofile migration-nvidia-gpu materialized", Passed: true},
		{Name: "inferenceservice-config reconciled", Passed: false, Detail: "missing entries"},
	}})

	s := out.String()
	assert.Contains(t, s, "[PASS]")
	assert.Contains(t, s, "[FAIL]")
	assert.Contains(t, s, "1 of 2 checks failed")
	assert.Contains(t, s, "inferenceservice-config reconciled")
}

func TestReconcileResult_DryRunVerb(t *testing.T) {
	var out bytes.Buffer
	New(&out).ReconcileResult(&reconciler.Result{
		AnnotationPatched: true,
		EntriesAppended:   []string{"opendatahub.io/hardware-profile-name"},
		DryRun:            true,
	})

	s := out.String()
	assert.Contains(t, s, "would patch managed annotation")
	assert.Contains(t, s, "would patch disallowed list")
}

func TestReconcileResult_NoChange(t *testing.T) {
	var out bytes.Buffer
	New(&out).ReconcileResult(&reconciler.Result{})
	assert.Contains(t, out.String(), "no change needed")
}
