// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package display renders the helper's results for a human operator:
// verification reports, teardown outcomes and reconcile summaries as aligned
// text on the chosen writer.
package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/capture"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/operator"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/reconciler"
)

// titler capitalizes labels for display.
var titler = cases.Title(language.English)

// Renderer writes human-readable result blocks to one destination.
type Renderer struct {
	out io.Writer
}

// New creates a Renderer over the given writer.
func New(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// DeleteResults prints one line per teardown outcome under a title.
func (r *Renderer) DeleteResults(title string, results []k8s.DeleteResult) {
	fmt.Fprintf(r.out, "%s:\n", titler.String(title))

	tw := tabwriter.NewWriter(r.out, 2, 2, 2, ' ', 0)
	for _, res := range results {
		target := res.Name
		if res.Namespace != "" {
			target = res.Namespace + "/" + res.Name
		}
		line := fmt.Sprintf("  %s\t%s\t%s", res.Kind, target, res.Outcome)
		if res.Error != "" {
			line += "\t" + res.Error
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()
}

// VerifyReport prints the checks with pass/fail markers and a summary line.
func (r *Renderer) VerifyReport(report *platform.Report) {
	fmt.Fprintln(r.out, "Verification:")

	tw := tabwriter.NewWriter(r.out, 2, 2, 2, ' ', 0)
	for _, check := range report.Checks {
		marker := "PASS"
		if !check.Passed {
			marker = "FAIL"
		}
		line := fmt.Sprintf("  [%s]\t%s", marker, check.Name)
		if check.Detail != "" {
			line += "\t" + check.Detail
		}
		fmt.Fprintln(tw, line)
	}
	tw.Flush()

	if report.Passed() {
		fmt.Fprintf(r.out, "all %d checks passed\n", len(report.Checks))
	} else {
		fmt.Fprintf(r.out, "%d of %d checks failed: %s\n",
			len(report.Failed()), len(report.Checks), strings.Join(report.Failed(), ", "))
	}
}

// ReconcileResult summarizes what a reconciliation did, or would do under
// dry run.
func (r *Renderer) ReconcileResult(result *reconciler.Result) {
	verb := "patched"
	if result.DryRun {
		verb = "would patch"
	}

	if !result.Changed() {
		fmt.Fprintln(r.out, "no change needed")
	}
	if result.AnnotationPatched {
		fmt.Fprintf(r.out, "%s managed annotation to \"false\"\n", verb)
	}
	if len(result.EntriesAppended) > 0 {
		fmt.Fprintf(r.out, "%s disallowed list, appending: %s\n",
			verb, strings.Join(result.EntriesAppended, ", "))
	}
	if len(result.EntriesPresent) > 0 {
		fmt.Fprintf(r.out, "already present: %s\n", strings.Join(result.EntriesPresent, ", "))
	}
	if result.RestartTimedOut {
		fmt.Fprintln(r.out, "warning: controller restart did not complete in time")
	}
}

// UpgradeResult summarizes an upgrade.
func (r *Renderer) UpgradeResult(result *operator.UpgradeResult) {
	if result.DryRun {
		fmt.Fprintf(r.out, "would upgrade from %s on channel %s\n",
			result.PreviousCSV, result.Channel)
		return
	}
	fmt.Fprintf(r.out, "upgraded %s -> %s (channel %s)\n",
		result.PreviousCSV, result.TargetCSV, result.Channel)
}

// CaptureManifest summarizes a capture run.
func (r *Renderer) CaptureManifest(manifest *capture.Manifest) {
	meta := manifest.Header.GetMetadata()
	fmt.Fprintf(r.out, "%s capture %s (cluster %s):\n",
		titler.String(meta["phase"]), manifest.RunID(), meta["clusterVersion"])

	tw := tabwriter.NewWriter(r.out, 2, 2, 2, ' ', 0)
	for _, f := range manifest.Files {
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", f.Kind, f.Count, f.Path)
	}
	tw.Flush()
}
