// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/reconciler"
)

func reconcileCmd() *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Reconcile the inference service ConfigMap",
		Description: `Pins the managed annotation of the inferenceservice-config ConfigMap to
"false" and appends the hardware-profile annotations to its disallowed
list, then restarts the KServe controller so it observes the change.
Idempotent: a cluster already in the desired state is left untouched.
With --dry-run the change set is reported without writing.`,
		Flags: sessionFlags(dryRunFlag),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(ctx, cmd)
			if err != nil {
				return err
			}

			result, err := reconciler.New(clients.Typed, reconciler.Config{
				Namespace: cmd.String("namespace"),
				DryRun:    cmd.Bool("dry-run"),
			}).Reconcile(ctx)
			if err != nil {
				return err
			}
			renderer().ReconcileResult(result)
			return nil
		},
	}
}
