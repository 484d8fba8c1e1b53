// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/operator"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/reconciler"
)

func installCmd() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Install the RHOAI operator and provision the platform",
		ArgsUsage: "[CATALOG_IMAGE]",
		Description: `Ensures the operator namespace, OperatorGroup and Subscription, waits
for the CSV to succeed, then creates the DSCInitialization and
DataScienceCluster and waits for both to report Ready. Finally the
inference service ConfigMap is reconciled so the migration annotations
survive the upgrade.

An optional positional CATALOG_IMAGE creates a custom CatalogSource from
that index image and subscribes from it instead of the marketplace
default.`,
		Flags: sessionFlags(
			&cli.StringFlag{
				Name:    "channel",
				Usage:   "Subscription channel for the initial install",
				Sources: cli.EnvVars("HWPCTL_CHANNEL"),
				Value:   operator.DefaultChannel,
			},
			dryRunFlag,
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() > 1 {
				return fmt.Errorf("at most one positional argument (CATALOG_IMAGE) is accepted")
			}

			clients, err := buildClients(ctx, cmd)
			if err != nil {
				return err
			}

			cfg := operatorConfig(cmd, cmd.Args().First())
			cfg.Channel = cmd.String("channel")
			mgr, err := operator.New(clients, cfg)
			if err != nil {
				return err
			}

			csvName, err := mgr.Install(ctx)
			if err != nil {
				return err
			}
			if csvName != "" {
				slog.Info("operator installed", "csv", csvName)
			}

			if err := platform.New(clients, platformConfig(cmd)).Provision(ctx); err != nil {
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
