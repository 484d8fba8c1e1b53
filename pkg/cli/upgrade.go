// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/operator"
)

// defaultUpgradeChannel is the channel carrying the v3 operator.
const defaultUpgradeChannel = "fast"

func upgradeCmd() *cli.Command {
	return &cli.Command{
		Name:      "upgrade",
		Usage:     "Upgrade the installed operator to the target channel",
		ArgsUsage: "[CATALOG_IMAGE]",
		Description: `Moves the Subscription to the target channel and waits for the new CSV
to succeed. The upgrade is held at the InstallPlan until the resolved
target version is confirmed to not be a downgrade of the installed one.

An optional positional CATALOG_IMAGE points the custom CatalogSource at
a new index image before the channel switch.`,
		Flags: sessionFlags(
			&cli.StringFlag{
				Name:    "channel",
				Usage:   "Target subscription channel",
				Sources: cli.EnvVars("HWPCTL_UPGRADE_CHANNEL"),
				Value:   defaultUpgradeChannel,
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

			mgr, err := operator.New(clients, operatorConfig(cmd, cmd.Args().First()))
			if err != nil {
				return err
			}

			result, err := mgr.Upgrade(ctx, cmd.String("channel"))
			if err != nil {
				return err
			}
			renderer().UpgradeResult(result)
			return nil
		},
	}
}
