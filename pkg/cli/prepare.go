// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
)

func prepareCmd() *cli.Command {
	return &cli.Command{
		Name:  "prepare",
		Usage: "Create the migration fixtures",
		Description: `Creates the AcceleratorProfiles the migration must convert, plus a
Notebook, a ServingRuntime and an InferenceService that reference them
through the v2 accelerator annotation. Run after install and before
upgrade; running it again reuses existing fixtures.`,
		Flags: sessionFlags(dryRunFlag),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			clients, err := buildClients(ctx, cmd)
			if err != nil {
				return err
			}

			if err := platform.New(clients, platformConfig(cmd)).Prepare(ctx); err != nil {
				return err
			}
			slog.Info("fixtures ready",
				"profiles", len(platform.FixtureProfiles), "namespace", cmd.String("namespace"))
			return nil
		},
	}
}
