// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/serializer"
)

// outputText is the default human-readable verify report.
const outputText = "text"

func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Check the migration outcome",
		Description: `Checks that the upgrade migrated the fixtures: every AcceleratorProfile
has a HardwareProfile counterpart, workload annotations were rewritten to
the hardware-profile form, and the inference service ConfigMap holds the
reconciled state. Prints a report and exits non-zero when any check
fails. With --output yaml or json the report is emitted machine-readable
instead.`,
		Flags: sessionFlags(
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report output (text, yaml or json)",
				Value:   outputText,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			output := cmd.String("output")
			if output != outputText && serializer.Format(output).IsUnknown() {
				return fmt.Errorf("unknown output %q (supported: text, yaml, json)", output)
			}

			clients, err := buildClients(ctx, cmd)
			if err != nil {
				return err
			}

			report, err := platform.New(clients, platformConfig(cmd)).Verify(ctx)
			if err != nil {
				return err
			}

			if output == outputText {
				renderer().VerifyReport(report)
			} else {
				content, err := serializer.Marshal(serializer.Format(output), report)
				if err != nil {
					return err
				}
				if _, err := os.Stdout.Write(content); err != nil {
					return err
				}
			}

			if !report.Passed() {
				return fmt.Errorf("%d verification checks failed", len(report.Failed()))
			}
			return nil
		},
	}
}
