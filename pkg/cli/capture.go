// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/capture"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/oci"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/serializer"
)

func captureCmd() *cli.Command {
	return &cli.Command{
		Name:  "capture",
		Usage: "Export the migration-relevant cluster state to files",
		Description: `Serializes the resource catalog to one file per kind, named by phase
(pre-install.yaml style), plus a manifest identifying the run. Take a
pre capture before the upgrade and a post capture after it to diff the
migration.

With --push the capture directory is additionally published to an OCI
registry as a single-layer artifact (target form
oci://registry/repository:tag).`,
		Flags: sessionFlags(
			&cli.StringFlag{
				Name:     "phase",
				Usage:    fmt.Sprintf("Capture phase (%q or %q)", capture.PhasePre, capture.PhasePost),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Output directory for the capture files",
				Sources: cli.EnvVars("HWPCTL_CAPTURE_DIR"),
				Value:   "captures",
			},
			&cli.StringSliceFlag{
				Name:  "kind",
				Usage: "Limit the capture to these catalog kinds (can be repeated)",
			},
			&cli.StringFlag{
				Name:  "push",
				Usage: "OCI target to publish the capture directory to (oci://registry/repo:tag)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP for the registry connection (local registries)",
			},
			formatFlag,
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format := serializer.Format(cmd.String("format"))
			if format.IsUnknown() {
				return fmt.Errorf("unknown output format: %q", cmd.String("format"))
			}

			// Validate the push target before doing any cluster work.
			var pushRef *oci.Reference
			if target := cmd.String("push"); target != "" {
				ref, err := oci.ParseTarget(target)
				if err != nil {
					return err
				}
				if !ref.IsOCI {
					return fmt.Errorf("--push target must be an oci:// reference, got %q", target)
				}
				pushRef = ref
			}

			clients, err := buildClients(ctx, cmd)
			if err != nil {
				return err
			}

			capturer, err := capture.New(clients, capture.Config{
				Phase:                 cmd.String("phase"),
				Dir:                   cmd.String("dir"),
				Format:                format,
				Kinds:                 cmd.StringSlice("kind"),
				OperatorNamespace:     cmd.String("operator-namespace"),
				ApplicationsNamespace: cmd.String("namespace"),
			})
			if err != nil {
				return err
			}

			manifest, err := capturer.Run(ctx)
			if err != nil {
				return err
			}
			renderer().CaptureManifest(manifest)

			if pushRef == nil {
				return nil
			}
			if pushRef.Tag == "" {
				pushRef.Tag = fmt.Sprintf("%s-%s", cmd.String("phase"), manifest.RunID())
			}
			result, err := oci.Push(ctx, oci.PushOptions{
				SourceDir: cmd.String("dir"),
				Reference: pushRef,
				Annotations: map[string]string{
					"io.opendatahub.hwpmig.run-id": manifest.RunID(),
					"io.opendatahub.hwpmig.phase":  cmd.String("phase"),
				},
				PlainHTTP: cmd.Bool("plain-http"),
			})
			if err != nil {
				return err
			}
			slog.Info("capture pushed", "reference", result.Reference, "digest", result.Digest)
			return nil
		},
	}
}
