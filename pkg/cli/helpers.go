// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/defaults"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/display"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/k8s/client"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/operator"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
)

// buildClients constructs the cluster clients and probes the session before
// any command logic runs. Every command goes through here first.
func buildClients(ctx context.Context, cmd *cli.Command) (*client.Clients, error) {
	clients, err := client.Build(cmd.String("kubeconfig"))
	if err != nil {
		return nil, err
	}

	probeCtx, cancel := context.WithTimeout(ctx, defaults.SessionProbeTimeout)
	defer cancel()
	if err := clients.EnsureSession(probeCtx); err != nil {
		return nil, err
	}
	return clients, nil
}

// operatorConfig assembles the OLM manager configuration from the command
// flags plus an optional positional catalog image.
func operatorConfig(cmd *cli.Command, catalogImage string) operator.Config {
	return operator.Config{
		Namespace:    cmd.String("operator-namespace"),
		CatalogImage: catalogImage,
		DryRun:       cmd.Bool("dry-run"),
	}
}

// platformConfig assembles the platform configuration from the command flags.
func platformConfig(cmd *cli.Command) platform.Config {
	return platform.Config{
		Namespace: cmd.String("namespace"),
		DryRun:    cmd.Bool("dry-run"),
	}
}

// renderer writes human-readable results to stdout; logs stay on stderr.
func renderer() *display.Renderer {
	return display.New(os.Stdout)
}
