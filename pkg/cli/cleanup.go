// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/operator"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/prompt"
)

// Cleanup scopes, in prompt order. --yes selects the first.
const (
	cleanupScopeEverything = iota
	cleanupScopePlatform
)

func cleanupCmd() *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Tear down the fixtures, the platform and the operator",
		Description: `Deletes what the lifecycle created, in reverse order: workload fixtures
and profiles, the DataScienceCluster and DSCInitialization, and - unless
the platform-only scope is chosen - the Subscription, CSV, OperatorGroup,
custom CatalogSource and the namespaces. Asks for the scope and a
confirmation first (--yes selects the full scope); individual delete
failures are reported but do not stop the teardown.`,
		Flags: sessionFlags(dryRunFlag, yesFlag),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p := prompt.New(cmd.Bool("yes"))
			scope, err := p.Choose("What should the cleanup remove?", []string{
				"everything: fixtures, platform, operator and namespaces",
				"platform only: fixtures, DataScienceCluster and DSCInitialization",
			})
			if err != nil {
				return err
			}

			question := fmt.Sprintf("delete the RHOAI install in %s and %s",
				cmd.String("operator-namespace"), cmd.String("namespace"))
			if scope == cleanupScopePlatform {
				question = fmt.Sprintf("delete the platform fixtures and cluster resources in %s",
					cmd.String("namespace"))
			}
			confirmed, err := p.Confirm(question)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Println("cleanup aborted")
				return nil
			}

			clients, err := buildClients(ctx, cmd)
			if err != nil {
				return err
			}

			out := renderer()
			out.DeleteResults("platform teardown",
				platform.New(clients, platformConfig(cmd)).Teardown(ctx))

			if scope == cleanupScopePlatform {
				return nil
			}

			mgr, err := operator.New(clients, operatorConfig(cmd, ""))
			if err != nil {
				return err
			}
			out.DeleteResults("operator cleanup", mgr.Cleanup(ctx))

			// The applications namespace is created by the operator, so it is
			// removed last, once nothing manages it anymore.
			if !cmd.Bool("dry-run") {
				err := clients.Typed.CoreV1().Namespaces().
					Delete(ctx, cmd.String("namespace"), metav1.DeleteOptions{})
				if err != nil && !apierrors.IsNotFound(err) {
					slog.Warn("could not delete applications namespace",
						"namespace", cmd.String("namespace"), "error", err)
				}
			}
			return nil
		},
	}
}
