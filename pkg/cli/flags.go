// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/operator"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/serializer"
)

// Flags shared across commands.
var (
	namespaceFlag = &cli.StringFlag{
		Name:    "namespace",
		Aliases: []string{"n"},
		Usage:   "Applications namespace the platform workloads live in",
		Sources: cli.EnvVars("HWPCTL_NAMESPACE"),
		Value:   platform.DefaultNamespace,
	}

	operatorNamespaceFlag = &cli.StringFlag{
		Name:    "operator-namespace",
		Usage:   "Namespace the operator Subscription lives in",
		Sources: cli.EnvVars("HWPCTL_OPERATOR_NAMESPACE"),
		Value:   operator.DefaultNamespace,
	}

	dryRunFlag = &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Compute and report every change without writing to the cluster",
	}

	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "Path to the kubeconfig file (defaults to KUBECONFIG, then ~/.kube/config, then in-cluster)",
		Sources: cli.EnvVars("KUBECONFIG"),
	}

	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars("HWPCTL_LOG_LEVEL"),
		Value:   "info",
	}

	yesFlag = &cli.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Skip interactive confirmation prompts",
	}

	formatFlag = &cli.StringFlag{
		Name: "format",
		Usage: fmt.Sprintf("Output file format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
		Value: string(serializer.FormatYAML),
	}
)

// sessionFlags are the flags every cluster-touching command carries.
func sessionFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{namespaceFlag, operatorNamespaceFlag, kubeconfigFlag, logLevelFlag}
	return append(flags, extra...)
}
