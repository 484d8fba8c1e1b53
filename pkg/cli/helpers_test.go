// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/operator"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/platform"
)

func TestRootCommandTree(t *testing.T) {
	root := rootCmd()

	want := []string{"install", "prepare", "upgrade", "verify", "cleanup", "reconcile", "capture"}
	got := make([]string, 0, len(root.Commands))
	for _, cmd := range root.Commands {
		got = append(got, cmd.Name)
	}
	assert.Equal(t, want, got)
}

func TestSessionFlagDefaults(t *testing.T) {
	// Flag defaults must match the package defaults so a bare invocation
	// targets a stock RHOAI install.
	var opCfg operator.Config
	var platCfg platform.Config

	cmd := &cli.Command{
		Flags: sessionFlags(dryRunFlag),
		Action: func(_ context.Context, c *cli.Command) error {
			opCfg = operatorConfig(c, "")
			platCfg = platformConfig(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test"}))

	assert.Equal(t, operator.DefaultNamespace, opCfg.Namespace)
	assert.Equal(t, platform.DefaultNamespace, platCfg.Namespace)
	assert.False(t, opCfg.DryRun)
}

func TestNamespaceFlagAlias(t *testing.T) {
	var namespace string
	cmd := &cli.Command{
		Flags: sessionFlags(),
		Action: func(_ context.Context, c *cli.Command) error {
			namespace = c.String("namespace")
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "-n", "custom-apps"}))
	assert.Equal(t, "custom-apps", namespace)
}

func TestDryRunFlagFlowsIntoConfigs(t *testing.T) {
	var opCfg operator.Config
	var platCfg platform.Config

	cmd := &cli.Command{
		Flags: sessionFlags(dryRunFlag),
		Action: func(_ context.Context, c *cli.Command) error {
			opCfg = operatorConfig(c, "quay.io/myorg/rhoai-catalog:v3")
			platCfg = platformConfig(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"test", "--dry-run"}))

	assert.True(t, opCfg.DryRun)
	assert.True(t, platCfg.DryRun)
	assert.Equal(t, "quay.io/myorg/rhoai-catalog:v3", opCfg.CatalogImage)
}

func TestInstall_RejectsExtraPositionalArgs(t *testing.T) {
	err := installCmd().Run(context.Background(), []string{"install", "image-one", "image-two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one positional argument")
}

func TestUpgrade_RejectsExtraPositionalArgs(t *testing.T) {
	err := upgradeCmd().Run(context.Background(), []string{"upgrade", "image-one", "image-two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one positional argument")
}

func TestCleanup_GateRunsBeforeClusterWork(t *testing.T) {
	// Test stdin is not a terminal: without --yes the scope prompt fails
	// with guidance before any cluster contact is attempted.
	err := cleanupCmd().Run(context.Background(), []string{"cleanup"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestVerify_RejectsUnknownOutput(t *testing.T) {
	err := verifyCmd().Run(context.Background(), []string{"verify", "--output", "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output")
}

func TestCapture_RejectsUnknownFormat(t *testing.T) {
	err := captureCmd().Run(context.Background(),
		[]string{"capture", "--phase", "pre", "--format", "toml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestCapture_RejectsNonOCIPushTarget(t *testing.T) {
	err := captureCmd().Run(context.Background(),
		[]string{"capture", "--phase", "pre", "--format", "yaml",
			"--push", "docker.io/myorg/captures:pre"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oci://")
}
