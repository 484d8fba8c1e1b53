// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/logging"
)

const (
	name           = "hwpctl"
	versionDefault = "dev"
)

// Exit codes.
const (
	exitOK          = 0
	exitFatal       = 1
	exitInterrupted = 130
)

// overridden during build with ldflags
var version = versionDefault

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Drive a cluster through the RHOAI hardware-profile migration",
		Version: version,
		Description: `Drives an OpenShift cluster through the install, prepare, upgrade,
verify and cleanup lifecycle of the RHOAI operator, exercising the
accelerator-profile to hardware-profile migration. State captures taken
before and after the upgrade make the migration diffable.`,
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Flags: []cli.Flag{logLevelFlag},
		Commands: []*cli.Command{
			installCmd(),
			prepareCmd(),
			upgradeCmd(),
			verifyCmd(),
			cleanupCmd(),
			reconcileCmd(),
			captureCmd(),
		},
	}
}

// Run executes the command tree and maps the result to a process exit code:
// 0 on success, 130 when the operator interrupted the run, 1 on any fatal
// error.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd().Run(ctx, args)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		fmt.Fprintln(os.Stderr, "interrupted")
		return exitInterrupted
	default:
		if code := hwperrors.CodeOf(err); code != "" {
			fmt.Fprintf(os.Stderr, "%s: %v\n", code, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitFatal
	}
}
