// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args))
}
