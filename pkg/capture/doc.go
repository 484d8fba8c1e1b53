// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package capture exports the migration-relevant cluster state to files, one
// file per resource kind, named by phase so a pre-upgrade capture can be
// diffed against the post-upgrade one. Kinds are exported sequentially; each
// capture carries a manifest identifying the run.
package capture
