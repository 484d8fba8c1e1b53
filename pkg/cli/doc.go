// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package cli wires the hwpctl command tree: install, prepare, upgrade,
// verify, cleanup, reconcile and capture, sharing one cluster session,
// confirmation gate and output surface.
package cli
