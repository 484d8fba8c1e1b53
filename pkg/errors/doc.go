// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors provides structured errors with stable error codes for the
// migration helper. Codes distinguish the fatal failure classes surfaced by
// the lifecycle commands (missing resources, rejected writes, malformed
// embedded payloads) from advisory conditions, and support errors.Is/As
// unwrapping of the underlying cause.
package errors
