// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package defaults centralizes the timeout and polling constants used by the
// lifecycle drivers. Every bounded wait in the helper takes its limit from
// here so the budgets are reviewable in one place.
package defaults
