// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package header defines the common identification block written at the top
// of helper artifacts (capture manifests, verify reports), so downstream
// tooling can tell what a file is and which run produced it.
package header
