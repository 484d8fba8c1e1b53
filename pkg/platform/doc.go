// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package platform manages the data-science platform layer on top of the
// installed operator: the DSCInitialization and DataScienceCluster singletons,
// the migration fixtures (AcceleratorProfiles plus workloads that reference
// them), the post-upgrade verification report, and the fixture teardown.
package platform
