// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package k8s groups the cluster-access building blocks: client construction
// (client), the resource catalog (gvr), and bounded status waits (waiter).
package k8s
