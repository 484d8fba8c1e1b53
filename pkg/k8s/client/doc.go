// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package client builds the typed and dynamic Kubernetes clients from the
// usual kubeconfig discovery chain and provides the session precondition
// probe every command runs first.
package client
