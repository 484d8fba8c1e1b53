// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package oci publishes capture directories to OCI-compliant registries via
// ORAS, so pre/post upgrade state can be archived next to the catalog images
// it was taken against. Targets are given as oci://registry/repo:tag URIs;
// anything else is treated as a local directory and left alone.
package oci
