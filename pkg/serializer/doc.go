// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package serializer renders captured resource bodies and helper reports as
// YAML (default) or JSON, to files or stdout.
package serializer
