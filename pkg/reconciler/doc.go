// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package reconciler implements the idempotent ConfigMap routine at the
// center of the hardware-profile migration: pin the managed annotation of
// the inference service ConfigMap to "false" and make sure the embedded
// payload's annotation disallowed list contains the hardware-profile
// annotations, without disturbing any other field and without writing when
// nothing needs to change.
//
// The routine issues at most two merge patches (annotation, then the single
// data field) and then restarts the dependent controller so it observes the
// change. Existing list entries are never removed or reordered; missing
// entries are appended in a fixed order. A dry-run mode computes and reports
// the change set without mutating anything.
package reconciler
