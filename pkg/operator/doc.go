// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package operator drives the OLM install lifecycle of the RHOAI operator:
// namespace, OperatorGroup, optional custom CatalogSource, Subscription,
// InstallPlan approval and the CSV Succeeded wait, plus channel upgrades and
// the reverse-order teardown. Every ensure step is idempotent and every
// delete reports whether the resource was actually there.
package operator
