// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package logging wraps log/slog with helper-wide defaults: structured JSON
// records on stderr, module/version context on every record, LOG_LEVEL
// environment fallback, and source locations at debug level.
//
// Commands install the default logger once at startup:
//
//	logging.SetDefaultStructuredLoggerWithLevel("hwpctl", version, logLevel)
//
// and use slog directly everywhere else.
package logging
