// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package serializer

// Format represents the output format type.
type Format string

const (
	// FormatJSON outputs data in JSON format.
	FormatJSON Format = "json"
	// FormatYAML outputs data in YAML format.
	FormatYAML Format = "yaml"
)

// IsUnknown reports whether f is not one of the supported formats.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML:
		return false
	default:
		return true
	}
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// SupportedFormats returns the list of supported output formats.
func SupportedFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON)}
}
