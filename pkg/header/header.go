// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package header

import (
	"time"
)

// APIVersion is the schema version stamped on helper artifacts.
const APIVersion = "hwpmig/v1"

// Kind represents the type of helper artifact.
type Kind string

// Valid Kind constants for artifacts the helper produces.
const (
	KindCapture      Kind = "Capture"
	KindVerifyReport Kind = "VerifyReport"
	KindReconcile    Kind = "ReconcileResult"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindCapture, KindVerifyReport, KindReconcile:
		return true
	default:
		return false
	}
}

// Header identifies an artifact written by the helper: its kind, schema
// version, creation time and free-form metadata (run id, phase, cluster
// version).
type Header struct {
	APIVersion string            `json:"apiVersion" yaml:"apiVersion"`
	Kind       Kind              `json:"kind" yaml:"kind"`
	CreatedAt  time.Time         `json:"createdAt" yaml:"createdAt"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata returns an Option that adds a metadata key-value pair.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		if h.Metadata == nil {
			h.Metadata = make(map[string]string)
		}
		h.Metadata[key] = value
	}
}

// WithKind returns an Option that sets the Kind field.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// New creates a Header with the current UTC timestamp and applies the options.
func New(opts ...Option) *Header {
	h := &Header{
		APIVersion: APIVersion,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GetKind returns the artifact kind.
func (h *Header) GetKind() Kind {
	return h.Kind
}

// GetMetadata returns the metadata map, never nil.
func (h *Header) GetMetadata() map[string]string {
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	return h.Metadata
}
