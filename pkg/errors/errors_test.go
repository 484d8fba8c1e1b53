// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StructuredError
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeNotFound, "namespace missing"),
			want: "[NOT_FOUND] namespace missing",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodePatchRejected, "configmap patch failed", stderrors.New("conflict")),
			want: "[PATCH_REJECTED] configmap patch failed: conflict",
		},
		{
			name: "with context",
			err: NewWithContext(ErrCodeMalformedPayload, "bad payload", map[string]any{
				"key": "service",
			}),
			want: "[MALFORMED_PAYLOAD] bad payload",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestStructuredError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(ErrCodeFetchFailed, "fetch failed", cause)

	require.ErrorIs(t, err, cause)

	var se *StructuredError
	require.ErrorAs(t, fmt.Errorf("outer: %w", err), &se)
	assert.Equal(t, ErrCodeFetchFailed, se.Code)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "nil", err: nil, want: ""},
		{name: "structured", err: New(ErrCodeTimeout, "wait expired"), want: ErrCodeTimeout},
		{
			name: "wrapped structured",
			err:  fmt.Errorf("cmd: %w", New(ErrCodeUnauthorized, "no session")),
			want: ErrCodeUnauthorized,
		},
		{name: "plain error", err: stderrors.New("boom"), want: ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}
