// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package oci

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hwperrors "github.com/sukumars321/rhoai-hwp-migration-test-helper/pkg/errors"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    Reference
		wantErr bool
	}{
		{
			name:   "local directory",
			target: "captures/run-1",
			want:   Reference{LocalPath: "captures/run-1"},
		},
		{
			name:   "tagged oci uri",
			target: "oci://quay.io/myorg/hwp-captures:pre-upgrade",
			want: Reference{
				IsOCI: true, Registry: "quay.io",
				Repository: "myorg/hwp-captures", Tag: "pre-upgrade",
			},
		},
		{
			name:   "untagged oci uri leaves tag empty",
			target: "oci://localhost:5000/captures",
			want: Reference{
				IsOCI: true, Registry: "localhost:5000", Repository: "captures",
			},
		},
		{
			name:    "invalid oci uri",
			target:  "oci://not a reference",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTarget(tc.target)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, hwperrors.ErrCodeInvalidRequest, hwperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, *got)
		})
	}
}

func TestReference_StringRoundTrip(t *testing.T) {
	for _, target := range []string{
		"captures/run-1",
		"oci://quay.io/myorg/hwp-captures:pre-upgrade",
		"oci://quay.io/myorg/hwp-captures",
	} {
		ref, err := ParseTarget(target)
		require.NoError(t, err)
		assert.Equal(t, target, ref.String())
	}
}

func TestPush_RequiresOCITarget(t *testing.T) {
	local, err := ParseTarget("captures/run-1")
	require.NoError(t, err)

	_, err = Push(context.Background(), PushOptions{SourceDir: "captures", Reference: local})
	require.Error(t, err)
	assert.Equal(t, hwperrors.ErrCodeInvalidRequest, hwperrors.CodeOf(err))
}

func TestPush_RequiresTag(t *testing.T) {
	ref, err := ParseTarget("oci://quay.io/myorg/hwp-captures")
	require.NoError(t, err)

	_, err = Push(context.Background(), PushOptions{SourceDir: "captures", Reference: ref})
	require.Error(t, err)
	assert.Equal(t, hwperrors.ErrCodeInvalidRequest, hwperrors.CodeOf(err))
}
