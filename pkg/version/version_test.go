// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Version
		wantErr error
	}{
		{
			name: "full version",
			in:   "2.16.0",
			want: Version{Major: 2, Minor: 16, Patch: 0, Precision: 3},
		},
		{
			name: "v prefix",
			in:   "v3.0",
			want: Version{Major: 3, Minor: 0, Precision: 2},
		},
		{
			name: "single component",
			in:   "3",
			want: Version{Major: 3, Precision: 1},
		},
		{
			name: "rc suffix",
			in:   "3.0.0-rc1",
			want: Version{Major: 3, Minor: 0, Patch: 0, Precision: 3, Extras: "-rc1"},
		},
		{name: "empty", in: "  ", wantErr: ErrEmptyVersion},
		{name: "too many components", in: "1.2.3.4", wantErr: ErrTooManyComponents},
		{name: "non numeric", in: "3.x", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, in := range []string{"2.16.0", "3.0", "3", "3.0.0-rc1"} {
		v, err := Parse(in)
		require.NoError(t, err)
		assert.Equal(t, in, v.String())
	}
}

func TestCompare(t *testing.T) {
	mustParse := func(s string) Version {
		v, err := Parse(s)
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		a, b string
		want int
	}{
		{"2.16.0", "3.0.0", -1},
		{"3.0.0", "2.16.0", 1},
		{"3", "3.0.0", 0},
		{"3.0.0-rc1", "3.0.0", 0}, // extras ignored
		{"2.16.1", "2.16.0", 1},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, mustParse(tt.a).Compare(mustParse(tt.b)))
		})
	}

	assert.True(t, mustParse("3.0.0").AtLeast(mustParse("2.16.0")))
	assert.False(t, mustParse("2.16.0").AtLeast(mustParse("3.0.0")))
}

func TestFromCSVName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"rhods-operator.v2.16.0", "2.16.0"},
		{"rhods-operator.3.0.0", "3.0.0"},
		{"2.16.0", "2.16.0"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := FromCSVName(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}
