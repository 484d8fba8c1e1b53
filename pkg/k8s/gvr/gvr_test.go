// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package gvr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	res, ok := Lookup("subscriptions")
	require.True(t, ok)
	assert.Equal(t, "operators.coreos.com", res.Group)
	assert.Equal(t, "subscriptions", res.Resource)

	_, ok = Lookup("widgets")
	assert.False(t, ok)
}

func TestIsClusterScoped(t *testing.T) {
	assert.True(t, IsClusterScoped("namespaces"))
	assert.True(t, IsClusterScoped("customresourcedefinitions"))
	assert.False(t, IsClusterScoped("subscriptions"))
	assert.False(t, IsClusterScoped("clusterserviceversions"))
}

func TestNames_SortedAndComplete(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "hardwareprofiles")
	assert.Contains(t, names, "acceleratorprofiles")
	assert.Contains(t, names, "configmaps")
}

func TestSuggest(t *testing.T) {
	got, ok := Suggest("notebok")
	require.True(t, ok)
	assert.Equal(t, "notebooks", got)

	got, ok = Suggest("hardwareprofile")
	require.True(t, ok)
	assert.Equal(t, "hardwareprofiles", got)

	_, ok = Suggest("zzzzzzzzzzzzzzzzzzzzzz")
	assert.False(t, ok)
}
