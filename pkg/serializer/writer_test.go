// Copyright 2025 Red Hat, Inc.
// SPDX-License-Identifier: Apache-2.0

package serializer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name" yaml:"name"`
	Items []string `json:"items" yaml:"items"`
}

func TestWriter_Serialize(t *testing.T) {
	data := sample{Name: "pre-configmaps", Items: []string{"a", "b"}}

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(FormatYAML, &buf)
		require.NoError(t, w.Serialize(data))
		assert.Contains(t, buf.String(), "name: pre-configmaps")
		assert.Contains(t, buf.String(), "- a")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(FormatJSON, &buf)
		require.NoError(t, w.Serialize(data))
		assert.Contains(t, buf.String(), `"name": "pre-configmaps"`)
	})

	t.Run("unknown format falls back to yaml", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewWriter(Format("xml"), &buf)
		require.NoError(t, w.Serialize(data))
		assert.Contains(t, buf.String(), "name: pre-configmaps")
	})
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pre-notebooks.yaml")

	w, err := NewFileWriter(FormatYAML, path)
	require.NoError(t, err)
	require.NoError(t, w.Serialize(sample{Name: "n"}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close(), "double close is safe")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "name: n")
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(FormatJSON, map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"v"}`, string(out))

	_, err = Marshal(Format("toml"), nil)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatJSON.IsUnknown())
	assert.True(t, Format("csv").IsUnknown())
	assert.Equal(t, "yaml", FormatYAML.Extension())
	assert.Equal(t, "json", FormatJSON.Extension())
	assert.Equal(t, []string{"yaml", "json"}, SupportedFormats())
}
