package main

import (
	"path/filepath"
	"testing"

	"github.com/aretw0/fsmkit/internal/demo/vending"
	"github.com/aretw0/fsmkit/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tables")
	want := vending.Definition()

	paths, err := writeTables(dir, want)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "vending.yaml"),
		filepath.Join(dir, "vending.json"),
	}, paths)

	for _, path := range paths {
		got, err := schema.Load(path)
		require.NoError(t, err, path)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Initial, got.Initial)
		assert.Equal(t, want.Labels, got.Labels)
		assert.Equal(t, want.Transitions, got.Transitions)
	}
}

func TestWriteTables_RejectsInvalidDefinition(t *testing.T) {
	dir := t.TempDir()
	_, err := writeTables(dir, &schema.Definition{Name: "broken"})
	require.Error(t, err)
	assert.NotEmpty(t, schema.ValidationErrors(err))
	assert.NoFileExists(t, filepath.Join(dir, "broken.yaml"))
}
