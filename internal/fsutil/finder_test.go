package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.hcl", "a.yaml", "nested/c.yml", "notes.txt"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	files, err := FindFilesByExtension(root, ".hcl", ".yaml", ".yml")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "a.yaml"),
		filepath.Join(root, "b.hcl"),
		filepath.Join(root, "nested", "c.yml"),
	}, files)

	// A single file is returned as-is.
	files, err = FindFilesByExtension(filepath.Join(root, "b.hcl"), ".hcl")
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = FindFilesByExtension(filepath.Join(root, "notes.txt"), ".hcl")
	require.Error(t, err)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
	require.Error(t, err)

	assert.Panics(t, func() { _, _ = FindFilesByExtension(root) })
}
