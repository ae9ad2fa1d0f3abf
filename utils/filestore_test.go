package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskPath(t *testing.T) {
	assert.Equal(t, filepath.Join("up", "a.jpg"), DiskPath("up", "/uploads/a.jpg"))
	// traversal attempts collapse to the base name
	assert.Equal(t, filepath.Join("up", "passwd"), DiskPath("up", "/uploads/../../etc/passwd"))
	// paths outside the public prefix are refused
	assert.Equal(t, "", DiskPath("up", "/etc/passwd"))
	assert.Equal(t, "", DiskPath("up", "a.jpg"))
}

func TestRemovePublicFiles(t *testing.T) {
	dir := t.TempDir()
	kept := filepath.Join(dir, "kept.jpg")
	gone := filepath.Join(dir, "gone.jpg")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(gone, []byte("x"), 0o644))

	RemovePublicFiles(dir, []string{
		"/uploads/gone.jpg",
		"/uploads/never-existed.jpg", // missing files are tolerated
		"/outside/kept.jpg",          // outside the prefix, ignored
	})

	assert.NoFileExists(t, gone)
	assert.FileExists(t, kept)
}
