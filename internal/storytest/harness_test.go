package storytest_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/weave/internal/storytest"
)

func TestWriteScriptWritesAndReturnsPath(t *testing.T) {
	dir := storytest.CreateTempDir(t, "storytest")
	defer storytest.CleanupTempDir(dir)

	path := storytest.WriteScript(t, dir, "story.txt", "# Intro\n  Hello.\n")
	require.Equal(t, filepath.Join(dir, "story.txt"), path)
	require.True(t, storytest.FileExists(path))
	require.Equal(t, "# Intro\n  Hello.\n", storytest.ReadFile(t, path))
}

func TestCopyFileDuplicatesContents(t *testing.T) {
	dir := storytest.CreateTempDir(t, "storytest")
	defer storytest.CleanupTempDir(dir)

	src := storytest.WriteScript(t, dir, "src.txt", "original")
	dst := filepath.Join(dir, "nested", "dst.txt")
	storytest.CopyFile(t, src, dst)

	require.Equal(t, "original", storytest.ReadFile(t, dst))
}
