package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cameronsjo/shipwright/internal/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "images", "9.11.2")
		require.NoError(t, fileutil.EnsureDir(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "images", "8.0.0")
		require.NoError(t, fileutil.EnsureDir(path))
		require.NoError(t, fileutil.EnsureDir(path))

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("fails when a file is in the way", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		blocker := filepath.Join(tmpDir, "images")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		err := fileutil.EnsureDir(filepath.Join(blocker, "1.0"))
		assert.Error(t, err)
	})
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("writes content with mode", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "Dockerfile")
		require.NoError(t, fileutil.WriteFile(path, []byte("FROM scratch\n"), 0644))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "FROM scratch\n", string(got))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "build")
		require.NoError(t, fileutil.WriteFile(path, []byte("old"), 0644))
		require.NoError(t, fileutil.WriteFile(path, []byte("new"), 0644))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "new", string(got))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		tmpDir := t.TempDir()
		require.NoError(t, fileutil.WriteFile(filepath.Join(tmpDir, "deploy"), []byte("x"), 0644))

		entries, err := os.ReadDir(tmpDir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "deploy", entries[0].Name())
	})

	t.Run("fails when parent is missing", func(t *testing.T) {
		t.Parallel()

		err := fileutil.WriteFile(filepath.Join(t.TempDir(), "missing", "file"), []byte("x"), 0644)
		assert.Error(t, err)
	})
}

func TestMakeExecutable(t *testing.T) {
	t.Parallel()

	t.Run("adds owner execute bit", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "build")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0644))
		require.NoError(t, os.Chmod(path, 0644))

		require.NoError(t, fileutil.MakeExecutable(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0744), info.Mode().Perm())
	})

	t.Run("keeps existing bits", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "deploy")
		require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0644))
		require.NoError(t, os.Chmod(path, 0750))

		require.NoError(t, fileutil.MakeExecutable(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0750), info.Mode().Perm())
	})

	t.Run("rejects directories", func(t *testing.T) {
		t.Parallel()

		err := fileutil.MakeExecutable(t.TempDir())
		assert.ErrorIs(t, err, fileutil.ErrNotAFile)
	})

	t.Run("rejects missing files", func(t *testing.T) {
		t.Parallel()

		err := fileutil.MakeExecutable(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})
}
