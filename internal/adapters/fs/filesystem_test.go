package fs_test

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pmake/internal/adapters/fs"
)

func TestFileSystem_Exists(t *testing.T) {
	tmpDir := t.TempDir()
	fsys := fs.New()

	file := filepath.Join(tmpDir, "main.c")
	require.NoError(t, os.WriteFile(file, []byte("int main;"), 0o600))

	exists, err := fsys.Exists(file)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = fsys.Exists(tmpDir)
	require.NoError(t, err)
	assert.True(t, exists, "directories count as existing targets")

	exists, err = fsys.Exists(filepath.Join(tmpDir, "missing.c"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileSystem_ExistsBelowRegularFile(t *testing.T) {
	tmpDir := t.TempDir()
	fsys := fs.New()

	file := filepath.Join(tmpDir, "main.c")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	exists, err := fsys.Exists(filepath.Join(file, "x"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestFileSystem_ModTime(t *testing.T) {
	tmpDir := t.TempDir()
	fsys := fs.New()

	file := filepath.Join(tmpDir, "out.o")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	stamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(file, stamp, stamp))

	got, err := fsys.ModTime(file)
	require.NoError(t, err)
	assert.True(t, got.Equal(stamp), "got %v, want %v", got, stamp)
}

func TestFileSystem_ModTimeMissing(t *testing.T) {
	fsys := fs.New()

	_, err := fsys.ModTime(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.ErrorIs(t, err, iofs.ErrNotExist)
}
