// Package fs provides the file system adapter used for staleness checks.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"syscall"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/pmake/internal/core/domain"
	"go.trai.ch/pmake/internal/core/ports"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem answers existence and modification time queries against the OS.
// Relative paths are resolved against the process working directory.
type FileSystem struct{}

// New creates a new FileSystem.
func New() *FileSystem {
	return &FileSystem{}
}

// Exists reports whether path exists. A missing path is not an error,
// including one below a regular file such as "main.c/x".
func (f *FileSystem) Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, iofs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return true, nil
}

// ModTime returns the modification time of path.
func (f *FileSystem) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, zerr.With(zerr.Wrap(err, domain.ErrPathStatFailed.Error()), "path", path)
	}
	return info.ModTime(), nil
}
