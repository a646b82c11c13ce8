package ports

import "time"

// FileSystem defines the file queries the staleness check needs.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Exists reports whether a file or directory exists at path.
	Exists(path string) (bool, error)
	// ModTime returns the last modification time of path.
	ModTime(path string) (time.Time, error)
}
