package config

import (
	"io/fs"
	"os"
)

// FileSystem abstracts file reads for testability.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path comes from the operator
	return os.ReadFile(path)
}

// MapFSAdapter adapts an fs.FS, typically fstest.MapFS, to FileSystem.
type MapFSAdapter struct {
	FS fs.FS
}

// ReadFile reads path from the wrapped filesystem.
func (m MapFSAdapter) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(m.FS, path)
}
