// Package loader reads and parses configuration documents.
//
// The loader package knows the structured formats configuration files may
// use (YAML, TOML, JSON) and turns raw bytes into nested maps. Reading and
// parsing are separate steps because environment interpolation runs on the
// raw text in between.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileSystem is an abstraction for the file system operations discovery
// needs. This allows for easy testing against fixture directories.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
	// Glob returns the names matching pattern, as filepath.Glob does.
	Glob(pattern string) ([]string, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Glob returns the names matching pattern.
func (OSFS) Glob(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}

// DefaultFS returns the default file system (OS).
func DefaultFS() FileSystem {
	return OSFS{}
}
