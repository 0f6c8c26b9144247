/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package fs provides the filesystem abstraction used to read token and
// config files and to write resolved output.
package fs

import (
	"io/fs"
	"os"
)

// FileSystem is the subset of filesystem operations dtref needs.
// It embeds fs.FS so it can be walked with fs.WalkDir for glob expansion.
type FileSystem interface {
	fs.FS

	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error
	Exists(path string) bool
}

// OSFileSystem implements FileSystem on the host filesystem.
type OSFileSystem struct{}

// NewOSFileSystem creates a new filesystem backed by the os package.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Open opens the named file for reading. Unlike os.DirFS, absolute paths are accepted.
func (*OSFileSystem) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadDir lets fs.WalkDir read directories without going through Open.
func (*OSFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// ReadFile reads the entire contents of a file.
func (*OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// WriteFile writes data to a file with the given permissions.
func (*OSFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Exists returns true if the path exists.
func (*OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
