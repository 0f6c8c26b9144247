/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package mapfs provides an in-memory filesystem for tests.
package mapfs

import (
	"io/fs"
	"path"
	"strings"
	"sync"
	"testing/fstest"
	"time"
)

// MapFileSystem implements fs.FileSystem on top of fstest.MapFS.
// Paths may be given absolute ("/tokens/a.json") or relative; both map to
// the same entry.
type MapFileSystem struct {
	mu      sync.RWMutex
	files   fstest.MapFS
	modTime time.Time
}

// New creates an empty in-memory filesystem.
func New() *MapFileSystem {
	return &MapFileSystem{
		files:   make(fstest.MapFS),
		modTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// AddFile adds a file.
func (m *MapFileSystem) AddFile(p, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(p)] = &fstest.MapFile{Data: []byte(content), Mode: 0o644, ModTime: m.modTime}
}

// Open implements fs.FS.
func (m *MapFileSystem) Open(name string) (fs.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.files.Open(clean(name))
}

// ReadDir implements fs.ReadDirFS.
func (m *MapFileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fs.ReadDir(m.files, clean(name))
}

// ReadFile reads a file.
func (m *MapFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fs.ReadFile(m.files, clean(name))
}

// WriteFile stores a copy of data. Parent directories are implicit.
func (m *MapFileSystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[clean(name)] = &fstest.MapFile{Data: append([]byte(nil), data...), Mode: perm, ModTime: m.modTime}
	return nil
}

// Exists reports whether p is a file or a directory holding files.
func (m *MapFileSystem) Exists(p string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p = clean(p)
	if _, ok := m.files[p]; ok {
		return true
	}
	prefix := p + "/"
	if p == "." {
		return len(m.files) > 0
	}
	for name := range m.files {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// clean maps a slash path to an fs.FS name.
func clean(p string) string {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}
