/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package testutil provides fixture loading for tests.
package testutil

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"testing"

	"bennypowers.dev/dtref/internal/mapfs"
)

// fixturePath finds testdata/<rel> from a package directory at any depth
// below the module root.
func fixturePath(t *testing.T, rel string) string {
	t.Helper()
	for _, dir := range []string{"testdata", filepath.Join("..", "testdata"), filepath.Join("..", "..", "testdata")} {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	t.Fatalf("could not find fixture %s (tried all paths)", rel)
	return ""
}

// NewFixtureFS loads every file under testdata/<fixtureDir> into an
// in-memory filesystem rooted at rootPath.
func NewFixtureFS(t *testing.T, fixtureDir, rootPath string) *mapfs.MapFileSystem {
	t.Helper()

	mfs := mapfs.New()
	base := fixturePath(t, fixtureDir)

	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		mfs.AddFile(path.Join(rootPath, filepath.ToSlash(rel)), string(content))
		return nil
	})
	if err != nil {
		t.Fatalf("failed to load fixtures from %s: %v", fixtureDir, err)
	}

	return mfs
}

// LoadFixtureFile reads a single fixture file.
func LoadFixtureFile(t *testing.T, rel string) []byte {
	t.Helper()
	content, err := os.ReadFile(fixturePath(t, rel))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", rel, err)
	}
	return content
}
