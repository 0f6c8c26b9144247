/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	dtfs "bennypowers.dev/dtref/fs"
)

// ConfigFileName is the base name of the config file without extension.
const ConfigFileName = "dtref"

// ConfigDir is the directory where config files are stored.
const ConfigDir = ".config"

// configExtensions are the supported config file extensions in priority order.
var configExtensions = []string{".yaml", ".yml", ".json"}

// Find returns the path of the first config file under rootDir, or ""
// when there is none.
func Find(filesystem dtfs.FileSystem, rootDir string) string {
	for _, ext := range configExtensions {
		configPath := filepath.Join(rootDir, ConfigDir, ConfigFileName+ext)
		if filesystem.Exists(configPath) {
			return configPath
		}
	}
	return ""
}

// Load searches for .config/dtref.{yaml,yml,json} from rootDir.
// Returns nil if no config found (not an error).
func Load(filesystem dtfs.FileSystem, rootDir string) (*Config, error) {
	configPath := Find(filesystem, rootDir)
	if configPath == "" {
		return nil, nil
	}
	return LoadFile(filesystem, configPath)
}

// LoadFile reads a config file. The format follows the file extension;
// anything but .json is read as YAML.
func LoadFile(filesystem dtfs.FileSystem, configPath string) (*Config, error) {
	data, err := filesystem.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	switch filepath.Ext(configPath) {
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// ExpandSpecs expands glob patterns in specs and returns absolute paths,
// in declaration order with duplicates removed.
func ExpandSpecs(filesystem dtfs.FileSystem, rootDir string, specs []FileSpec) ([]string, error) {
	var result []string
	seen := make(map[string]bool)

	for _, spec := range specs {
		expanded, err := expandFilePath(filesystem, rootDir, spec.Path)
		if err != nil {
			return nil, err
		}
		for _, p := range expanded {
			if !seen[p] {
				seen[p] = true
				result = append(result, p)
			}
		}
	}

	return result, nil
}

// expandFilePath expands a single file path which may contain globs.
func expandFilePath(filesystem dtfs.FileSystem, rootDir, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(rootDir, pattern)
	}

	if !containsGlob(pattern) {
		// errors surface when the file is read
		return []string{pattern}, nil
	}

	return expandGlob(filesystem, pattern)
}

// containsGlob returns true if the pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// expandGlob expands a glob pattern against the filesystem.
func expandGlob(filesystem dtfs.FileSystem, pattern string) ([]string, error) {
	baseDir := pattern
	for containsGlob(baseDir) {
		baseDir = filepath.Dir(baseDir)
	}

	relPattern := strings.TrimPrefix(pattern, baseDir)
	relPattern = strings.TrimPrefix(relPattern, string(filepath.Separator))

	var matches []string

	err := fs.WalkDir(filesystem, baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		relPath := strings.TrimPrefix(path, baseDir)
		relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

		if matched, _ := doublestar.Match(relPattern, relPath); matched {
			matches = append(matches, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return matches, nil
}
