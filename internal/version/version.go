/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package version reports the dtref build.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time via -ldflags "-X bennypowers.dev/dtref/internal/version.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = "unknown"
	BuildTime = "unknown"
	GitDirty  = ""
)

// BuildInfo describes a dtref binary.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"gitCommit"`
	GitTag    string `json:"gitTag"`
	BuildTime string `json:"buildTime"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the version string. Explicit ldflags win, then the module
// version recorded by go install, then tag plus short commit.
func Get() string {
	if Version != "dev" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}

	if GitTag == "unknown" || GitCommit == "unknown" {
		return "dev"
	}

	v := GitTag
	if short := shortCommit(GitCommit); short != "" && !strings.HasSuffix(GitTag, short) {
		v = fmt.Sprintf("%s-%s", GitTag, short)
	}
	if GitDirty == "dirty" {
		v += "-dirty"
	}
	return v
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

// Info returns detailed build information.
func Info() BuildInfo {
	return BuildInfo{
		Version:   Get(),
		GitCommit: GitCommit,
		GitTag:    GitTag,
		BuildTime: BuildTime,
		Dirty:     GitDirty == "dirty",
	}
}
