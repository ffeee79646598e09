// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// readBuildInfo is debug.ReadBuildInfo, replaceable in tests.
var readBuildInfo = debug.ReadBuildInfo

// build holds the resolved build metadata.
type build struct {
	commit string
	dirty  bool
	time   string
}

// resolve prefers ldflags values and falls back to the VCS stamp the Go
// toolchain embeds when building from a checkout.
func resolve() build {
	resolved := build{commit: GitCommit, dirty: GitDirty == "true", time: BuildTime}
	if resolved.commit != "unknown" {
		return resolved
	}
	info, ok := readBuildInfo()
	if !ok {
		return resolved
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			resolved.commit = setting.Value[:min(len(setting.Value), 12)]
		case "vcs.modified":
			resolved.dirty = setting.Value == "true"
		case "vcs.time":
			if resolved.time == "unknown" {
				resolved.time = setting.Value
			}
		}
	}
	return resolved
}

// Info returns a formatted version string suitable for --version output.
func Info() string {
	resolved := resolve()
	dirty := ""
	if resolved.dirty {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, resolved.commit, dirty, resolved.time)
}

// Full returns detailed version information including Go version.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// Commit returns the git commit SHA.
func Commit() string {
	return resolve().commit
}
