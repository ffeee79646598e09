// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the born
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// When GitCommit is not injected, the VCS revision, modification flag
// and commit time recorded by the Go toolchain are used instead.
//
//	go build -ldflags "-X github.com/bureau-foundation/born/lib/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/born
//
// Formatting functions:
//
//   - [Info] -- "0.1.0-dev (abc1234, 2026-02-10T...)" for born version
//   - [Full] -- Info plus Go version and GOOS/GOARCH
//   - [Short] -- just the version number
//   - [Commit] -- just the git SHA
package version
