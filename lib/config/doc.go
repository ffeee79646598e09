// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the born tool.
//
// Configuration is loaded from a single file specified by either the
// BORN_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search; without either, commands run with
// [Default].
//
// A configuration file looks like:
//
//	codec:
//	  max_depth: 256
//	  strict_tags: true
//	output:
//	  compact: false
//	  indent: "\t"
//	types:
//	  - name: RegExp
//	  - name: point
//	    identity: example.com/geometry.point
//	types_file: ${BORN_CONFIG_DIR}/more-types.yaml
//
// Variable expansion is performed on types_file only: ${HOME},
// ${BORN_CONFIG_DIR} (the directory holding the config file) and
// ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- master struct with Codec, Output, Types
//   - [Default] -- returns a Config with default limits
//   - [Load] and [LoadFile] -- the two entry points for loading
//   - [Config.Validate] -- reports every problem at once
//
// This package depends only on lib/born, for the wire-name rule.
package config
