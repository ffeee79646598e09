// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the born tool.
//
// The central type is [Command]: a named command with optional nested
// [Command.Subcommands], a parameter struct bound to flags through
// struct tags (see [BindFlags]), and a Run function that receives a
// context and a scoped [*slog.Logger]. Commands are assembled into a
// tree in cmd/born/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing and help output.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match within distance 3.
//
// Errors returned from Run may be categorized with [Validation] or
// [Internal]; [ExitError] carries an exit code for commands that have
// already written their own diagnostics.
package cli
