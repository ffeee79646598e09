// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Born is the command-line tool for BORN data. It converts between
// BORN and JSON or CBOR, renders diagnostic notation, checks canonical
// encoding and summarizes structure.
//
// The command tree is built in cmd/born/commands; the subcommands live
// in cmd/born/codec on top of the shared framework in cmd/born/cli.
package main
