// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec implements the born subcommands for producing,
// inspecting and validating BORN data from the command line.
//
// Subcommands:
//
//   - encode: convert JSON (or JSONC) to BORN.
//   - decode: convert BORN to JSON.
//   - diag: render BORN in diagnostic notation, showing every tag.
//   - validate: verify BORN uses the narrowest size class everywhere.
//   - inspect: summarize size, structure and content digest.
//   - cbor to, cbor from: transcode between BORN and CBOR.
//
// Every subcommand accepts input from stdin or from a trailing file
// path argument. The --hex flag treats BORN input as hex-encoded for
// debugging wire dumps.
//
// The codec used by each command is built from the born.yaml named by
// --config or BORN_CONFIG (see lib/config). Extension types declared
// there are registered as generic descriptors, so typed objects decode
// to {"$type": ..., "$value": ...} instead of failing.
package codec
