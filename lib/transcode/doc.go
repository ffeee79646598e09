// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transcode converts BORN values to and from the CBOR and JSON
// data models.
//
// Both directions keep map entry order. BORN kinds that the target
// model lacks are written in a fixed convention and recognised on the
// way back:
//
//	BORN       CBOR                        JSON
//	bytes      byte string                 {"$bytes": "<base64>"}
//	timestamp  tag 0 date string           {"$date": "<RFC 3339>"}
//	typed      tag 27 [identity, payload]  {"$type": "<identity>", "$value": <payload>}
//
// Typed values must carry a [born.Extension] or a [born.Valuer] so the
// payload can be expressed as a plain value. Typed values read from
// CBOR or JSON carry a born.Extension, which a codec with a
// [born.GenericDescriptor] for the same name encodes back to BORN.
package transcode
