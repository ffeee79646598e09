// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import (
	"bytes"
	"fmt"
	"sort"
)

// TypeCodeSize is the width of the wire name following TYPED_OBJECT.
const TypeCodeSize = 16

// TypeCode is the 16-byte wire name of a registered type.
type TypeCode [TypeCodeSize]byte

// MakeTypeCode converts a type name to its wire code: the name's bytes
// padded on the right with spaces, or truncated to 16 bytes. Names that
// share their first 16 bytes therefore collide, which [NewRegistry]
// rejects.
func MakeTypeCode(name string) TypeCode {
	var code TypeCode
	n := copy(code[:], name)
	for i := n; i < TypeCodeSize; i++ {
		code[i] = ' '
	}
	return code
}

// String returns the code with its space padding removed.
func (c TypeCode) String() string {
	return string(bytes.TrimRight(c[:], " "))
}

// EncodeFunc encodes a nested value into the same output, sharing the
// caller's depth accounting. Encode hooks receive one bound to the
// current encode call.
type EncodeFunc func(value Value) error

// DecodeFunc decodes the next value from the same input cursor. Decode
// hooks receive one bound to the current decode call.
type DecodeFunc func() (Value, error)

// Representation is a type's canonical conversion to and from a plain
// encodable value. A descriptor without hooks is encoded as its
// representation and rebuilt from it on decode.
type Representation interface {
	ToValue(object any) (Value, error)
	FromValue(value Value) (any, error)
}

// RepresentationFuncs adapts a pair of functions to [Representation].
type RepresentationFuncs struct {
	To   func(object any) (Value, error)
	From func(value Value) (any, error)
}

func (r RepresentationFuncs) ToValue(object any) (Value, error) {
	if r.To == nil {
		return Value{}, fmt.Errorf("%w: representation has no To function", ErrInvalidTypeDescriptor)
	}
	return r.To(object)
}

func (r RepresentationFuncs) FromValue(value Value) (any, error) {
	if r.From == nil {
		return nil, fmt.Errorf("%w: representation has no From function", ErrInvalidTypeDescriptor)
	}
	return r.From(value)
}

// TypeDescriptor registers one extension type.
//
// On encode, Encode takes precedence over Representation; on decode,
// Decode takes precedence over Representation. A descriptor with
// neither for the direction in use fails with ErrInvalidTypeDescriptor
// when such a value is met.
type TypeDescriptor struct {
	// Name is the wire name, padded or truncated to 16 bytes.
	Name string

	// Identity matches [Typed] values on the encode path and is
	// attached to decoded values. Defaults to Name.
	Identity string

	// Encode writes the payload after the type code. It may write raw
	// bytes through w, call encode for nested values, or both.
	Encode func(w *Writer, object any, encode EncodeFunc) error

	// Decode reads the payload written by Encode from r and returns the
	// rebuilt object.
	Decode func(r *Reader, decode DecodeFunc) (any, error)

	// Representation is the fallback when a hook is missing.
	Representation Representation
}

// registeredType is one row of the registry, shared by both indexes.
type registeredType struct {
	descriptor TypeDescriptor
	code       TypeCode
}

// Registry is the immutable bidirectional type table of a [Codec]:
// identity to code for encoding, code to identity for decoding. A nil
// *Registry is an empty registry.
type Registry struct {
	byIdentity map[string]*registeredType
	byCode     map[TypeCode]*registeredType
}

// NewRegistry builds a registry from descriptors. It fails when a name
// is empty, when two descriptors share an identity, or when two names
// map to the same 16-byte code.
func NewRegistry(descriptors ...TypeDescriptor) (*Registry, error) {
	registry := &Registry{
		byIdentity: make(map[string]*registeredType, len(descriptors)),
		byCode:     make(map[TypeCode]*registeredType, len(descriptors)),
	}
	for index, descriptor := range descriptors {
		if descriptor.Name == "" {
			return nil, fmt.Errorf("born: type descriptor %d has an empty name", index)
		}
		if descriptor.Identity == "" {
			descriptor.Identity = descriptor.Name
		}
		code := MakeTypeCode(descriptor.Name)
		if existing, ok := registry.byIdentity[descriptor.Identity]; ok {
			return nil, fmt.Errorf("born: type identity %q registered twice (names %q and %q)",
				descriptor.Identity, existing.descriptor.Name, descriptor.Name)
		}
		if existing, ok := registry.byCode[code]; ok {
			return nil, fmt.Errorf("born: type names %q and %q share the wire code %q",
				existing.descriptor.Name, descriptor.Name, code.String())
		}
		row := &registeredType{descriptor: descriptor, code: code}
		registry.byIdentity[descriptor.Identity] = row
		registry.byCode[code] = row
	}
	return registry, nil
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byIdentity)
}

// Lookup finds the descriptor and wire code for an identity.
func (r *Registry) Lookup(identity string) (TypeDescriptor, TypeCode, bool) {
	if r == nil {
		return TypeDescriptor{}, TypeCode{}, false
	}
	row, ok := r.byIdentity[identity]
	if !ok {
		return TypeDescriptor{}, TypeCode{}, false
	}
	return row.descriptor, row.code, true
}

// LookupCode finds the descriptor registered for a wire code.
func (r *Registry) LookupCode(code TypeCode) (TypeDescriptor, bool) {
	if r == nil {
		return TypeDescriptor{}, false
	}
	row, ok := r.byCode[code]
	if !ok {
		return TypeDescriptor{}, false
	}
	return row.descriptor, true
}

// Names returns the registered wire names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.byIdentity))
	for _, row := range r.byIdentity {
		names = append(names, row.descriptor.Name)
	}
	sort.Strings(names)
	return names
}
