// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package born

import "fmt"

// Extension is a typed value whose payload is an ordinary BORN value.
// Tools that do not know the Go type behind a wire name register a
// [GenericDescriptor] and receive Extension objects.
type Extension struct {
	Name  string
	Value Value
}

// BornTypeID implements [TypeIdentifier].
func (x Extension) BornTypeID() string { return x.Name }

// GenericDescriptor returns a descriptor that encodes [Extension]
// objects as their inner value and decodes any payload of the named
// type into an Extension.
func GenericDescriptor(name string) TypeDescriptor {
	return TypeDescriptor{
		Name:           name,
		Representation: extensionRepresentation{name: name},
	}
}

type extensionRepresentation struct {
	name string
}

func (r extensionRepresentation) ToValue(object any) (Value, error) {
	switch extension := object.(type) {
	case Extension:
		return extension.Value, nil
	case *Extension:
		if extension == nil {
			return Null(), nil
		}
		return extension.Value, nil
	default:
		return Value{}, fmt.Errorf("%w: %T registered as %q is not an Extension", ErrUnsupportedType, object, r.name)
	}
}

func (r extensionRepresentation) FromValue(value Value) (any, error) {
	return Extension{Name: r.name, Value: value}, nil
}
