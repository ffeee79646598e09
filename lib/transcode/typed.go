// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transcode

import (
	"fmt"
	"reflect"

	"github.com/bureau-foundation/born/lib/born"
)

// typedPayload returns the plain value carried by a typed value.
func typedPayload(v born.Value) (born.Value, error) {
	switch object := v.Object().(type) {
	case born.Extension:
		return object.Value, nil
	case *born.Extension:
		if object == nil {
			return born.Null(), nil
		}
		return object.Value, nil
	case born.Valuer:
		if rv := reflect.ValueOf(object); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return born.Null(), nil
		}
		inner, err := object.BornValue()
		if err != nil {
			return born.Value{}, fmt.Errorf("value representation of %q: %w", v.TypeID(), err)
		}
		return inner, nil
	default:
		return born.Value{}, fmt.Errorf("%w: typed value %q holds %T, which has no plain representation",
			born.ErrUnsupportedType, v.TypeID(), object)
	}
}
