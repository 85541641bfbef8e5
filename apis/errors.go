/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTypeMismatch is returned when a set targets a slot whose concrete
	// type differs from the supplied value. No coercion is ever attempted.
	ErrTypeMismatch = errors.New("props: type mismatch")
	// ErrNotFound is returned when a field name or index does not exist.
	ErrNotFound = errors.New("props: field not found")
	// ErrShapeMismatch is returned when a record is applied onto a sequence
	// (or the reverse), or when a shape-specific operation is used on the
	// wrong shape.
	ErrShapeMismatch = errors.New("props: shape mismatch")
	// ErrUnknownType is returned when decoding meets a type identity that is
	// absent from the registry.
	ErrUnknownType = errors.New("props: unknown type")
	// ErrNotReflectable is returned for values that cannot be exposed as
	// Properties (non-pointers, unsupported kinds, nil pointers).
	ErrNotReflectable = errors.New("props: value is not reflectable")
	// ErrFixedLength is returned when growing or shrinking a fixed-length
	// sequence (a Go array).
	ErrFixedLength = errors.New("props: sequence has fixed length")
	// ErrInvalidValue is returned when an invalid (empty) Value is supplied.
	ErrInvalidValue = errors.New("props: invalid value")
)

// TypeMismatch builds an ErrTypeMismatch describing the slot key and both types.
func TypeMismatch(key any, want, got reflect.Type) error {
	return fmt.Errorf("%w: %v holds %v, got %v", ErrTypeMismatch, key, want, got)
}

// NotFound builds an ErrNotFound for the given name or index.
func NotFound(key any) error {
	return fmt.Errorf("%w: %v", ErrNotFound, key)
}

// ShapeMismatch builds an ErrShapeMismatch for the two shapes involved.
func ShapeMismatch(want, got Shape) error {
	return fmt.Errorf("%w: want %s, got %s", ErrShapeMismatch, want, got)
}

// UnknownType builds an ErrUnknownType for id.
func UnknownType(id TypeID) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, string(id))
}
