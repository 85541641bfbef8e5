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
	"fmt"
	"reflect"

	uref "dirpx.dev/props/utils/reflect"
)

// Value is an opaque, type-erased container holding exactly one concrete
// value. Its type identity is the dynamic Go type of the wrapped value, so it
// can never disagree with what is actually stored.
//
// The zero Value is invalid and holds nothing.
type Value struct {
	v any
}

// ValueOf wraps v. A nil v yields an invalid Value.
func ValueOf(v any) Value {
	return Value{v: v}
}

// Null marks an absent element of a decoded sequence, such as a nil pointer
// that was encoded as an explicit null to keep later indices in place.
// Applying a Null leaves the target slot untouched.
type Null struct{}

// NullValue returns a Value holding Null.
func NullValue() Value {
	return Value{v: Null{}}
}

// IsNull reports whether v holds Null.
func (v Value) IsNull() bool {
	_, ok := v.v.(Null)
	return ok
}

// IsValid reports whether the Value holds something.
func (v Value) IsValid() bool {
	return v.v != nil
}

// Type returns the concrete type of the held value, or nil if invalid.
func (v Value) Type() reflect.Type {
	if v.v == nil {
		return nil
	}
	return reflect.TypeOf(v.v)
}

// Interface returns the held value.
func (v Value) Interface() any {
	return v.v
}

// Clone returns a deep, independently owned copy.
func (v Value) Clone() Value {
	if v.v == nil {
		return Value{}
	}
	if c, ok := v.v.(Cloner); ok {
		return Value{v: c.CloneValue()}
	}
	return Value{v: uref.DeepCopy(reflect.ValueOf(v.v)).Interface()}
}

// String implements fmt.Stringer for diagnostics.
func (v Value) String() string {
	if v.v == nil {
		return "<invalid>"
	}
	return fmt.Sprintf("%v(%v)", v.Type(), v.v)
}

// As performs the checked downcast of v to T. It never converts: the held
// value must be exactly of type T.
func As[T any](v Value) (T, bool) {
	t, ok := v.v.(T)
	return t, ok
}
