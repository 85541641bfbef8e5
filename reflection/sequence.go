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

package reflection

import (
	"reflect"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/patch"
	uref "dirpx.dev/props/utils/reflect"
)

// sequence is a live Properties view over an addressable slice or array.
// Arrays have a fixed length: growing or shrinking them fails with
// apis.ErrFixedLength.
type sequence struct {
	r *Reflector
	v reflect.Value
}

// Ensure sequence implements apis.Sequence.
var _ apis.Sequence = (*sequence)(nil)

// TypeID returns the identity of the slice or array type.
func (s *sequence) TypeID() apis.TypeID { return s.r.typeID(s.v.Type()) }

// Value returns a pointer to the viewed slice or array.
func (s *sequence) Value() apis.Value { return apis.ValueOf(s.v.Addr().Interface()) }

// Clone returns a deep copy of the slice or array.
func (s *sequence) Clone() apis.Value { return apis.ValueOf(uref.DeepCopy(s.v).Interface()) }

// Shape returns apis.ShapeSequence.
func (s *sequence) Shape() apis.Shape { return apis.ShapeSequence }

// Len returns the number of elements.
func (s *sequence) Len() int { return s.v.Len() }

// NameAt always fails: elements have no names.
func (*sequence) NameAt(int) (string, bool) { return "", false }

// IndexOf always returns -1.
func (*sequence) IndexOf(string) int { return -1 }

// At returns element i.
func (s *sequence) At(i int) (apis.Value, bool) {
	if i < 0 || i >= s.v.Len() {
		return apis.Value{}, false
	}
	return apis.ValueOf(s.v.Index(i).Interface()), true
}

// Get always fails: elements have no names.
func (*sequence) Get(string) (apis.Value, bool) { return apis.Value{}, false }

// SetAt stores v at i if its type is exactly the element type.
func (s *sequence) SetAt(i int, v apis.Value) error {
	if i < 0 || i >= s.v.Len() {
		return apis.NotFound(i)
	}
	e := s.v.Index(i)
	rv, err := assignable(i, e, v)
	if err != nil {
		return err
	}
	e.Set(rv)
	return nil
}

// Set fails with apis.ErrNotFound.
func (*sequence) Set(name string, _ apis.Value) error { return apis.NotFound(name) }

// PropertiesAt returns a live view over element i when it is a record or
// a sequence, following one non-nil pointer.
func (s *sequence) PropertiesAt(i int) (apis.Properties, bool) {
	if i < 0 || i >= s.v.Len() {
		return nil, false
	}
	return s.r.nested(s.v.Index(i))
}

// Apply merges other onto the elements with patch.Apply.
func (s *sequence) Apply(other apis.Properties) error {
	return patch.Apply(s, other)
}

// elem validates v against the element type. Unlike slots, elements of an
// interface-typed slice accept anything implementing the interface.
func (s *sequence) elem(key any, v apis.Value) (reflect.Value, error) {
	return assignable(key, reflect.New(s.v.Type().Elem()).Elem(), v)
}

// Push appends v. Arrays fail with apis.ErrFixedLength.
func (s *sequence) Push(v apis.Value) error {
	return s.Insert(s.v.Len(), v)
}

// Insert places v at i, shifting later elements. Arrays fail with
// apis.ErrFixedLength.
func (s *sequence) Insert(i int, v apis.Value) error {
	if s.v.Kind() == reflect.Array {
		return apis.ErrFixedLength
	}
	n := s.v.Len()
	if i < 0 || i > n {
		return apis.NotFound(i)
	}
	rv, err := s.elem(i, v)
	if err != nil {
		return err
	}
	grown := reflect.Append(s.v, reflect.Zero(s.v.Type().Elem()))
	reflect.Copy(grown.Slice(i+1, n+1), grown.Slice(i, n))
	grown.Index(i).Set(rv)
	s.v.Set(grown)
	return nil
}

// Remove deletes and returns element i. Arrays fail with
// apis.ErrFixedLength.
func (s *sequence) Remove(i int) (apis.Value, error) {
	if s.v.Kind() == reflect.Array {
		return apis.Value{}, apis.ErrFixedLength
	}
	n := s.v.Len()
	if i < 0 || i >= n {
		return apis.Value{}, apis.NotFound(i)
	}
	out := apis.ValueOf(s.v.Index(i).Interface())
	reflect.Copy(s.v.Slice(i, n-1), s.v.Slice(i+1, n))
	s.v.Index(n - 1).Set(reflect.Zero(s.v.Type().Elem()))
	s.v.Set(s.v.Slice(0, n-1))
	return out, nil
}

// Resize sets the length to n, appending zero elements or truncating.
func (s *sequence) Resize(n int) error {
	if s.v.Kind() == reflect.Array {
		if n == s.v.Len() {
			return nil
		}
		return apis.ErrFixedLength
	}
	if n < 0 {
		return apis.NotFound(n)
	}
	cur := s.v.Len()
	switch {
	case n < cur:
		for i := n; i < cur; i++ {
			s.v.Index(i).Set(reflect.Zero(s.v.Type().Elem()))
		}
		s.v.Set(s.v.Slice(0, n))
	case n > cur:
		s.v.Set(reflect.AppendSlice(s.v, reflect.MakeSlice(s.v.Type(), n-cur, n-cur)))
	}
	return nil
}
