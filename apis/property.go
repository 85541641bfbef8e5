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

// TypeID is the stable identity of a reflectable type and the registry key.
type TypeID string

// Shape tells how a type is exposed to the engine.
type Shape uint8

const (
	// ShapeValue is an opaque leaf serialized as a scalar.
	ShapeValue Shape = iota
	// ShapeRecord has a fixed set of uniquely named, ordered fields.
	ShapeRecord
	// ShapeSequence has ordered, indexable elements.
	ShapeSequence
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapeValue:
		return "value"
	case ShapeRecord:
		return "record"
	case ShapeSequence:
		return "sequence"
	default:
		return "shape(?)"
	}
}

// Property is the minimal capability of every reflectable value.
type Property interface {
	// TypeID returns the identity of the underlying type. Constant per type.
	TypeID() TypeID
	// Value returns an opaque reference to the underlying value. Mutating
	// through it mutates the property.
	Value() Value
	// Clone returns a deep, independently owned copy of the underlying value.
	Clone() Value
}

// Properties is a Property that exposes structure, either as a record or as a
// sequence. Records index their fields in declaration order, so every
// positional operation is valid for both shapes.
type Properties interface {
	Property

	// Shape is ShapeRecord or ShapeSequence.
	Shape() Shape
	// Len returns the number of fields or elements.
	Len() int
	// NameAt returns the name of field i. Sequences return ("", false).
	NameAt(i int) (string, bool)
	// IndexOf returns the position of the named field, or -1.
	IndexOf(name string) int

	// At returns the value at position i.
	At(i int) (Value, bool)
	// Get returns the named field.
	Get(name string) (Value, bool)
	// SetAt replaces the value at i. The concrete type must match exactly.
	SetAt(i int, v Value) error
	// Set replaces the named field. The concrete type must match exactly.
	Set(name string, v Value) error
	// PropertiesAt returns a mutable structured view of the value at i when
	// that value is itself a record or a sequence.
	PropertiesAt(i int) (Properties, bool)

	// Apply merges patch onto the receiver. See package patch.
	Apply(patch Properties) error
}

// Sequence is a Properties whose length can change.
type Sequence interface {
	Properties

	// Push appends v.
	Push(v Value) error
	// Insert places v at i, shifting later elements. i == Len() appends.
	Insert(i int, v Value) error
	// Remove deletes and returns the element at i.
	Remove(i int) (Value, error)
}
