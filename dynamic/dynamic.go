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

// Package dynamic provides Properties, the type-erased interchange container.
//
// A Properties value is either a map (ordered, uniquely named entries) or a
// seq (ordered elements), optionally tagged with the identity of the concrete
// type it stands for. It is what decoding produces and what hand-built
// patches are made of; it is never meant to be the long-lived source of truth.
//
// Properties is not safe for concurrent mutation.
package dynamic

import (
	"fmt"
	"iter"
	"strings"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/patch"
)

// Properties is a dynamic record or sequence of opaque values.
type Properties struct {
	id     apis.TypeID
	shape  apis.Shape
	names  []string
	values []apis.Value
}

var (
	_ apis.Properties = (*Properties)(nil)
	_ apis.Sequence   = (*Properties)(nil)
	_ apis.Cloner     = (*Properties)(nil)
)

// Map returns an empty, untagged record.
func Map() *Properties {
	return &Properties{shape: apis.ShapeRecord}
}

// Seq returns an empty, untagged sequence.
func Seq() *Properties {
	return &Properties{shape: apis.ShapeSequence}
}

// MapOf returns an empty record tagged with id.
func MapOf(id apis.TypeID) *Properties {
	return &Properties{id: id, shape: apis.ShapeRecord}
}

// SeqOf returns an empty sequence tagged with id.
func SeqOf(id apis.TypeID) *Properties {
	return &Properties{id: id, shape: apis.ShapeSequence}
}

// TypeID returns the tag, or "" for a purely structural node.
func (p *Properties) TypeID() apis.TypeID { return p.id }

// SetTypeID replaces the tag.
func (p *Properties) SetTypeID(id apis.TypeID) { p.id = id }

// Value returns p itself.
func (p *Properties) Value() apis.Value { return apis.ValueOf(p) }

// Clone returns a deep copy of p.
func (p *Properties) Clone() apis.Value { return apis.ValueOf(p.CloneValue()) }

// Shape returns the shape p was created with.
func (p *Properties) Shape() apis.Shape { return p.shape }

// Len returns the number of entries.
func (p *Properties) Len() int { return len(p.values) }

// CloneValue returns a deep copy as *Properties.
func (p *Properties) CloneValue() any {
	cp := &Properties{id: p.id, shape: p.shape}
	if p.names != nil {
		cp.names = append([]string(nil), p.names...)
	}
	cp.values = make([]apis.Value, len(p.values))
	for i, v := range p.values {
		cp.values[i] = v.Clone()
	}
	return cp
}

// NameAt returns the name of entry i of a map.
func (p *Properties) NameAt(i int) (string, bool) {
	if p.shape != apis.ShapeRecord || i < 0 || i >= len(p.names) {
		return "", false
	}
	return p.names[i], true
}

// IndexOf returns the index of the named entry, or -1.
func (p *Properties) IndexOf(name string) int {
	if p.shape != apis.ShapeRecord {
		return -1
	}
	for i, n := range p.names {
		if n == name {
			return i
		}
	}
	return -1
}

// At returns entry i.
func (p *Properties) At(i int) (apis.Value, bool) {
	if i < 0 || i >= len(p.values) {
		return apis.Value{}, false
	}
	return p.values[i], true
}

// Get returns the named entry.
func (p *Properties) Get(name string) (apis.Value, bool) {
	return p.At(p.IndexOf(name))
}

// SetAt replaces the value at i. Like any slot, it only accepts a value of
// exactly the type already stored there.
func (p *Properties) SetAt(i int, v apis.Value) error {
	if i < 0 || i >= len(p.values) {
		return apis.NotFound(i)
	}
	if !v.IsValid() {
		return fmt.Errorf("%w: %d", apis.ErrInvalidValue, i)
	}
	if cur := p.values[i]; cur.Type() != v.Type() {
		key := any(i)
		if p.shape == apis.ShapeRecord {
			key = p.names[i]
		}
		return apis.TypeMismatch(key, cur.Type(), v.Type())
	}
	p.values[i] = v
	return nil
}

// Set is SetAt by name.
func (p *Properties) Set(name string, v apis.Value) error {
	i := p.IndexOf(name)
	if i < 0 {
		return apis.NotFound(name)
	}
	return p.SetAt(i, v)
}

// PropertiesAt returns the nested dynamic node at i, if any. Concrete values
// stored in a dynamic node are not reflected.
func (p *Properties) PropertiesAt(i int) (apis.Properties, bool) {
	v, ok := p.At(i)
	if !ok {
		return nil, false
	}
	nested, ok := v.Interface().(apis.Properties)
	return nested, ok
}

// Apply merges other onto p with patch.Apply.
func (p *Properties) Apply(other apis.Properties) error {
	return patch.Apply(p, other)
}

// Put inserts or replaces the named entry of a map, whatever its type. It is
// the building API for patches; Set is the type-checked one.
func (p *Properties) Put(name string, v apis.Value) error {
	if p.shape != apis.ShapeRecord {
		return apis.ShapeMismatch(apis.ShapeRecord, p.shape)
	}
	if !v.IsValid() {
		return fmt.Errorf("%w: %s", apis.ErrInvalidValue, name)
	}
	if i := p.IndexOf(name); i >= 0 {
		p.values[i] = v
		return nil
	}
	p.names = append(p.names, name)
	p.values = append(p.values, v)
	return nil
}

// Delete removes the named entry of a map and reports whether it existed.
func (p *Properties) Delete(name string) bool {
	i := p.IndexOf(name)
	if i < 0 {
		return false
	}
	p.names = append(p.names[:i], p.names[i+1:]...)
	p.values = append(p.values[:i], p.values[i+1:]...)
	return true
}

// Push appends v to a sequence.
func (p *Properties) Push(v apis.Value) error {
	return p.Insert(len(p.values), v)
}

// Insert places v at i in a sequence, shifting later elements.
func (p *Properties) Insert(i int, v apis.Value) error {
	if p.shape != apis.ShapeSequence {
		return apis.ShapeMismatch(apis.ShapeSequence, p.shape)
	}
	if i < 0 || i > len(p.values) {
		return apis.NotFound(i)
	}
	if !v.IsValid() {
		return fmt.Errorf("%w: %d", apis.ErrInvalidValue, i)
	}
	p.values = append(p.values, apis.Value{})
	copy(p.values[i+1:], p.values[i:])
	p.values[i] = v
	return nil
}

// Remove deletes and returns element i of a sequence.
func (p *Properties) Remove(i int) (apis.Value, error) {
	if p.shape != apis.ShapeSequence {
		return apis.Value{}, apis.ShapeMismatch(apis.ShapeSequence, p.shape)
	}
	if i < 0 || i >= len(p.values) {
		return apis.Value{}, apis.NotFound(i)
	}
	v := p.values[i]
	p.values = append(p.values[:i], p.values[i+1:]...)
	return v, nil
}

// Entries iterates over (name, value) pairs in order. Sequence names are "".
func (p *Properties) Entries() iter.Seq2[string, apis.Value] {
	return func(yield func(string, apis.Value) bool) {
		for i, v := range p.values {
			name, _ := p.NameAt(i)
			if !yield(name, v) {
				return
			}
		}
	}
}

// String renders a compact, single-line form for diagnostics.
func (p *Properties) String() string {
	var b strings.Builder
	if p.id != "" {
		b.WriteString(string(p.id))
	}
	lb, rb := "{", "}"
	if p.shape == apis.ShapeSequence {
		lb, rb = "[", "]"
	}
	b.WriteString(lb)
	for i, v := range p.values {
		if i > 0 {
			b.WriteString(", ")
		}
		if name, ok := p.NameAt(i); ok {
			b.WriteString(name)
			b.WriteString(": ")
		}
		if nested, ok := v.Interface().(*Properties); ok {
			b.WriteString(nested.String())
			continue
		}
		fmt.Fprintf(&b, "%v", v.Interface())
	}
	b.WriteString(rb)
	return b.String()
}

// PutValue is the typed form of Put.
func PutValue[T any](p *Properties, name string, v T) error {
	return p.Put(name, apis.ValueOf(v))
}

// PushValue is the typed form of Push.
func PushValue[T any](p *Properties, v T) error {
	return p.Push(apis.ValueOf(v))
}
