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

// record is a live Properties view over an addressable struct.
type record struct {
	r    *Reflector
	v    reflect.Value
	info *recordInfo
}

// Ensure record implements apis.Properties.
var _ apis.Properties = (*record)(nil)

// TypeID returns the identity of the struct type.
func (p *record) TypeID() apis.TypeID { return p.r.typeID(p.v.Type()) }

// Value returns a pointer to the viewed struct.
func (p *record) Value() apis.Value { return apis.ValueOf(p.v.Addr().Interface()) }

// Clone returns a deep copy of the struct.
func (p *record) Clone() apis.Value { return apis.ValueOf(uref.DeepCopy(p.v).Interface()) }

// Shape returns apis.ShapeRecord.
func (p *record) Shape() apis.Shape { return apis.ShapeRecord }

// Len returns the number of visible fields.
func (p *record) Len() int { return len(p.info.fields) }

// NameAt returns the name of field i.
func (p *record) NameAt(i int) (string, bool) {
	if i < 0 || i >= len(p.info.fields) {
		return "", false
	}
	return p.info.fields[i].name, true
}

// IndexOf returns the index of the named field, or -1.
func (p *record) IndexOf(name string) int {
	if i, ok := p.info.byName[name]; ok {
		return i
	}
	return -1
}

func (p *record) slot(i int) (reflect.Value, bool) {
	if i < 0 || i >= len(p.info.fields) {
		return reflect.Value{}, false
	}
	return p.v.Field(p.info.fields[i].index), true
}

// At returns the value of field i.
func (p *record) At(i int) (apis.Value, bool) {
	f, ok := p.slot(i)
	if !ok {
		return apis.Value{}, false
	}
	return apis.ValueOf(f.Interface()), true
}

// Get returns the value of the named field.
func (p *record) Get(name string) (apis.Value, bool) {
	return p.At(p.IndexOf(name))
}

// SetAt stores v in field i if its type is exactly the field type.
func (p *record) SetAt(i int, v apis.Value) error {
	f, ok := p.slot(i)
	if !ok {
		return apis.NotFound(i)
	}
	rv, err := assignable(p.info.fields[i].name, f, v)
	if err != nil {
		return err
	}
	f.Set(rv)
	return nil
}

// Set is SetAt by field name.
func (p *record) Set(name string, v apis.Value) error {
	i := p.IndexOf(name)
	if i < 0 {
		return apis.NotFound(name)
	}
	return p.SetAt(i, v)
}

// PropertiesAt returns a live view over field i when it is a record or a
// sequence, following one non-nil pointer.
func (p *record) PropertiesAt(i int) (apis.Properties, bool) {
	f, ok := p.slot(i)
	if !ok {
		return nil, false
	}
	return p.r.nested(f)
}

// Apply merges other onto the struct with patch.Apply.
func (p *record) Apply(other apis.Properties) error {
	return patch.Apply(p, other)
}
