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
	"encoding"
	"reflect"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
	"gopkg.in/yaml.v3"

	"dirpx.dev/props/apis"
)

// TagName is the struct tag consulted for field names.
const TagName = "props"

var (
	yamlMarshalerType = reflect.TypeOf((*yaml.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// ShapeOf classifies t. Pointers are not unwrapped: callers normalize first.
func ShapeOf(t reflect.Type) apis.Shape {
	if t == nil {
		return apis.ShapeValue
	}
	if t.Implements(yamlMarshalerType) || t.Implements(textMarshalerType) {
		return apis.ShapeValue
	}
	switch t.Kind() {
	case reflect.Struct:
		return apis.ShapeRecord
	case reflect.Slice, reflect.Array:
		return apis.ShapeSequence
	default:
		return apis.ShapeValue
	}
}

// field is one visible struct field.
type field struct {
	name  string
	index int
	typ   reflect.Type
}

// recordInfo is the per-type reflection metadata of a record.
type recordInfo struct {
	fields []field
	byName map[string]int
}

// infos caches recordInfo by struct type.
var infos = xsync.NewMapOf[reflect.Type, *recordInfo]()

// infoOf returns the cached metadata of struct type t.
func infoOf(t reflect.Type) *recordInfo {
	info, _ := infos.LoadOrCompute(t, func() *recordInfo {
		return buildInfo(t)
	})
	return info
}

func buildInfo(t reflect.Type) *recordInfo {
	info := &recordInfo{byName: make(map[string]int, t.NumField())}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		switch sf.Type.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer:
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			tag, _, _ = strings.Cut(tag, ",")
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		// Names are unique within a record; the first declaration wins.
		if _, dup := info.byName[name]; dup {
			continue
		}
		info.byName[name] = len(info.fields)
		info.fields = append(info.fields, field{name: name, index: i, typ: sf.Type})
	}
	return info
}

// FieldTypes returns the types of the visible fields of struct type t, in
// record order.
func FieldTypes(t reflect.Type) []reflect.Type {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	info := infoOf(t)
	out := make([]reflect.Type, len(info.fields))
	for i, f := range info.fields {
		out[i] = f.typ
	}
	return out
}

// FieldNames returns the visible field names of struct type t, in record order.
func FieldNames(t reflect.Type) []string {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	info := infoOf(t)
	out := make([]string, len(info.fields))
	for i, f := range info.fields {
		out[i] = f.name
	}
	return out
}
