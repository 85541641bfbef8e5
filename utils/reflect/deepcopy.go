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

package reflect

import (
	"reflect"
)

// cloner mirrors apis.Cloner without importing it.
type cloner interface {
	CloneValue() any
}

var clonerType = reflect.TypeOf((*cloner)(nil)).Elem()

// DeepCopy returns a copy of v that shares no mutable memory with it.
// Pointers, slices, maps and interfaces are followed; unexported struct
// fields are copied shallowly because reflection cannot set them. Values
// implementing CloneValue() any copy themselves.
//
// Pointers, maps and slices reached more than once are copied once, so
// shared structure stays shared in the copy and cycles terminate.
//
// The result has exactly v's type. An invalid v is returned as is.
func DeepCopy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return v
	}
	out := reflect.New(v.Type()).Elem()
	c := copier{seen: make(map[ref]reflect.Value)}
	c.deepCopy(out, v)
	return out
}

// ref identifies a reference-kind value already copied. The type is part
// of the key because a struct and its first field share an address.
type ref struct {
	t   reflect.Type
	p   uintptr
	len int
}

type copier struct {
	seen map[ref]reflect.Value
}

func (c *copier) deepCopy(dst, src reflect.Value) {
	if src.CanInterface() && !isNil(src) && src.Type().Implements(clonerType) {
		cv := reflect.ValueOf(src.Interface().(cloner).CloneValue())
		if cv.IsValid() && cv.Type() == dst.Type() {
			dst.Set(cv)
			return
		}
	}

	switch src.Kind() {
	case reflect.Ptr:
		if src.IsNil() {
			return
		}
		k := ref{t: src.Type(), p: src.Pointer()}
		if done, ok := c.seen[k]; ok {
			dst.Set(done)
			return
		}
		p := reflect.New(src.Type().Elem())
		c.seen[k] = p
		c.deepCopy(p.Elem(), src.Elem())
		dst.Set(p)

	case reflect.Interface:
		if src.IsNil() {
			return
		}
		inner := src.Elem()
		v := reflect.New(inner.Type()).Elem()
		c.deepCopy(v, inner)
		dst.Set(v)

	case reflect.Slice:
		if src.IsNil() {
			return
		}
		k := ref{t: src.Type(), p: src.Pointer(), len: src.Len()}
		if done, ok := c.seen[k]; ok {
			dst.Set(done)
			return
		}
		s := reflect.MakeSlice(src.Type(), src.Len(), src.Len())
		c.seen[k] = s
		for i := 0; i < src.Len(); i++ {
			c.deepCopy(s.Index(i), src.Index(i))
		}
		dst.Set(s)

	case reflect.Array:
		for i := 0; i < src.Len(); i++ {
			c.deepCopy(dst.Index(i), src.Index(i))
		}

	case reflect.Map:
		if src.IsNil() {
			return
		}
		k := ref{t: src.Type(), p: src.Pointer()}
		if done, ok := c.seen[k]; ok {
			dst.Set(done)
			return
		}
		m := reflect.MakeMapWithSize(src.Type(), src.Len())
		c.seen[k] = m
		iter := src.MapRange()
		for iter.Next() {
			mk := reflect.New(src.Type().Key()).Elem()
			c.deepCopy(mk, iter.Key())
			e := reflect.New(src.Type().Elem()).Elem()
			c.deepCopy(e, iter.Value())
			m.SetMapIndex(mk, e)
		}
		dst.Set(m)

	case reflect.Struct:
		// Shallow first so unexported fields survive, then deepen what we can.
		dst.Set(src)
		for i := 0; i < src.NumField(); i++ {
			if df := dst.Field(i); df.CanSet() {
				c.deepCopy(df, src.Field(i))
			}
		}

	default:
		dst.Set(src)
	}
}

// isNil reports whether v is a nil pointer-like value; calling methods on
// those could panic.
func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
