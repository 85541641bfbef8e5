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
	"fmt"
	"reflect"

	"dirpx.dev/props/apis"
)

// Reflector builds Properties views. It carries the resolver and config used
// to compute type identities; the zero Reflector is not usable.
type Reflector struct {
	res apis.Resolver
	cfg apis.Config
}

// New returns a Reflector resolving identities with res under cfg.
func New(res apis.Resolver, cfg apis.Config) *Reflector {
	return &Reflector{res: res, cfg: cfg}
}

// Of returns a live view over the struct, slice or array ptr points to.
// Pointer chains are followed up to cfg.MaxUnwrap levels.
func (r *Reflector) Of(ptr any) (apis.Properties, error) {
	rv := reflect.ValueOf(ptr)
	if !rv.IsValid() || rv.Kind() != reflect.Ptr {
		return nil, fmt.Errorf("%w: %T is not a pointer", apis.ErrNotReflectable, ptr)
	}
	for i := 0; rv.Kind() == reflect.Ptr; i++ {
		if rv.IsNil() || (r.cfg.MaxUnwrap > 0 && i >= r.cfg.MaxUnwrap) {
			return nil, fmt.Errorf("%w: nil or too deep pointer %T", apis.ErrNotReflectable, ptr)
		}
		rv = rv.Elem()
	}
	return r.view(rv)
}

// OfValue returns a view over a private copy of v. Mutations through the view
// do not reach v.
func (r *Reflector) OfValue(v any) (apis.Properties, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil", apis.ErrNotReflectable)
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: nil %T", apis.ErrNotReflectable, v)
		}
		rv = rv.Elem()
	}
	cp := reflect.New(rv.Type()).Elem()
	cp.Set(rv)
	return r.view(cp)
}

// view wraps an addressable value.
func (r *Reflector) view(rv reflect.Value) (apis.Properties, error) {
	switch ShapeOf(rv.Type()) {
	case apis.ShapeRecord:
		return &record{r: r, v: rv, info: infoOf(rv.Type())}, nil
	case apis.ShapeSequence:
		return &sequence{r: r, v: rv}, nil
	default:
		return nil, fmt.Errorf("%w: %v is a value type", apis.ErrNotReflectable, rv.Type())
	}
}

// nested returns a view over slot when it holds a record or a sequence,
// following one non-nil pointer.
func (r *Reflector) nested(slot reflect.Value) (apis.Properties, bool) {
	if slot.Kind() == reflect.Ptr {
		if slot.IsNil() {
			return nil, false
		}
		slot = slot.Elem()
	}
	if slot.Kind() == reflect.Interface {
		return nil, false
	}
	p, err := r.view(slot)
	if err != nil {
		return nil, false
	}
	return p, true
}

func (r *Reflector) typeID(t reflect.Type) apis.TypeID {
	return r.res.ResolveType(t, r.cfg)
}

// assignable validates v against slot using the exact-type rule and returns
// the reflect.Value to store. Interface slots compare against the concrete
// type they currently hold; an empty interface slot accepts any value
// implementing it.
func assignable(key any, slot reflect.Value, v apis.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %v", apis.ErrInvalidValue, key)
	}
	want := slot.Type()
	got := v.Type()
	if want.Kind() == reflect.Interface {
		if slot.IsNil() {
			if got.AssignableTo(want) {
				return reflect.ValueOf(v.Interface()), nil
			}
		} else {
			want = slot.Elem().Type()
		}
	}
	if got != want {
		return reflect.Value{}, apis.TypeMismatch(key, want, got)
	}
	return reflect.ValueOf(v.Interface()), nil
}
