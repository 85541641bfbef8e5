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

package props

import (
	"fmt"
	"reflect"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/codec"
	"dirpx.dev/props/dynamic"
	"dirpx.dev/props/patch"
	"dirpx.dev/props/reflection"
	uref "dirpx.dev/props/utils/reflect"
)

// Reflect returns a live Properties view over the struct, slice or array ptr
// points to.
func Reflect(ptr any) (apis.Properties, error) {
	s := st.Load()
	return reflection.New(s.res, s.cfg).Of(ptr)
}

// Encode renders p in the text format.
func Encode(p apis.Property) ([]byte, error) {
	s := st.Load()
	return codec.NewEncoder(s.res, s.cfg).Encode(p)
}

// EncodeString is Encode returning a string.
func EncodeString(p apis.Property) (string, error) {
	b, err := Encode(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Decode parses text into a dynamic tree, resolving identities in reg.
func Decode(text []byte, reg apis.Registry) (*dynamic.Properties, error) {
	return codec.NewDecoder(reg, st.Load().cfg).Decode(text)
}

// view returns x itself when it already is Properties, and a reflected view
// otherwise.
func view(x any) (apis.Properties, error) {
	if p, ok := x.(apis.Properties); ok {
		return p, nil
	}
	return Reflect(x)
}

// Apply merges p onto target, which is either Properties or a pointer to a
// struct, slice or array.
func Apply(target any, p apis.Properties) error {
	tp, err := view(target)
	if err != nil {
		return err
	}
	return tp.Apply(p)
}

// ApplyAtomic merges p onto target only if every entry of p lands; otherwise
// target is left untouched and the error wraps patch.ErrIncomplete.
//
// target is a *dynamic.Properties, a reflected view, or a pointer to a
// struct, slice or array.
func ApplyAtomic(target any, p apis.Properties) error {
	if d, ok := target.(*dynamic.Properties); ok {
		scratch := d.CloneValue().(*dynamic.Properties)
		if err := patch.Strict(scratch, p); err != nil {
			return err
		}
		*d = *scratch
		return nil
	}

	if v, ok := target.(apis.Properties); ok {
		target = v.Value().Interface()
	}
	tp, err := Reflect(target)
	if err != nil {
		return err
	}
	live := reflect.ValueOf(tp.Value().Interface()).Elem()
	scratch := reflect.New(live.Type())
	scratch.Elem().Set(uref.DeepCopy(live))
	sp, err := Reflect(scratch.Interface())
	if err != nil {
		return err
	}
	if err := patch.Strict(sp, p); err != nil {
		return err
	}
	live.Set(scratch.Elem())
	return nil
}

// Set stores v under name. The slot must hold exactly T.
func Set[T any](p apis.Properties, name string, v T) error {
	return p.Set(name, apis.ValueOf(v))
}

// SetAt stores v at index i. The slot must hold exactly T.
func SetAt[T any](p apis.Properties, i int, v T) error {
	return p.SetAt(i, apis.ValueOf(v))
}

// Get returns the value under name as a T.
func Get[T any](p apis.Properties, name string) (T, error) {
	v, ok := p.Get(name)
	if !ok {
		var zero T
		return zero, apis.NotFound(name)
	}
	return as[T](name, v)
}

// GetAt returns the value at index i as a T.
func GetAt[T any](p apis.Properties, i int) (T, error) {
	v, ok := p.At(i)
	if !ok {
		var zero T
		return zero, apis.NotFound(i)
	}
	return as[T](i, v)
}

func as[T any](key any, v apis.Value) (T, error) {
	x, ok := apis.As[T](v)
	if !ok {
		return x, apis.TypeMismatch(key, reflect.TypeFor[T](), v.Type())
	}
	return x, nil
}

// Reify builds a concrete value from a tagged dynamic tree: the registered
// type is instantiated, sequences are sized to match, and every entry is
// written. Unlike Apply, Reify fails on the first entry it cannot place.
// The result is a pointer to the new value.
func Reify(dyn apis.Properties, reg apis.Registry) (any, error) {
	if dyn == nil {
		return nil, apis.ErrInvalidValue
	}
	ptr, err := instantiate(dyn, reg)
	if err != nil {
		return nil, err
	}
	tp, err := Reflect(ptr)
	if err != nil {
		return nil, err
	}
	if err := fill(tp, dyn, reg); err != nil {
		return nil, err
	}
	return ptr, nil
}

func instantiate(dyn apis.Properties, reg apis.Registry) (any, error) {
	id := dyn.TypeID()
	r, ok := reg.Resolve(id)
	if !ok {
		return nil, apis.UnknownType(id)
	}
	if r.Shape != dyn.Shape() {
		return nil, fmt.Errorf("%s: %w", id, apis.ShapeMismatch(r.Shape, dyn.Shape()))
	}
	return r.New(), nil
}

// resizer is implemented by reflected slice views.
type resizer interface {
	Resize(n int) error
}

func fill(target, src apis.Properties, reg apis.Registry) error {
	if target.Shape() != src.Shape() {
		return apis.ShapeMismatch(target.Shape(), src.Shape())
	}
	if src.Shape() == apis.ShapeSequence && target.Len() != src.Len() {
		r, ok := target.(resizer)
		if !ok {
			return fmt.Errorf("%w: %s", apis.ErrFixedLength, target.TypeID())
		}
		if err := r.Resize(src.Len()); err != nil {
			return err
		}
	}

	for i := 0; i < src.Len(); i++ {
		j := i
		var key any = i
		if name, ok := src.NameAt(i); ok {
			key = name
			if j = target.IndexOf(name); j < 0 {
				return apis.NotFound(name)
			}
		}
		v, _ := src.At(i)
		if err := fillSlot(target, j, v, reg); err != nil {
			return fmt.Errorf("%v: %w", key, err)
		}
	}
	return nil
}

func fillSlot(target apis.Properties, j int, v apis.Value, reg apis.Registry) error {
	if v.IsNull() {
		// Absent element: the slot keeps its zero value.
		return nil
	}
	nested, ok := v.Interface().(apis.Properties)
	if !ok {
		return target.SetAt(j, v.Clone())
	}
	if tp, ok := target.PropertiesAt(j); ok {
		if !patch.SameIdentity(tp.TypeID(), nested.TypeID()) {
			return apis.UnknownType(nested.TypeID())
		}
		return fill(tp, nested, reg)
	}

	// A nil pointer slot gets a fresh pointee; an empty interface slot gets
	// whatever the node's identity names.
	cur, _ := target.At(j)
	var ptr any
	if cur.IsValid() && cur.Type().Kind() == reflect.Ptr {
		ptr = reflect.New(cur.Type().Elem()).Interface()
	} else {
		var err error
		if ptr, err = instantiate(nested, reg); err != nil {
			return err
		}
	}
	tp, err := Reflect(ptr)
	if err != nil {
		return err
	}
	if err := fill(tp, nested, reg); err != nil {
		return err
	}
	if cur.IsValid() && cur.Type().Kind() == reflect.Ptr {
		return target.SetAt(j, apis.ValueOf(ptr))
	}
	return target.SetAt(j, apis.ValueOf(reflect.ValueOf(ptr).Elem().Interface()))
}
