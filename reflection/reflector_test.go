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

package reflection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/config"
	"dirpx.dev/props/dynamic"
	"dirpx.dev/props/reflection"
	"dirpx.dev/props/resolver"
	"dirpx.dev/props/strategy"
)

type Inner struct{ N uint }

type Outer struct {
	Name  string
	In    Inner
	Ptr   *Inner
	List  []Inner
	Fixed [2]int
	Any   any
}

func newReflector() *reflection.Reflector {
	res := resolver.New(strategy.NewNamerStrategy(), strategy.NewReflectStrategy())
	return reflection.New(res, config.DefaultConfig())
}

func TestOf_Errors(t *testing.T) {
	r := newReflector()
	for _, v := range []any{nil, Outer{}, (*Outer)(nil), new(int), new(Text)} {
		_, err := r.Of(v)
		assert.ErrorIs(t, err, apis.ErrNotReflectable, "%T", v)
	}
}

func TestOf_DoublePointer(t *testing.T) {
	r := newReflector()
	o := &Outer{Name: "x"}
	p, err := r.Of(&o)
	require.NoError(t, err)
	assert.Equal(t, apis.TypeID("reflection_test.Outer"), p.TypeID())
}

func TestRecord_Access(t *testing.T) {
	r := newReflector()
	o := Outer{Name: "a", In: Inner{N: 1}}
	p, err := r.Of(&o)
	require.NoError(t, err)

	assert.Equal(t, apis.ShapeRecord, p.Shape())
	assert.Equal(t, 6, p.Len())
	name, ok := p.NameAt(1)
	require.True(t, ok)
	assert.Equal(t, "In", name)
	assert.Equal(t, 4, p.IndexOf("Fixed"))
	assert.Equal(t, -1, p.IndexOf("nope"))

	v, ok := p.Get("Name")
	require.True(t, ok)
	s, ok := apis.As[string](v)
	require.True(t, ok)
	assert.Equal(t, "a", s)

	require.NoError(t, p.Set("Name", apis.ValueOf("b")))
	assert.Equal(t, "b", o.Name)
	assert.ErrorIs(t, p.Set("Name", apis.ValueOf(1)), apis.ErrTypeMismatch)
	assert.ErrorIs(t, p.Set("nope", apis.ValueOf("b")), apis.ErrNotFound)
	assert.ErrorIs(t, p.Set("Name", apis.Value{}), apis.ErrInvalidValue)
	assert.Equal(t, "b", o.Name)

	ptr, ok := apis.As[*Outer](p.Value())
	require.True(t, ok)
	assert.Same(t, &o, ptr)
}

func TestRecord_Nested(t *testing.T) {
	r := newReflector()
	o := Outer{}
	p, err := r.Of(&o)
	require.NoError(t, err)

	in, ok := p.PropertiesAt(p.IndexOf("In"))
	require.True(t, ok)
	require.NoError(t, in.Set("N", apis.ValueOf(uint(5))))
	assert.Equal(t, uint(5), o.In.N)

	_, ok = p.PropertiesAt(p.IndexOf("Ptr"))
	assert.False(t, ok, "nil pointer has no view")
	o.Ptr = &Inner{}
	pp, ok := p.PropertiesAt(p.IndexOf("Ptr"))
	require.True(t, ok)
	require.NoError(t, pp.Set("N", apis.ValueOf(uint(6))))
	assert.Equal(t, uint(6), o.Ptr.N)

	_, ok = p.PropertiesAt(p.IndexOf("Name"))
	assert.False(t, ok)
	_, ok = p.PropertiesAt(p.IndexOf("Any"))
	assert.False(t, ok)
}

func TestRecord_InterfaceSlot(t *testing.T) {
	r := newReflector()
	o := Outer{}
	p, err := r.Of(&o)
	require.NoError(t, err)

	require.NoError(t, p.Set("Any", apis.ValueOf(3)))
	assert.Equal(t, 3, o.Any)
	assert.ErrorIs(t, p.Set("Any", apis.ValueOf("x")), apis.ErrTypeMismatch)
	require.NoError(t, p.Set("Any", apis.ValueOf(4)))
	assert.Equal(t, 4, o.Any)
}

func TestRecord_Clone(t *testing.T) {
	r := newReflector()
	o := Outer{List: []Inner{{N: 1}}}
	p, err := r.Of(&o)
	require.NoError(t, err)

	cl, ok := apis.As[Outer](p.Clone())
	require.True(t, ok)
	o.List[0].N = 2
	assert.Equal(t, uint(1), cl.List[0].N)
}

func TestRecord_Apply(t *testing.T) {
	r := newReflector()
	o := Outer{Name: "a", Fixed: [2]int{1, 2}}
	p, err := r.Of(&o)
	require.NoError(t, err)

	patch := dynamic.Map()
	require.NoError(t, dynamic.PutValue(patch, "Name", "b"))
	fixed := dynamic.Seq()
	require.NoError(t, dynamic.PushValue(fixed, 7))
	require.NoError(t, patch.Put("Fixed", apis.ValueOf(fixed)))

	require.NoError(t, p.Apply(patch))
	assert.Equal(t, "b", o.Name)
	assert.Equal(t, [2]int{7, 2}, o.Fixed)
}

func TestOfValue_IsPrivate(t *testing.T) {
	r := newReflector()
	o := Outer{Name: "a"}
	p, err := r.OfValue(o)
	require.NoError(t, err)
	require.NoError(t, p.Set("Name", apis.ValueOf("b")))
	assert.Equal(t, "a", o.Name)
}
