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

package codec_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/codec"
	"dirpx.dev/props/config"
	"dirpx.dev/props/dynamic"
	"dirpx.dev/props/reflection"
	"dirpx.dev/props/registry"
	"dirpx.dev/props/resolver"
	"dirpx.dev/props/strategy"
)

type Vec struct{ X, Y float32 }

// Custom is a struct leaf encoded as text.
type Custom struct{ A, B int }

func (c Custom) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d:%d", c.A, c.B)), nil
}

func (c *Custom) UnmarshalText(b []byte) error {
	_, err := fmt.Sscanf(string(b), "%d:%d", &c.A, &c.B)
	return err
}

type Scene struct {
	Name    string
	Speed   float64
	Pos     Vec
	Path    []uint32
	Tag     Custom
	Hidden  int  `props:"-"`
	Visible bool `props:"visible"`
	Next    *Vec
	Grid    [2][]Vec
}

type env struct {
	res  apis.Resolver
	cfg  apis.Config
	reg  apis.Registry
	refl *reflection.Reflector
	enc  *codec.Encoder
	dec  *codec.Decoder
}

func newEnv(t *testing.T) env {
	t.Helper()
	cfg := config.NewConfig()
	res := resolver.New(strategy.NewNamerStrategy(), strategy.NewReflectStrategy())
	reg := registry.New(cfg, res)
	require.NoError(t, registry.Register[Scene](reg))
	return env{
		res:  res,
		cfg:  cfg,
		reg:  reg,
		refl: reflection.New(res, cfg),
		enc:  codec.NewEncoder(res, cfg),
		dec:  codec.NewDecoder(reg, cfg),
	}
}

func (e env) encode(t *testing.T, p apis.Property) string {
	t.Helper()
	out, err := e.enc.Encode(p)
	require.NoError(t, err)
	return string(out)
}

func (e env) roundTrip(t *testing.T, ptr any) {
	t.Helper()
	view, err := e.refl.Of(ptr)
	require.NoError(t, err)

	first := e.encode(t, view)
	dyn, err := e.dec.Decode([]byte(first))
	require.NoError(t, err, first)
	second := e.encode(t, dyn)
	require.Equal(t, first, second, "decoded tree:\n%s", spew.Sdump(dyn))
}

func TestEncode_RecordGrammar(t *testing.T) {
	e := newEnv(t)
	view, err := e.refl.Of(&Vec{X: 1, Y: 2.5})
	require.NoError(t, err)

	want := `type: codec_test.Vec
map:
  X:
    type: float32
    value: 1.0
  Y:
    type: float32
    value: 2.5
`
	assert.Equal(t, want, e.encode(t, view))
}

func TestEncode_SkipsExcludedAndNil(t *testing.T) {
	e := newEnv(t)
	view, err := e.refl.Of(&Scene{Hidden: 7, Visible: true})
	require.NoError(t, err)

	out := e.encode(t, view)
	assert.NotContains(t, out, "Hidden")
	assert.NotContains(t, out, "Next")
	assert.Contains(t, out, "visible:")
}

func TestRoundTrip_Record(t *testing.T) {
	e := newEnv(t)
	e.roundTrip(t, &Scene{
		Name:    "intro",
		Speed:   3,
		Pos:     Vec{X: -1, Y: 0.25},
		Path:    []uint32{3, 1, 4},
		Tag:     Custom{A: 1, B: 2},
		Visible: true,
		Next:    &Vec{X: 9},
		Grid:    [2][]Vec{{{X: 1}}, nil},
	})
}

func TestRoundTrip_Sequence(t *testing.T) {
	e := newEnv(t)
	e.roundTrip(t, &[]uint32{1, 2, 3})
	e.roundTrip(t, &[]Vec{{X: 1}, {Y: 2}})
}

func TestRoundTrip_Nested(t *testing.T) {
	e := newEnv(t)
	outer := dynamic.Map()
	inner := dynamic.SeqOf("[]uint32")
	require.NoError(t, dynamic.PushValue(inner, uint32(7)))
	require.NoError(t, outer.Put("list", apis.ValueOf(inner)))
	require.NoError(t, dynamic.PutValue(outer, "name", "x"))

	first := e.encode(t, outer)
	dyn, err := e.dec.Decode([]byte(first))
	require.NoError(t, err)
	assert.Equal(t, first, e.encode(t, dyn))

	assert.Equal(t, apis.TypeID(""), dyn.TypeID())
	nested, ok := dyn.PropertiesAt(dyn.IndexOf("list"))
	require.True(t, ok)
	assert.Equal(t, apis.TypeID("[]uint32"), nested.TypeID())
}

func TestDecode_Leaves(t *testing.T) {
	e := newEnv(t)
	dyn, err := e.dec.Decode([]byte(`
map:
  n:
    type: int
    value: 3
  f:
    type: float64
    value: .inf
  tag:
    type: codec_test.Custom
    value: "5:6"
`))
	require.NoError(t, err)

	n, ok := dyn.Get("n")
	require.True(t, ok)
	got, ok := apis.As[int](n)
	require.True(t, ok)
	assert.Equal(t, 3, got)

	f, _ := dyn.Get("f")
	fv, ok := apis.As[float64](f)
	require.True(t, ok)
	assert.True(t, math.IsInf(fv, 1))

	c, _ := dyn.Get("tag")
	cv, ok := apis.As[Custom](c)
	require.True(t, ok)
	assert.Equal(t, Custom{A: 5, B: 6}, cv)
}

func TestDecode_UnknownType(t *testing.T) {
	e := newEnv(t)
	for name, doc := range map[string]string{
		"root":   "type: nowhere.Thing\nmap: {}\n",
		"nested": "map:\n  x:\n    type: nowhere.Thing\n    value: 1\n",
	} {
		t.Run(name, func(t *testing.T) {
			dyn, err := e.dec.Decode([]byte(doc))
			assert.ErrorIs(t, err, apis.ErrUnknownType)
			assert.Nil(t, dyn)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	e := newEnv(t)
	cases := map[string]string{
		"syntax":          "map: [\n",
		"empty":           "",
		"not a mapping":   "- 1\n",
		"no body":         "type: int\n",
		"two bodies":      "map: {}\nseq: []\n",
		"unknown key":     "map: {}\nextra: 1\n",
		"untagged value":  "map:\n  x:\n    value: 1\n",
		"root value":      "type: int\nvalue: 1\n",
		"duplicate field": "map:\n  x: {type: int, value: 1}\n  x: {type: int, value: 2}\n",
		"bad scalar":      "map:\n  x: {type: int, value: abc}\n",
		"shape mismatch":  "type: int\nmap: {}\n",
		"seq as map":      "type: codec_test.Vec\nseq: []\n",
		"map body kind":   "map: [1]\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			dyn, err := e.dec.Decode([]byte(doc))
			assert.ErrorIs(t, err, codec.ErrMalformed)
			assert.Nil(t, dyn)
		})
	}
}

func TestEncodeValue(t *testing.T) {
	e := newEnv(t)
	out, err := e.enc.EncodeValue(apis.ValueOf(Vec{X: 1}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "type: codec_test.Vec\n")

	_, err = e.enc.EncodeValue(apis.ValueOf((*Vec)(nil)))
	assert.ErrorIs(t, err, apis.ErrInvalidValue)
}

func TestEncode_LeafRootRejected(t *testing.T) {
	e := newEnv(t)
	_, err := e.enc.EncodeValue(apis.ValueOf(uint32(3)))
	assert.ErrorIs(t, err, apis.ErrShapeMismatch)

	_, err = e.enc.Encode(leafProperty{v: apis.ValueOf(2.5)})
	assert.ErrorIs(t, err, apis.ErrShapeMismatch)
}

// leafProperty is a Property that is not Properties.
type leafProperty struct{ v apis.Value }

func (l leafProperty) TypeID() apis.TypeID { return "float64" }
func (l leafProperty) Value() apis.Value   { return l.v }
func (l leafProperty) Clone() apis.Value   { return l.v.Clone() }

type Weights struct {
	ByName map[string]float64
	Meta   Meta
	Any    map[string]any
}

// Meta is a struct leaf with its own YAML form.
type Meta struct {
	Scale float64 `yaml:"scale"`
	Ratio float32
}

func (m Meta) MarshalYAML() (any, error) {
	type plain Meta
	return plain(m), nil
}

func TestEncode_FloatsInsideLeaves(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, registry.Register[Weights](e.reg))
	view, err := e.refl.Of(&Weights{
		ByName: map[string]float64{"a": 1, "b": 2.5},
		Meta:   Meta{Scale: 3, Ratio: 1e21},
		Any:    map[string]any{"n": 4.0, "i": 4},
	})
	require.NoError(t, err)

	out := e.encode(t, view)
	assert.Contains(t, out, "a: 1.0\n")
	assert.Contains(t, out, "b: 2.5\n")
	assert.Contains(t, out, "scale: 3.0\n")
	assert.Contains(t, out, "ratio: 1.0e+21\n")
	assert.Contains(t, out, "n: 4.0\n")
	assert.Contains(t, out, "i: 4\n")

	dyn, err := e.dec.Decode([]byte(out))
	require.NoError(t, err, out)
	v, ok := dyn.Get("ByName")
	require.True(t, ok)
	m, ok := apis.As[map[string]float64](v)
	require.True(t, ok, "%v", v)
	assert.Equal(t, map[string]float64{"a": 1, "b": 2.5}, m)
	assert.Equal(t, out, e.encode(t, dyn))
}

type Chain struct {
	Name  string
	Links []*Vec
	Any   []any
}

func TestRoundTrip_NilSequenceElements(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, registry.Register[Chain](e.reg))
	src := &Chain{Name: "c", Links: []*Vec{nil, {X: 1}, nil}, Any: []any{nil, uint32(2)}}

	view, err := e.refl.Of(src)
	require.NoError(t, err)
	out := e.encode(t, view)
	assert.Contains(t, out, "- ~")

	dyn, err := e.dec.Decode([]byte(out))
	require.NoError(t, err, out)
	v, ok := dyn.Get("Links")
	require.True(t, ok)
	links, ok := apis.As[*dynamic.Properties](v)
	require.True(t, ok)
	require.Equal(t, 3, links.Len())
	first, _ := links.At(0)
	assert.True(t, first.IsNull())
	second, _ := links.At(1)
	assert.False(t, second.IsNull())

	e.roundTrip(t, src)
}

func TestDecode_NullOutsideSequence(t *testing.T) {
	e := newEnv(t)
	for name, doc := range map[string]string{
		"root":  "~\n",
		"field": "map:\n  a: ~\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := e.dec.Decode([]byte(doc))
			assert.ErrorIs(t, err, codec.ErrMalformed)
		})
	}
}

type Loop struct {
	Name string
	Next *Loop
}

func TestEncode_CycleFails(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, registry.Register[Loop](e.reg))
	a := &Loop{Name: "a"}
	a.Next = &Loop{Name: "b", Next: a}

	view, err := e.refl.Of(a)
	require.NoError(t, err)
	_, err = e.enc.Encode(view)
	assert.ErrorIs(t, err, apis.ErrNotReflectable)

	self := []any{nil}
	self[0] = self
	_, err = e.enc.EncodeValue(apis.ValueOf(self))
	assert.ErrorIs(t, err, apis.ErrNotReflectable)

	// Shared but acyclic structure is fine.
	shared := &Vec{X: 1}
	e.roundTrip(t, &Chain{Links: []*Vec{shared, shared}})
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		bits int
		want string
	}{
		{1, 64, "1.0"},
		{-3, 64, "-3.0"},
		{2.5, 64, "2.5"},
		{0.1, 64, "0.1"},
		{1e21, 64, "1.0e+21"},
		{2.5e21, 64, "2.5e+21"},
		{1e-7, 64, "1.0e-07"},
		{float64(float32(0.1)), 32, "0.1"},
		{math.Inf(1), 64, ".inf"},
		{math.Inf(-1), 64, "-.inf"},
		{math.NaN(), 64, ".nan"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, codec.FormatFloat(c.in, c.bits), "%v/%d", c.in, c.bits)
	}
}
