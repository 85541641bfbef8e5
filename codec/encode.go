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

package codec

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/reflection"
)

const (
	keyType  = "type"
	keyMap   = "map"
	keySeq   = "seq"
	keyValue = "value"
)

// Encoder renders Properties as YAML.
type Encoder struct {
	res  apis.Resolver
	cfg  apis.Config
	refl *reflection.Reflector
}

// NewEncoder returns an Encoder naming leaf types with res.
func NewEncoder(res apis.Resolver, cfg apis.Config) *Encoder {
	return &Encoder{res: res, cfg: cfg, refl: reflection.New(res, cfg)}
}

// Encode renders p as a pretty-printed YAML document. Only records and
// sequences are encodable as documents; leaf properties fail with
// apis.ErrShapeMismatch since they could not be decoded back.
func (e *Encoder) Encode(p apis.Property) ([]byte, error) {
	if p == nil {
		return nil, apis.ErrInvalidValue
	}
	if ps, ok := p.(apis.Properties); ok {
		n, err := e.state().propertiesNode(ps)
		if err != nil {
			return nil, err
		}
		return e.render(n)
	}
	return e.EncodeValue(p.Value())
}

// EncodeValue renders a single opaque structured value. Leaves fail with
// apis.ErrShapeMismatch.
func (e *Encoder) EncodeValue(v apis.Value) ([]byte, error) {
	if v.IsValid() {
		if shape := shapeOf(v); shape == apis.ShapeValue {
			return nil, apis.ShapeMismatch(apis.ShapeRecord, shape)
		}
	}
	n, err := e.Node(v)
	if err != nil {
		return nil, err
	}
	return e.render(n)
}

func (e *Encoder) render(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(e.cfg.Indent)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("props(codec): render: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("props(codec): render: %w", err)
	}
	return buf.Bytes(), nil
}

// errSkip marks nil pointers, nil interfaces and Null. Records omit them;
// sequences write an explicit null.
var errSkip = errors.New("skip")

// Node returns the YAML node of v, leaf or structured.
func (e *Encoder) Node(v apis.Value) (*yaml.Node, error) {
	n, err := e.state().valueNode(v)
	if errors.Is(err, errSkip) {
		return nil, fmt.Errorf("%w: nil", apis.ErrInvalidValue)
	}
	return n, err
}

func (e *Encoder) state() *encodeState {
	return &encodeState{Encoder: e, active: make(map[ref]bool)}
}

// encodeState carries one encoding pass. active holds the structured values
// currently being written, so that a value reached again through itself is
// reported instead of recursing forever.
type encodeState struct {
	*Encoder
	active map[ref]bool
}

// ref identifies a structured value by where it lives.
type ref struct {
	t   reflect.Type
	p   uintptr
	len int
}

func (s *encodeState) propertiesNode(p apis.Properties) (*yaml.Node, error) {
	if k, ok := refOf(p.Value()); ok {
		if s.active[k] {
			return nil, fmt.Errorf("%w: cycle through %v", apis.ErrNotReflectable, k.t)
		}
		s.active[k] = true
		defer delete(s.active, k)
	}

	n := mapping()
	if id := p.TypeID(); id != "" {
		n.Content = append(n.Content, str(keyType), str(string(id)))
	}

	var body *yaml.Node
	var key string
	switch p.Shape() {
	case apis.ShapeRecord:
		body, key = mapping(), keyMap
	case apis.ShapeSequence:
		body, key = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}, keySeq
	default:
		return nil, apis.ShapeMismatch(apis.ShapeRecord, p.Shape())
	}

	for i := 0; i < p.Len(); i++ {
		child, err := s.slotNode(p, i)
		if errors.Is(err, errSkip) {
			if key == keySeq {
				body.Content = append(body.Content, null())
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		if name, ok := p.NameAt(i); ok {
			body.Content = append(body.Content, str(name), child)
		} else {
			body.Content = append(body.Content, child)
		}
	}

	n.Content = append(n.Content, str(key), body)
	return n, nil
}

func (s *encodeState) slotNode(p apis.Properties, i int) (*yaml.Node, error) {
	var n *yaml.Node
	var err error
	if sub, ok := p.PropertiesAt(i); ok {
		n, err = s.propertiesNode(sub)
	} else {
		v, _ := p.At(i)
		n, err = s.valueNode(v)
	}
	if err != nil && !errors.Is(err, errSkip) {
		if name, ok := p.NameAt(i); ok {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return nil, fmt.Errorf("[%d]: %w", i, err)
	}
	return n, err
}

func (s *encodeState) valueNode(v apis.Value) (*yaml.Node, error) {
	if !v.IsValid() || v.IsNull() {
		return nil, errSkip
	}
	x := v.Interface()
	if ps, ok := x.(apis.Properties); ok {
		return s.propertiesNode(ps)
	}

	rv := reflect.ValueOf(x)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, errSkip
		}
		rv = rv.Elem()
	}
	if reflection.ShapeOf(rv.Type()) != apis.ShapeValue {
		view, err := s.refl.OfValue(rv.Interface())
		if err != nil {
			return nil, err
		}
		return s.propertiesNode(view)
	}

	id := s.res.ResolveType(rv.Type(), s.cfg)
	if id == "" {
		return nil, fmt.Errorf("props(codec): no identity for %v", rv.Type())
	}
	scalar, err := scalarNode(rv)
	if err != nil {
		return nil, err
	}
	n := mapping()
	n.Content = append(n.Content, str(keyType), str(string(id)), str(keyValue), scalar)
	return n, nil
}

// refOf returns the identity of the storage behind a structured value.
// Sequences are keyed by their backing array so that copies of a slice
// header still meet.
func refOf(v apis.Value) (ref, bool) {
	rv := reflect.ValueOf(v.Interface())
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ref{}, false
	}
	if el := rv.Elem(); el.Kind() == reflect.Slice {
		if el.Len() == 0 {
			return ref{}, false
		}
		return ref{t: el.Type(), p: el.Pointer(), len: el.Len()}, true
	}
	return ref{t: rv.Type(), p: rv.Pointer()}, true
}

// shapeOf reports the shape v would encode as.
func shapeOf(v apis.Value) apis.Shape {
	if ps, ok := v.Interface().(apis.Properties); ok {
		return ps.Shape()
	}
	t := v.Type()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflection.ShapeOf(t)
}

// scalarNode encodes a leaf through yaml.v3 (honoring yaml.Marshaler and
// encoding.TextMarshaler), then gives every float in the result an explicit
// fraction.
func scalarNode(rv reflect.Value) (*yaml.Node, error) {
	n := &yaml.Node{}
	if err := n.Encode(rv.Interface()); err != nil {
		return nil, fmt.Errorf("props(codec): encode %v: %w", rv.Type(), err)
	}
	if err := decimalFloats(n, rv); err != nil {
		return nil, fmt.Errorf("props(codec): encode %v: %w", rv.Type(), err)
	}
	return n, nil
}

var (
	yamlMarshalerType = reflect.TypeOf((*yaml.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// decimalFloats walks n alongside the value rv it was encoded from and
// rewrites the float scalars with FormatFloat. yaml.v3 writes 1.0 as "1",
// which would read back as an int.
func decimalFloats(n *yaml.Node, rv reflect.Value) error {
	for {
		if !rv.IsValid() || !rv.CanInterface() || n == nil {
			return nil
		}
		if rv.Type().Implements(yamlMarshalerType) {
			if isNil(rv) {
				return nil
			}
			out, err := rv.Interface().(yaml.Marshaler).MarshalYAML()
			if err != nil {
				return err
			}
			switch out.(type) {
			case *yaml.Node, yaml.Node:
				return nil
			}
			rv = reflect.ValueOf(out)
			continue
		}
		if rv.Type().Implements(textMarshalerType) {
			return nil
		}
		if rv.Kind() != reflect.Ptr && rv.Kind() != reflect.Interface {
			break
		}
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		if n.Kind == yaml.ScalarNode {
			bits := 64
			if rv.Kind() == reflect.Float32 {
				bits = 32
			}
			n.Tag, n.Value, n.Style = "!!float", FormatFloat(rv.Float(), bits), 0
		}

	case reflect.Slice, reflect.Array:
		if n.Kind != yaml.SequenceNode || len(n.Content) != rv.Len() {
			return nil
		}
		for i, c := range n.Content {
			if err := decimalFloats(c, rv.Index(i)); err != nil {
				return err
			}
		}

	case reflect.Map:
		if n.Kind != yaml.MappingNode {
			return nil
		}
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := reflect.New(rv.Type().Key())
			if err := n.Content[i].Decode(k.Interface()); err != nil {
				continue
			}
			if el := rv.MapIndex(k.Elem()); el.IsValid() {
				if err := decimalFloats(n.Content[i+1], el); err != nil {
					return err
				}
			}
			if err := decimalFloats(n.Content[i], k.Elem()); err != nil {
				return err
			}
		}

	case reflect.Struct:
		if n.Kind != yaml.MappingNode {
			return nil
		}
		return structFloats(n, rv)
	}
	return nil
}

// structFloats matches mapping keys to fields the way yaml.v3 names them.
func structFloats(n *yaml.Node, rv reflect.Value) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "inline") {
			if f.Type.Kind() == reflect.Struct {
				if err := structFloats(n, rv.Field(i)); err != nil {
					return err
				}
			}
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		for j := 0; j+1 < len(n.Content); j += 2 {
			if n.Content[j].Value == name {
				if err := decimalFloats(n.Content[j+1], rv.Field(i)); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// FormatFloat formats f so that it always reads back as a float: whole
// numbers get ".0", exponents get a fractional mantissa, and the specials use
// YAML notation.
func FormatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, bits)
	if strings.ContainsRune(s, '.') {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

func mapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func null() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "~"}
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
