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
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/dynamic"
)

// ErrMalformed reports a document that does not follow the node grammar.
var ErrMalformed = errors.New("props(codec): malformed document")

// Decoder turns YAML documents into dynamic trees.
type Decoder struct {
	reg apis.Registry
	log apis.Logger
}

// NewDecoder returns a Decoder resolving identities in reg.
func NewDecoder(reg apis.Registry, cfg apis.Config) *Decoder {
	return &Decoder{reg: reg, log: apis.LoggerOf(cfg)}
}

// Decode parses data. The root node must be a record or a sequence.
func (d *Decoder) Decode(data []byte) (*dynamic.Properties, error) {
	p, err := d.decode(data)
	if err != nil {
		d.log.Debug("decode failed", "err", err)
		return nil, err
	}
	return p, nil
}

func (d *Decoder) decode(data []byte) (*dynamic.Properties, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	v, err := d.node(doc.Content[0])
	if err != nil {
		return nil, err
	}
	p, ok := apis.As[*dynamic.Properties](v)
	if !ok {
		return nil, fmt.Errorf("%w: root must be a map or seq node", ErrMalformed)
	}
	return p, nil
}

func malformed(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, n.Line, fmt.Sprintf(format, args...))
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// node decodes one grammar node.
func (d *Decoder) node(n *yaml.Node) (apis.Value, error) {
	n = deref(n)
	if n.Kind != yaml.MappingNode {
		return apis.Value{}, malformed(n, "node must be a mapping")
	}

	var (
		id      apis.TypeID
		tagged  bool
		bodyKey string
		body    *yaml.Node
	)
	seen := make(map[string]bool, 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := deref(n.Content[i]), deref(n.Content[i+1])
		if k.Kind != yaml.ScalarNode {
			return apis.Value{}, malformed(k, "non-scalar key")
		}
		if seen[k.Value] {
			return apis.Value{}, malformed(k, "duplicate key %q", k.Value)
		}
		seen[k.Value] = true

		switch k.Value {
		case keyType:
			if v.Kind != yaml.ScalarNode || v.Value == "" {
				return apis.Value{}, malformed(v, "type must be a non-empty string")
			}
			id, tagged = apis.TypeID(v.Value), true
		case keyMap, keySeq, keyValue:
			if body != nil {
				return apis.Value{}, malformed(k, "both %q and %q present", bodyKey, k.Value)
			}
			bodyKey, body = k.Value, v
		default:
			return apis.Value{}, malformed(k, "unexpected key %q", k.Value)
		}
	}
	if body == nil {
		return apis.Value{}, malformed(n, "missing map, seq or value")
	}

	switch bodyKey {
	case keyMap:
		return d.record(id, tagged, body)
	case keySeq:
		return d.sequence(id, tagged, body)
	default:
		if !tagged {
			return apis.Value{}, malformed(body, "value without type")
		}
		return d.leaf(id, body)
	}
}

// expect checks that a tagged structured node names a registered type of the
// given shape.
func (d *Decoder) expect(id apis.TypeID, shape apis.Shape, n *yaml.Node) error {
	reg, ok := d.reg.Resolve(id)
	if !ok {
		return apis.UnknownType(id)
	}
	if reg.Shape != shape {
		return fmt.Errorf("%w: line %d: %s: %w", ErrMalformed, n.Line, id, apis.ShapeMismatch(reg.Shape, shape))
	}
	return nil
}

func (d *Decoder) record(id apis.TypeID, tagged bool, body *yaml.Node) (apis.Value, error) {
	if tagged {
		if err := d.expect(id, apis.ShapeRecord, body); err != nil {
			return apis.Value{}, err
		}
	}
	if body.Kind != yaml.MappingNode {
		return apis.Value{}, malformed(body, "map body must be a mapping")
	}
	p := dynamic.MapOf(id)
	for i := 0; i+1 < len(body.Content); i += 2 {
		k := deref(body.Content[i])
		if k.Kind != yaml.ScalarNode {
			return apis.Value{}, malformed(k, "non-scalar field name")
		}
		if p.IndexOf(k.Value) >= 0 {
			return apis.Value{}, malformed(k, "duplicate field %q", k.Value)
		}
		v, err := d.node(body.Content[i+1])
		if err != nil {
			return apis.Value{}, err
		}
		if err := p.Put(k.Value, v); err != nil {
			return apis.Value{}, err
		}
	}
	return apis.ValueOf(p), nil
}

func (d *Decoder) sequence(id apis.TypeID, tagged bool, body *yaml.Node) (apis.Value, error) {
	if tagged {
		if err := d.expect(id, apis.ShapeSequence, body); err != nil {
			return apis.Value{}, err
		}
	}
	if body.Kind != yaml.SequenceNode {
		return apis.Value{}, malformed(body, "seq body must be a sequence")
	}
	p := dynamic.SeqOf(id)
	for _, c := range body.Content {
		if isNull(c) {
			// An absent element keeps its index.
			if err := p.Push(apis.NullValue()); err != nil {
				return apis.Value{}, err
			}
			continue
		}
		v, err := d.node(c)
		if err != nil {
			return apis.Value{}, err
		}
		if err := p.Push(v); err != nil {
			return apis.Value{}, err
		}
	}
	return apis.ValueOf(p), nil
}

func (d *Decoder) leaf(id apis.TypeID, body *yaml.Node) (apis.Value, error) {
	reg, ok := d.reg.Resolve(id)
	if !ok {
		return apis.Value{}, apis.UnknownType(id)
	}
	if reg.Shape != apis.ShapeValue || reg.Decode == nil {
		return apis.Value{}, fmt.Errorf("%w: line %d: %s: %w", ErrMalformed, body.Line, id, apis.ShapeMismatch(apis.ShapeValue, reg.Shape))
	}
	if body.Kind != yaml.ScalarNode && body.Kind != yaml.MappingNode && body.Kind != yaml.SequenceNode {
		return apis.Value{}, malformed(body, "unsupported value node")
	}
	x, err := reg.Decode(body)
	if err != nil {
		return apis.Value{}, fmt.Errorf("%w: line %d: %w", ErrMalformed, body.Line, err)
	}
	return apis.ValueOf(x), nil
}

func isNull(n *yaml.Node) bool {
	n = deref(n)
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
