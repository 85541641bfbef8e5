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

package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"gopkg.in/yaml.v3"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/reflection"
	uref "dirpx.dev/props/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("props(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when the resolver yields no identity for a type.
	ErrEmptyName = errors.New("props(registry): type has no identity")
	// ErrNilResolver is returned by New when no resolver is provided.
	ErrNilResolver = errors.New("props(registry): nil resolver")
)

// builtins are pre-registered when cfg.IncludeBuiltins is set.
var builtins = []reflect.Type{
	reflect.TypeOf(false),
	reflect.TypeOf(int(0)), reflect.TypeOf(int8(0)), reflect.TypeOf(int16(0)),
	reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0)),
	reflect.TypeOf(uint(0)), reflect.TypeOf(uint8(0)), reflect.TypeOf(uint16(0)),
	reflect.TypeOf(uint32(0)), reflect.TypeOf(uint64(0)),
	reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0)),
	reflect.TypeOf(""),
}

// New constructs a Registry that names types with res under cfg.
// It panics with ErrNilResolver if res is nil.
func New(cfg apis.Config, res apis.Resolver) apis.Registry {
	if res == nil {
		panic(ErrNilResolver)
	}
	r := &registry{
		cfg:    cfg,
		res:    res,
		log:    apis.LoggerOf(cfg),
		byID:   xsync.NewMapOf[apis.TypeID, apis.Registration](),
		byType: xsync.NewMapOf[reflect.Type, apis.TypeID](),
	}
	r.registerBuiltins()
	return r
}

// Register is the generic form of apis.Registry.Register.
func Register[T any](reg apis.Registry) error {
	return reg.Register(reflect.TypeOf((*T)(nil)).Elem())
}

// registry is a Registry implementation backed by two xsync maps.
// Reads never lock; writes hold mu and publish a type only after
// everything it depends on.
type registry struct {
	// cfg is the configuration used for type normalization and naming.
	cfg apis.Config
	// res names types.
	res apis.Resolver
	// log receives registration diagnostics.
	log apis.Logger
	// mu serializes writers.
	mu sync.Mutex
	// byID maps identities to registrations.
	byID *xsync.MapOf[apis.TypeID, apis.Registration]
	// byType maps registered Go types back to their identity.
	byType *xsync.MapOf[reflect.Type, apis.TypeID]
}

// Register adds the pointee of t and, for records and sequences, every type
// reachable through their fields and elements.
//
// Registering an identity twice with the same Go type is a no-op. A different
// Go type claiming an already registered identity replaces it; this is logged
// as a warning and is not an error.
func (r *registry) Register(t reflect.Type) error {
	if t == nil {
		return ErrNilType
	}

	// Fast read path: already registered.
	if base, err := uref.Normalize(t, r.cfg.MaxUnwrap); err == nil {
		if _, ok := r.byType.Load(base); ok {
			return nil
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(t)
}

// register must be called with mu held. The closure of t is collected
// first and published dependencies first, root last, so a reader that sees
// the root also sees everything it refers to. A failure publishes nothing.
func (r *registry) register(t reflect.Type) error {
	st := staging{seen: make(map[reflect.Type]bool)}
	if err := r.collect(t, &st); err != nil {
		return err
	}
	for i := len(st.order) - 1; i >= 0; i-- {
		r.publish(st.order[i])
	}
	return nil
}

// staging holds registrations collected but not yet published.
type staging struct {
	order []apis.Registration
	seen  map[reflect.Type]bool
}

func (r *registry) collect(t reflect.Type, st *staging) error {
	base, err := uref.Normalize(t, r.cfg.MaxUnwrap)
	if err != nil {
		return fmt.Errorf("props(registry): %v: %w", t, err)
	}
	if base.Kind() == reflect.Interface {
		// Interfaces are never serialized as such: values carry their
		// concrete type.
		return nil
	}
	if st.seen[base] {
		return nil
	}
	if _, ok := r.byType.Load(base); ok {
		return nil
	}

	id := r.res.ResolveType(base, r.cfg)
	if id == "" {
		return fmt.Errorf("%w: %v", ErrEmptyName, base)
	}

	shape := reflection.ShapeOf(base)
	reg := apis.Registration{
		ID:    id,
		Type:  base,
		Shape: shape,
		New:   newFunc(base),
	}
	if shape == apis.ShapeValue {
		reg.Decode = valueConstructor(base)
	}

	// Mark before walking dependencies so that recursive types terminate.
	st.seen[base] = true
	st.order = append(st.order, reg)

	switch shape {
	case apis.ShapeRecord:
		for _, ft := range reflection.FieldTypes(base) {
			if err := r.collect(ft, st); err != nil {
				return err
			}
		}
	case apis.ShapeSequence:
		if err := r.collect(base.Elem(), st); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) publish(reg apis.Registration) {
	if old, ok := r.byID.Load(reg.ID); ok && old.Type != reg.Type {
		r.log.Warn("type identity overwritten", "id", reg.ID, "old", old.Type.String(), "new", reg.Type.String())
		r.byType.Delete(old.Type)
	}
	r.byID.Store(reg.ID, reg)
	r.byType.Store(reg.Type, reg.ID)
	r.log.Debug("registered type", "id", reg.ID, "shape", reg.Shape.String())
}

// Resolve returns the registration for id.
func (r *registry) Resolve(id apis.TypeID) (apis.Registration, bool) {
	return r.byID.Load(id)
}

// Lookup returns the identity under which t (or its pointee) is registered.
func (r *registry) Lookup(t reflect.Type) (apis.TypeID, bool) {
	if t == nil {
		return "", false
	}
	base, err := uref.Normalize(t, r.cfg.MaxUnwrap)
	if err != nil {
		return "", false
	}
	return r.byType.Load(base)
}

// Entries returns a snapshot for diagnostics/docs (order is unspecified).
func (r *registry) Entries() []apis.Registration {
	entries := make([]apis.Registration, 0, r.byID.Size())
	r.byID.Range(func(_ apis.TypeID, reg apis.Registration) bool {
		entries = append(entries, reg)
		return true
	})
	return entries
}

// Count returns the number of registered entries.
func (r *registry) Count() int {
	return r.byID.Size()
}

// Reset clears all registered entries, restoring the freshly constructed
// state (builtins included when configured).
func (r *registry) Reset() {
	r.mu.Lock()
	r.byID.Clear()
	r.byType.Clear()
	r.mu.Unlock()
	r.registerBuiltins()
}

func (r *registry) registerBuiltins() {
	if !r.cfg.IncludeBuiltins {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range builtins {
		// Builtins always have an identity; an error here is a resolver bug.
		if err := r.register(t); err != nil {
			r.log.Error("builtin registration failed", "type", t.String(), "err", err)
		}
	}
}

// newFunc returns a constructor of fresh *t values.
func newFunc(t reflect.Type) func() any {
	return func() any {
		return reflect.New(t).Interface()
	}
}

// valueConstructor decodes a scalar node into a fresh t.
func valueConstructor(t reflect.Type) apis.Constructor {
	return func(node *yaml.Node) (any, error) {
		p := reflect.New(t)
		if err := node.Decode(p.Interface()); err != nil {
			return nil, fmt.Errorf("props(registry): decode %v: %w", t, err)
		}
		return p.Elem().Interface(), nil
	}
}
