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

// Package props is a runtime reflection and patching engine.
//
// It exposes any Go struct, slice or array as uniform, type-erased
// Properties, lets callers read and write fields through opaque values with
// exact type checking, merges partial dynamic patches onto live values, and
// round-trips everything through a human-readable YAML format.
//
// # Design
//
// The engine is split into small packages:
//
//   - apis: contracts (Property, Properties, Value, Registry, Resolver,
//     Strategy, Builder) and the error taxonomy.
//
//   - strategy, resolver: the TypeIdentity of a Go type. A type that
//     implements apis.Namer names itself; everything else is named by
//     reflection ("pkg.Type", "uint32", "[]pkg.Type").
//
//   - reflection: live Properties views over concrete values.
//
//   - dynamic: the type-erased Map / Seq container that decoding produces
//     and patches are built from.
//
//   - patch: the apply algorithm shared by all Properties.
//
//   - registry: identity -> type information needed to decode.
//
//   - codec: YAML encoding and decoding.
//
// This package holds a read-mostly global snapshot of the configuration,
// the resolver and the builder that makes resolvers and registries. Readers
// load the snapshot atomically and never lock:
//
//	id := props.TypeIDOf(v)
//	view, err := props.Reflect(&scene)
//
// Writers (SetConfig, SetBuilder, SetResolver, PinResolver, UnpinResolver)
// take a short build mutex, assemble a new snapshot and publish it. A
// resolver set with SetResolver is pinned: later configuration or builder
// changes keep it until UnpinResolver.
//
// Registries are not part of the snapshot. Each caller owns one, typically
// created once with NewRegistry, filled at startup and then only read:
//
//	reg := props.NewRegistry()
//	_ = registry.Register[Scene](reg)
//
//	text, _ := props.EncodeString(view)
//	patch, _ := props.Decode([]byte(text), reg)
//	_ = props.Apply(&other, patch)
//
// # Apply semantics
//
// Apply is forward compatible: unknown names, out-of-range indices and
// values of a different type are skipped. It never grows a sequence. Only a
// record/sequence mismatch at the root is an error. ApplyAtomic writes
// nothing unless every entry lands; Reify builds a new value from a tagged
// tree, sizing sequences to match.
//
// # Concurrency
//
// Reflected views and dynamic trees are not safe for concurrent mutation.
// Resolvers and registries are safe for concurrent reads, and registries
// also accept late registrations concurrently.
package props
