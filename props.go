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
	"errors"
	"reflect"
	"sync"
	"sync/atomic"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/builder"
	"dirpx.dev/props/config"
)

// init initializes the global state.
func init() {
	s := &state{cfg: config.DefaultConfig()}
	b := builder.New()
	s.res = b.BuildResolver(s.cfg, nil)
	s.bld = b
	st.Store(s)
}

// ErrNilResolver is raised when a builder returns a nil resolver.
var ErrNilResolver = errors.New("props: builder returned nil resolver")

// TypeIDOf returns the identity of v's type under the global resolver.
func TypeIDOf(v any) apis.TypeID {
	s := st.Load()
	return s.res.Resolve(v, s.cfg)
}

// TypeIDOfType returns the identity of t under the global resolver.
func TypeIDOfType(t reflect.Type) apis.TypeID {
	s := st.Load()
	return s.res.ResolveType(t, s.cfg)
}

// NewRegistry returns an empty registry built for the current configuration
// and resolver. Registries are never global: callers own them and pass them
// to Decode and Reify.
func NewRegistry() apis.Registry {
	s := st.Load()
	return s.bld.BuildRegistry(s.cfg, s.res, nil)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig replaces the global configuration and rebuilds the resolver
// unless it is pinned.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nres := old.res
	if !old.pres {
		nres = old.bld.BuildResolver(cfg, old.res)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	st.Store(&state{cfg: cfg, res: nres, bld: old.bld, pres: old.pres})
}

// Resolver returns the global resolver.
func Resolver() apis.Resolver {
	return st.Load().res
}

// SetResolver replaces the global resolver and pins it, so later
// configuration or builder changes keep it. A nil resolver is ignored.
func SetResolver(res apis.Resolver) {
	if res == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, res: res, bld: old.bld, pres: true})
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder replaces the global builder and rebuilds the resolver unless it
// is pinned. A nil builder is ignored.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nres := old.res
	if !old.pres {
		nres = b.BuildResolver(old.cfg, old.res)
	}
	if nres == nil {
		panic(ErrNilResolver)
	}

	st.Store(&state{cfg: old.cfg, res: nres, bld: b, pres: old.pres})
}

// IsResolverPinned reports whether the global resolver is pinned.
func IsResolverPinned() bool {
	return st.Load().pres
}

// PinResolver keeps the current resolver across reconfigurations.
func PinResolver() {
	setPinned(true)
}

// UnpinResolver lets the next reconfiguration rebuild the resolver.
func UnpinResolver() {
	setPinned(false)
}

func setPinned(pinned bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	st.Store(&state{cfg: old.cfg, res: old.res, bld: old.bld, pres: pinned})
}

// buildMu serializes writers (reconfigurations/swaps) so we never publish
// partially-built snapshots.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is an immutable snapshot published atomically via st.Store; never
// mutate fields of a published state.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// res is the global resolver.
	res apis.Resolver
	// bld builds resolvers and registries.
	bld apis.Builder
	// pres indicates whether res is pinned.
	pres bool
}
