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

package strategy

import (
	"path"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"

	"dirpx.dev/props/apis"
	uref "dirpx.dev/props/utils/reflect"
)

// NewReflectStrategy creates an apis.Strategy that derives identities via
// reflection, using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.Strategy {
	return reflectStrategy{}
}

// reflectStrategy is the universal fallback that computes a stable "pkg.Type".
// Pointers are unwrapped via Normalize. Named types are qualified by the last
// element of their package path; predeclared types keep their bare name;
// unnamed composites use their Go spelling ("[]uint32", "map[string]int").
// Generic instantiations keep their type arguments so that G[int] and
// G[string] stay distinct.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.Strategy.
var _ apis.Strategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t         reflect.Type
	maxUnwrap int16
}

// typeIDCache caches resolved identities by (type, config knobs).
var typeIDCache = xsync.NewMapOf[cacheKey, apis.TypeID]()

// TryResolve computes the identity of v's type.
func (reflectStrategy) TryResolve(v any, cfg apis.Config) (apis.TypeID, bool) {
	if v == nil {
		return "", false
	}
	return byType(reflect.TypeOf(v), cfg), true
}

// TryResolveType computes the identity of t.
func (reflectStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (apis.TypeID, bool) {
	if t == nil {
		return "", false
	}
	return byType(t, cfg), true
}

// byType resolves the identity of t with memoization.
func byType(t reflect.Type, cfg apis.Config) apis.TypeID {
	key := cacheKey{
		t:         t,
		maxUnwrap: int16(cfg.MaxUnwrap),
	}
	if v, ok := typeIDCache.Load(key); ok {
		return v
	}

	base, err := uref.Normalize(t, cfg.MaxUnwrap)
	if err != nil || base == nil {
		typeIDCache.Store(key, "")
		return ""
	}

	var id apis.TypeID
	switch {
	case base.Name() == "":
		id = apis.TypeID(base.String())
	case base.PkgPath() == "":
		id = apis.TypeID(base.Name())
	default:
		id = apis.TypeID(path.Base(base.PkgPath()) + "." + base.Name())
	}

	typeIDCache.Store(key, id)
	return id
}
