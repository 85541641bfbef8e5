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
	"reflect"

	"dirpx.dev/props/apis"
	uref "dirpx.dev/props/utils/reflect"
)

// NewNamerStrategy creates an apis.Strategy that uses apis.Namer.
func NewNamerStrategy() apis.Strategy {
	return &namerStrategy{}
}

// namerStrategy is the fast path: if the type implements apis.Namer (on the
// value or on its pointer), return TypeName() and stop the chain.
type namerStrategy struct{}

// Ensure namerStrategy implements apis.Strategy.
var _ apis.Strategy = (*namerStrategy)(nil)

var namerType = reflect.TypeOf((*apis.Namer)(nil)).Elem()

// TryResolve checks if v's type implements apis.Namer and returns its TypeName().
// The name is type-level, so it is taken from the zero value, never from v.
func (*namerStrategy) TryResolve(v any, cfg apis.Config) (apis.TypeID, bool) {
	if v == nil {
		return "", false
	}
	return tryNamerType(reflect.TypeOf(v), cfg)
}

// TryResolveType calls TypeName() on the zero value of t, or of *t when only
// the pointer implements apis.Namer.
func (*namerStrategy) TryResolveType(t reflect.Type, cfg apis.Config) (apis.TypeID, bool) {
	return tryNamerType(t, cfg)
}

func tryNamerType(t reflect.Type, cfg apis.Config) (apis.TypeID, bool) {
	base, err := uref.Normalize(t, cfg.MaxUnwrap)
	if err != nil {
		return "", false
	}
	var n apis.Namer
	switch {
	case base.Implements(namerType) && base.Kind() != reflect.Interface:
		n = reflect.Zero(base).Interface().(apis.Namer)
	case reflect.PointerTo(base).Implements(namerType):
		n = reflect.New(base).Interface().(apis.Namer)
	default:
		return "", false
	}
	if name := n.TypeName(); name != "" {
		return apis.TypeID(name), true
	}
	return "", false
}
