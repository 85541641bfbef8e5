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

package resolver_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/props/apis"
	"dirpx.dev/props/config"
	"dirpx.dev/props/resolver"
	"dirpx.dev/props/strategy"
)

// fixed answers for one Go type only.
type fixed struct {
	t  reflect.Type
	id apis.TypeID
}

func (f fixed) TryResolve(v any, cfg apis.Config) (apis.TypeID, bool) {
	return f.TryResolveType(reflect.TypeOf(v), cfg)
}

func (f fixed) TryResolveType(t reflect.Type, _ apis.Config) (apis.TypeID, bool) {
	if t != f.t {
		return "", false
	}
	return f.id, true
}

type plain struct{}

type named struct{}

func (named) TypeName() string { return "custom.named" }

func TestChain_Order(t *testing.T) {
	cfg := config.DefaultConfig()
	first := fixed{t: reflect.TypeOf(plain{}), id: "first"}
	second := fixed{t: reflect.TypeOf(plain{}), id: "second"}

	assert.Equal(t, apis.TypeID("first"), resolver.New(first, second).Resolve(plain{}, cfg))
	assert.Equal(t, apis.TypeID("second"), resolver.New(second, first).Resolve(plain{}, cfg))
}

func TestChain_NilStrategiesIgnored(t *testing.T) {
	cfg := config.DefaultConfig()
	r := resolver.New(nil, strategy.NewReflectStrategy(), nil)
	assert.Equal(t, apis.TypeID("resolver_test.plain"), r.Resolve(plain{}, cfg))
}

func TestChain_Empty(t *testing.T) {
	cfg := config.DefaultConfig()
	r := resolver.New()
	assert.Equal(t, apis.TypeID(""), r.Resolve(plain{}, cfg))
	assert.Equal(t, apis.TypeID(""), r.ResolveType(reflect.TypeOf(plain{}), cfg))
}

func TestChain_Standard(t *testing.T) {
	cfg := config.DefaultConfig()
	r := resolver.New(strategy.NewNamerStrategy(), strategy.NewReflectStrategy())

	cases := []struct {
		t    reflect.Type
		want apis.TypeID
	}{
		{reflect.TypeOf(named{}), "custom.named"},
		{reflect.TypeOf(&named{}), "custom.named"},
		{reflect.TypeOf(plain{}), "resolver_test.plain"},
		{reflect.TypeOf(uint32(0)), "uint32"},
		{reflect.TypeOf([]uint32{}), "[]uint32"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, r.ResolveType(c.t, cfg), c.t.String())
	}
}
