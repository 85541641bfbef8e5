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
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/props/apis"
)

// Local test types.
type A struct{}
type G[T any] struct{}
type W[T any] struct{ V T }

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		IncludeBuiltins: true,
		MaxUnwrap:       8,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestReflectStrategy_ByValue(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		val      any
		cfg      apis.Config
		expected apis.TypeID
	}{
		{"plain struct", A{}, cfg(), "strategy.A"},
		{"ptr", &A{}, cfg(), "strategy.A"},
		{"slice", []A{}, cfg(), "[]strategy.A"},
		{"array", [2]A{}, cfg(), "[2]strategy.A"},
		{"map", map[string]A{}, cfg(), "map[string]strategy.A"},
		{"builtin", 42, cfg(), "int"},
		{"builtin u32", uint32(42), cfg(), "uint32"},
		{"builtin f64", 1.5, cfg(), "float64"},
		{"slice of builtin", []uint32{1}, cfg(), "[]uint32"},
		{"generic keeps params", G[int]{}, cfg(), "strategy.G[int]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolve(tc.val, tc.cfg)
			if !ok {
				t.Fatalf("expected ok=true for %T", tc.val)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}

	if got, ok := s.TryResolve(nil, cfg()); ok || got != "" {
		t.Fatalf("nil value: got (%q,%v), want ('',false)", got, ok)
	}
}

func TestReflectStrategy_ByType(t *testing.T) {
	s := NewReflectStrategy()

	cases := []struct {
		name     string
		typ      reflect.Type
		expected apis.TypeID
	}{
		{"type plain", reflect.TypeOf(A{}), "strategy.A"},
		{"type ptr", reflect.TypeOf(&A{}), "strategy.A"},
		{"type slice", reflect.TypeOf([]A{}), "[]strategy.A"},
		{"type generic instantiation", reflect.TypeOf(G[int]{}), "strategy.G[int]"},
		{"type string", reflect.TypeOf(""), "string"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := s.TryResolveType(tc.typ, cfg())
			if !ok {
				t.Fatalf("expected ok=true for %v", tc.typ)
			}
			if got != tc.expected {
				t.Fatalf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestReflectStrategy_DistinctInstantiations(t *testing.T) {
	s := NewReflectStrategy()
	a, _ := s.TryResolveType(reflect.TypeOf(G[int]{}), cfg())
	b, _ := s.TryResolveType(reflect.TypeOf(G[string]{}), cfg())
	if a == b {
		t.Fatalf("G[int] and G[string] share identity %q", a)
	}
}

func TestReflectStrategy_MaxUnwrap(t *testing.T) {
	s := NewReflectStrategy()

	type PP = **A
	tt := reflect.TypeOf((*PP)(nil)).Elem() // **A type (not a value)

	// Too small MaxUnwrap -> cannot reach the named A.
	t.Run("tight limit", func(t *testing.T) {
		cfgTight := cfg(func(c *apis.Config) { c.MaxUnwrap = 1 })
		got, ok := s.TryResolveType(tt, cfgTight)
		if ok && got != "" {
			t.Fatalf("MaxUnwrap=1: expected empty/failed resolution, got %q", got)
		}
	})

	// Large enough -> success.
	t.Run("wide limit", func(t *testing.T) {
		cfgWide := cfg(func(c *apis.Config) { c.MaxUnwrap = 8 })
		got, ok := s.TryResolveType(tt, cfgWide)
		if !ok || got != "strategy.A" {
			t.Fatalf("MaxUnwrap=8: got (%q,%v), want (strategy.A,true)", got, ok)
		}
	})
}

// This test stresses the memoization and Normalize path under concurrency.
func TestReflectStrategy_Concurrent(t *testing.T) {
	s := NewReflectStrategy()
	conf := cfg()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(0),
	}
	expect := []apis.TypeID{"strategy.A", "strategy.A", "[]strategy.A", "map[string]strategy.A", "strategy.G[int]", "int"}

	workers := runtime.GOMAXPROCS(0) * 4
	iters := 2000

	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan apis.TypeID, workers)

	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				idx := i % len(types)
				got, ok := s.TryResolveType(types[idx], conf)
				if !ok || got != expect[idx] {
					errCh <- got
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errCh)
	for e := range errCh {
		t.Fatalf("concurrent resolve mismatch: got=%q", e)
	}
}

// ---- Benchmarks ----

func BenchmarkReflectStrategy_ByType(b *testing.B) {
	s := NewReflectStrategy()

	types := []reflect.Type{
		reflect.TypeOf(A{}),
		reflect.TypeOf(&A{}),
		reflect.TypeOf([]A{}),
		reflect.TypeOf(map[string]A{}),
		reflect.TypeOf(G[int]{}),
		reflect.TypeOf(W[G[int]]{}),
		reflect.TypeOf(0),
	}
	conf := cfg()
	// Warm-up cache
	for _, t0 := range types {
		s.TryResolveType(t0, conf)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.TryResolveType(types[i%len(types)], conf)
	}
}
