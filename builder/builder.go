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

package builder

import (
	"dirpx.dev/props/apis"
	"dirpx.dev/props/registry"
	"dirpx.dev/props/resolver"
	"dirpx.dev/props/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildResolver returns the standard chain: Namer first, reflection as the
// fallback. The previous resolver holds no state worth keeping.
func (b *builder) BuildResolver(_ apis.Config, _ apis.Resolver) apis.Resolver {
	return resolver.New(
		strategy.NewNamerStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// BuildRegistry builds a new apis.Registry for cfg and res. If a previous
// registry is provided, its Go types are registered again under the new
// configuration, so identities are recomputed rather than copied.
func (b *builder) BuildRegistry(cfg apis.Config, res apis.Resolver, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg, res)
	if prev != nil {
		log := apis.LoggerOf(cfg)
		for _, e := range prev.Entries() {
			if err := nreg.Register(e.Type); err != nil {
				log.Warn("registration not migrated", "id", e.ID, "err", err)
			}
		}
	}
	return nreg
}
