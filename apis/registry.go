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

package apis

import (
	"reflect"

	"gopkg.in/yaml.v3"
)

// Constructor builds a concrete value of a registered type from its
// serialized scalar form.
type Constructor func(node *yaml.Node) (any, error)

// Registration is one TypeRegistry entry.
type Registration struct {
	// ID is the registry key.
	ID TypeID
	// Type is the registered Go type.
	Type reflect.Type
	// Shape is how values of Type are exposed.
	Shape Shape
	// New returns a pointer to a fresh zero value of Type.
	New func() any
	// Decode constructs a value of Type from text. Set for ShapeValue only;
	// records and sequences are rebuilt structurally.
	Decode Constructor
}

// Registry maps type identities to constructors. Reads are safe for
// concurrent use; implementations must serialize writes.
type Registry interface {
	// Register adds t (and, for records and sequences, the types it is made
	// of). Re-registering an identity is never an error.
	Register(t reflect.Type) error
	// Resolve returns the registration for id.
	Resolve(id TypeID) (Registration, bool)
	// Lookup returns the identity under which t is registered.
	Lookup(t reflect.Type) (id TypeID, ok bool)
	// Entries returns a snapshot for diagnostics/docs (order is unspecified).
	Entries() []Registration
	// Count returns the number of registered entries.
	Count() int
	// Reset clears all registered entries.
	Reset()
}
