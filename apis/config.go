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

// Config carries read-only knobs shared by the resolver, registry and codec.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// IncludeBuiltins controls whether registries pre-register the predeclared
	// scalar types (bool, ints, uints, floats, string) on construction.
	IncludeBuiltins bool

	// MaxUnwrap limits pointer unwrapping depth when resolving type identities.
	// Acts as a safety guard against pathological nesting.
	MaxUnwrap int

	// Indent is the number of spaces used by the codec when pretty-printing.
	Indent int

	// Logger receives diagnostics. A nil Logger discards them.
	Logger Logger
}
