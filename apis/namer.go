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

// Namer lets a type choose its own identity instead of the reflect-derived
// "pkg.Type" name.
//
// TypeName describes the type, not the instance: it MUST NOT depend on field
// values, and it MUST be safe to call on the zero value.
type Namer interface {
	TypeName() string
}

// Cloner is implemented by values that know how to deep-copy themselves.
// Value.Clone prefers it over reflective copying.
type Cloner interface {
	CloneValue() any
}
