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

// Package reflection exposes concrete Go values as apis.Properties.
//
// Structs are records, slices and arrays are sequences. Everything else, and
// any struct that serializes itself (yaml.Marshaler or
// encoding.TextMarshaler), is an opaque value leaf. Record metadata (which
// fields are visible and under which names) is computed once per type and
// cached for the life of the process.
//
// Field names default to the Go field name and can be overridden with a
// `props:"name"` tag; `props:"-"` hides a field. Unexported fields and
// func/chan/unsafe.Pointer fields are never visible.
//
// Views returned by Of operate on the live value: SetAt, Push, Apply and
// friends mutate the pointee in place.
package reflection
