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

// Package codec converts Properties to YAML text and back.
//
// Every node of a document is a mapping with a body key and an optional
// identity:
//
//	type: demo.Scene          # omitted on untagged dynamic nodes
//	map:                      # record: ordered name -> node
//	  Speed:
//	    type: float64
//	    value: 1.0            # leaf: requires a type
//	  Path:
//	    type: '[]uint32'
//	    seq:                  # sequence: ordered nodes
//	      - type: uint32
//	        value: 3
//
// Floats always carry a fraction ("1.0", "1.0e+21"), also inside maps and
// other composite leaves, so they never read back as integers. Nil pointer
// and nil interface fields are omitted; nil sequence elements are written as
// a bare null ("- ~") and decode to apis.Null so later indices stay put.
// A value reached again through itself fails with apis.ErrNotReflectable.
//
// Decoding yields a *dynamic.Properties tree. Tagged records and sequences
// must be registered with the matching shape, tagged leaves are built by
// their registered constructor. Decoding is all or nothing: on error no tree
// is returned.
package codec
