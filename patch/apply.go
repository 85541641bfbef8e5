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

// Package patch implements the merge ("apply") algorithm shared by every
// apis.Properties implementation.
//
// Apply is forward compatible: patch fields unknown to the target and fields
// whose types disagree are skipped, not reported. Only applying a record onto
// a sequence (or the reverse) is an error, and it is detected before anything
// is written. Apply is not transactional across fields.
//
// Strict runs the same algorithm and reports what was skipped.
package patch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dirpx.dev/props/apis"
)

// ErrIncomplete is returned by Strict when some patch entries did not land.
var ErrIncomplete = errors.New("props(patch): patch not fully applied")

// Apply merges p onto target.
//
// Records are matched by field name, sequences by index. Sequence indices at
// or beyond target.Len() are ignored: Apply never grows a target, use
// apis.Sequence.Push or Insert for that.
//
// For each matched slot:
//   - if the patch value is itself structured and the target slot exposes a
//     structured view of the same shape and identity, Apply recurses (an
//     untagged patch node matches any identity);
//   - otherwise, if the exact Go types agree, the slot receives a clone of
//     the patch value;
//   - otherwise the slot is left alone.
//
// A patch slot holding apis.Null stands for an absent element and is not
// applied, nor reported by Strict.
func Apply(target, p apis.Properties) error {
	if err := check(target, p); err != nil {
		return err
	}
	var w walker
	w.apply(target, p, "")
	return nil
}

// Strict is Apply, but returns an error wrapping ErrIncomplete that lists
// the paths of every skipped entry. Entries that could be applied have been
// written by then; callers wanting all-or-nothing apply to a copy.
func Strict(target, p apis.Properties) error {
	if err := check(target, p); err != nil {
		return err
	}
	w := walker{strict: true}
	w.apply(target, p, "")
	if len(w.skipped) > 0 {
		return fmt.Errorf("%w: skipped %s", ErrIncomplete, strings.Join(w.skipped, ", "))
	}
	return nil
}

func check(target, p apis.Properties) error {
	if target == nil || p == nil {
		return apis.ErrInvalidValue
	}
	if target.Shape() != p.Shape() {
		return apis.ShapeMismatch(target.Shape(), p.Shape())
	}
	return nil
}

type walker struct {
	strict  bool
	skipped []string
}

func (w *walker) skip(path string) {
	if w.strict {
		w.skipped = append(w.skipped, path)
	}
}

// apply assumes matching shapes.
func (w *walker) apply(target, p apis.Properties, path string) {
	switch p.Shape() {
	case apis.ShapeRecord:
		for i := 0; i < p.Len(); i++ {
			name, _ := p.NameAt(i)
			at := join(path, name)
			j := target.IndexOf(name)
			if j < 0 {
				w.skip(at)
				continue
			}
			v, _ := p.At(i)
			w.slot(target, j, v, at)
		}
	case apis.ShapeSequence:
		n := min(p.Len(), target.Len())
		for i := 0; i < n; i++ {
			v, _ := p.At(i)
			w.slot(target, i, v, path+"["+strconv.Itoa(i)+"]")
		}
		for i := n; i < p.Len(); i++ {
			w.skip(path + "[" + strconv.Itoa(i) + "]")
		}
	}
}

func (w *walker) slot(target apis.Properties, j int, v apis.Value, path string) {
	if v.IsNull() {
		return
	}
	if !v.IsValid() {
		w.skip(path)
		return
	}
	if nested, ok := v.Interface().(apis.Properties); ok {
		if tp, ok := target.PropertiesAt(j); ok {
			if tp.Shape() == nested.Shape() && SameIdentity(tp.TypeID(), nested.TypeID()) {
				w.apply(tp, nested, path)
			} else {
				w.skip(path)
			}
			return
		}
	}
	cur, ok := target.At(j)
	if !ok || cur.Type() != v.Type() {
		w.skip(path)
		return
	}
	if err := target.SetAt(j, v.Clone()); err != nil {
		w.skip(path)
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// SameIdentity reports whether two identities are compatible for patching.
// An empty identity (an untagged, purely structural node) matches anything.
func SameIdentity(a, b apis.TypeID) bool {
	return a == "" || b == "" || a == b
}
