// Copyright (C) 2024 jsonshiatsu authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package parser

import "github.com/JostBrand/jsonshiatsu/value"

// Hooks holds the optional transformation callbacks described in §4.3.
// They are external collaborators: the parser calls them but does not
// implement their policy. The object hooks (ObjectAsMap, ObjectAsPairs)
// run in a single bottom-up pass once the whole tree is built; Number,
// Integer, Float and Constant are called during parsing, as each
// numeric or identifier token is converted.
type Hooks struct {
	// Number, if set, is tried before Integer/Float on every numeric
	// lexeme; returning ok=false falls through to the default
	// Integer/Float handling.
	Number func(lexeme string) (v value.Value, ok bool)
	// Integer transforms a successfully parsed integer value.
	Integer func(v value.Value) value.Value
	// Float transforms a successfully parsed float value.
	Float func(v value.Value) value.Value
	// Constant is offered every bare identifier in value position (e.g.
	// NaN, Infinity, -Infinity); returning ok=false falls through to the
	// wrapper-call and unquoted-string handling.
	Constant func(name string) (v value.Value, ok bool)
	// ObjectAsMap fires once per object after construction. Mutually
	// exclusive with ObjectAsPairs; if both are set, ObjectAsMap wins.
	ObjectAsMap func(obj *value.Object) value.Value
	// ObjectAsPairs fires with the object's ordered key/value list
	// instead of ObjectAsMap.
	ObjectAsPairs func(pairs []struct {
		Key   string
		Value value.Value
	}) value.Value
}

func (h Hooks) hasObjectHook() bool {
	return h.ObjectAsMap != nil || h.ObjectAsPairs != nil
}

// applyObjectHook runs whichever object hook is configured, preferring
// ObjectAsMap per the "mutually exclusive, map wins" rule.
func (h Hooks) applyObjectHook(obj *value.Object) value.Value {
	if h.ObjectAsMap != nil {
		return h.ObjectAsMap(obj)
	}
	if h.ObjectAsPairs != nil {
		return h.ObjectAsPairs(obj.Pairs())
	}
	return value.FromObject(obj)
}

// applyHooksBottomUp walks v and applies the configured hooks, deepest
// nodes first, matching the "fold over the tree" design note. Numbers
// have already had Integer/Float/Number applied at construction time
// (see parseNumber); this pass only needs to handle Array/Object
// recursion and the object hooks.
func applyHooksBottomUp(v value.Value, h Hooks) value.Value {
	switch v.Kind() {
	case value.KindArray:
		items, _ := v.Items()
		out := make([]value.Value, len(items))
		for i, item := range items {
			out[i] = applyHooksBottomUp(item, h)
		}
		return v.WithArrayItems(out)
	case value.KindObject:
		obj, _ := v.AsObject()
		obj.Range(func(_ string, fv value.Value) value.Value {
			return applyHooksBottomUp(fv, h)
		})
		if h.hasObjectHook() {
			return h.applyObjectHook(obj)
		}
		return v
	default:
		return v
	}
}
