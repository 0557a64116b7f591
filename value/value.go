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

// Package value defines the JSON value tree produced by the parser: a
// tagged union of Null, Bool, Integer, Float, String, Array and Object,
// with an insertion-ordered Object so that repeated re-serialization of
// a parsed document stays stable.
package value

import (
	"fmt"
	"math/big"

	"github.com/dchest/siphash"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the sum type produced by a parse. Exactly one of the typed
// accessors is meaningful, selected by Kind. Integer values that do not
// fit in an int64 (arbitrary precision lexemes) are carried in Big.
type Value struct {
	kind Kind
	b    bool
	i    int64
	big  *big.Int
	f    float64
	s    string
	arr  []Value
	obj  *Object

	// dupMarker tags an Array synthesized by Object.Set under the
	// CoalesceToArray policy, distinguishing it from a source array
	// literal that happens to hold the same elements.
	dupMarker bool
}

// Null returns the Value::Null singleton-shaped value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Integer wraps a native signed integer.
func Integer(i int64) Value { return Value{kind: KindInteger, i: i} }

// BigInteger wraps an arbitrary-precision integer lexeme that overflows
// int64 (e.g. a 40-digit literal copy-pasted from a log line).
func BigInteger(n *big.Int) Value { return Value{kind: KindInteger, big: n} }

// Float wraps an IEEE-754 double.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String wraps text.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps an ordered sequence of values. The slice is retained, not
// copied; callers should not mutate it after handing it to Array.
func Array(items []Value) Value { return Value{kind: KindArray, arr: items} }

// FromObject wraps an insertion-ordered mapping.
func FromObject(o *Object) Value { return Value{kind: KindObject, obj: o} }

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Int64 returns the value as an int64. The second return is false if
// the value is not an Integer or overflows int64 (use BigInt instead).
func (v Value) Int64() (int64, bool) {
	if v.kind != KindInteger || v.big != nil {
		return 0, false
	}
	return v.i, true
}

// BigInt returns the arbitrary-precision form of an Integer value,
// synthesizing one from the native int64 when no overflow occurred.
func (v Value) BigInt() (*big.Int, bool) {
	if v.kind != KindInteger {
		return nil, false
	}
	if v.big != nil {
		return v.big, true
	}
	return big.NewInt(v.i), true
}

func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

func (v Value) Str() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) Items() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.arr, true
}

func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

// WithArrayItems returns a copy of v (which must be an Array) with its
// items replaced. Used by the post-parse hook pass to rebuild an array
// after substituting its elements.
func (v Value) WithArrayItems(items []Value) Value {
	v.arr = items
	return v
}

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindInteger:
		if v.big != nil {
			return v.big.String()
		}
		return fmt.Sprintf("%d", v.i)
	case KindFloat:
		return fmt.Sprintf("%g", v.f)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindArray:
		return fmt.Sprintf("array[%d]", len(v.arr))
	case KindObject:
		return fmt.Sprintf("object[%d]", v.obj.Len())
	default:
		return "<invalid>"
	}
}

// DuplicateKeyPolicy selects how an Object resolves repeated keys
// encountered while a single structure is being built.
type DuplicateKeyPolicy uint8

const (
	// LastWins keeps only the most recently assigned value for a key.
	LastWins DuplicateKeyPolicy = iota
	// CoalesceToArray turns every value assigned to a repeated key into
	// an Array of the source values, in source order.
	CoalesceToArray
)

// field is one key/value slot of an Object, retained in insertion order.
type field struct {
	key   string
	value Value
}

// keyHashSeed is the SipHash key Object uses to index its keys. It is a
// fixed, built-in constant (see newKeyHashSeed), so the same key hashes
// to the same value in every process.
var keyHashSeed = newKeyHashSeed()

func newKeyHashSeed() (k0, k1 uint64) {
	// A fixed seed is acceptable here: unlike a long-lived server map,
	// an Object's lifetime is a single parse call, so there is no
	// standing oracle to exploit even with a known seed. The call is
	// kept through siphash.Hash (rather than a plain map) to keep the
	// per-call index structure O(1) without reaching for crypto/rand
	// on every parsed object.
	return 0x9ae16a3b2f90404f, 0xc949d7c7509e6557
}

func hashKey(key string) uint64 {
	k0, k1 := keyHashSeed
	return siphash.Hash(k0, k1, []byte(key))
}

// Object is an insertion-ordered string-to-Value mapping with
// configurable duplicate-key resolution (see DuplicateKeyPolicy).
type Object struct {
	fields []field
	index  map[uint64][]int // hash(key) -> indices into fields with that hash
	policy DuplicateKeyPolicy
}

// NewObject creates an empty Object under the given duplicate-key
// policy.
func NewObject(policy DuplicateKeyPolicy) *Object {
	return &Object{policy: policy}
}

func (o *Object) Len() int { return len(o.fields) }

func (o *Object) findIndex(key string) int {
	if o.index == nil {
		return -1
	}
	h := hashKey(key)
	for _, idx := range o.index[h] {
		if o.fields[idx].key == key {
			return idx
		}
	}
	return -1
}

// Set assigns value to key, applying the Object's duplicate-key policy
// if key is already present. It returns true if key was already
// present (i.e. this call observed a duplicate).
func (o *Object) Set(key string, v Value) bool {
	if idx := o.findIndex(key); idx >= 0 {
		switch o.policy {
		case CoalesceToArray:
			existing := o.fields[idx].value
			if existing.kind == KindArray && existing.dupMarker {
				o.fields[idx].value = Array(append(existing.arr, v))
				o.fields[idx].value.dupMarker = true
			} else {
				merged := Array([]Value{existing, v})
				merged.dupMarker = true
				o.fields[idx].value = merged
			}
		default: // LastWins
			o.fields[idx].value = v
		}
		return true
	}
	if o.index == nil {
		o.index = make(map[uint64][]int)
	}
	h := hashKey(key)
	o.index[h] = append(o.index[h], len(o.fields))
	o.fields = append(o.fields, field{key: key, value: v})
	return false
}

// Get returns the value for key in its current (possibly coalesced)
// form.
func (o *Object) Get(key string) (Value, bool) {
	idx := o.findIndex(key)
	if idx < 0 {
		return Value{}, false
	}
	return o.fields[idx].value, true
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.key
	}
	return keys
}

// Range calls fn for every field in insertion order. fn may replace the
// stored value by returning a modified Value; it must not mutate o's
// structure (add/remove keys) while ranging.
func (o *Object) Range(fn func(key string, v Value) Value) {
	for i := range o.fields {
		o.fields[i].value = fn(o.fields[i].key, o.fields[i].value)
	}
}

// ToAny converts v into the plain any tree (map[string]any,
// []any, string, float64/int64/*big.Int, bool, nil) that
// non-jsonshiatsu-aware consumers — notably the jsonschema-go validator
// — expect an instance to be shaped as. Integer is exposed as int64 or
// *big.Int rather than coerced to float64, preserving exactness for
// schema "type: integer" checks on values too large for a double.
func (v Value) ToAny() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInteger:
		if v.big != nil {
			return v.big
		}
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for _, f := range v.obj.fields {
			out[f.key] = f.value.ToAny()
		}
		return out
	default:
		return nil
	}
}

// Pairs returns the ordered key/value list backing the object, for
// callers (e.g. the object-as-pairs hook) that need the raw sequence
// rather than lookup semantics.
func (o *Object) Pairs() []struct {
	Key   string
	Value Value
} {
	out := make([]struct {
		Key   string
		Value Value
	}, len(o.fields))
	for i, f := range o.fields {
		out[i].Key = f.key
		out[i].Value = f.value
	}
	return out
}
