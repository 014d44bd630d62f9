// Copyright 2024 The unityasset Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
)

// ValueKind tags the variant currently held by a Value.
type ValueKind int

// Value variants. The set is exhaustive by design: adding a new Unity wire
// primitive means adding a case here, not bolting on a side channel.
const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
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

// Value is a tagged variant over Unity's wire primitives, identical in
// scope on both the YAML and binary parse paths. Only the field matching
// Kind is meaningful.
type Value struct {
	Kind ValueKind

	boolVal   bool
	intVal    int64
	floatVal  float64
	stringVal string
	arrayVal  []Value
	objectVal *Object
}

// Null returns a null Value.
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{Kind: KindBool, boolVal: b} }

// Int wraps a signed 64-bit integer.
func Int(i int64) Value { return Value{Kind: KindInt, intVal: i} }

// Float wraps a 64-bit float.
func Float(f float64) Value { return Value{Kind: KindFloat, floatVal: f} }

// String wraps a string.
func String(s string) Value { return Value{Kind: KindString, stringVal: s} }

// Array wraps an ordered slice of Values.
func Array(vs []Value) Value { return Value{Kind: KindArray, arrayVal: vs} }

// Obj wraps an *Object.
func Obj(o *Object) Value { return Value{Kind: KindObject, objectVal: o} }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// AsBool returns the bool variant. ok is false if Kind != KindBool.
func (v Value) AsBool() (bool, bool) { return v.boolVal, v.Kind == KindBool }

// AsInt returns the int variant, with KindFloat and KindBool coerced the
// way Unity's YAML dialect treats sentinel integer booleans. ok is false
// for any other Kind.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case KindInt:
		return v.intVal, true
	case KindFloat:
		return int64(v.floatVal), true
	case KindBool:
		if v.boolVal {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsFloat returns the float variant, with KindInt coerced. ok is false for
// any other Kind.
func (v Value) AsFloat() (float64, bool) {
	switch v.Kind {
	case KindFloat:
		return v.floatVal, true
	case KindInt:
		return float64(v.intVal), true
	default:
		return 0, false
	}
}

// AsString returns the string variant. ok is false if Kind != KindString.
func (v Value) AsString() (string, bool) { return v.stringVal, v.Kind == KindString }

// AsArray returns the array variant. ok is false if Kind != KindArray.
func (v Value) AsArray() ([]Value, bool) { return v.arrayVal, v.Kind == KindArray }

// AsObject returns the object variant. ok is false if Kind != KindObject.
func (v Value) AsObject() (*Object, bool) { return v.objectVal, v.Kind == KindObject }

// String renders a Value for debugging/logging. It is not the YAML
// serialization form — see yamlfmt for that.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.boolVal)
	case KindInt:
		return fmt.Sprintf("%d", v.intVal)
	case KindFloat:
		return fmt.Sprintf("%g", v.floatVal)
	case KindString:
		return v.stringVal
	case KindArray:
		return fmt.Sprintf("array[%d]", len(v.arrayVal))
	case KindObject:
		return fmt.Sprintf("object[%d]", v.objectVal.Len())
	default:
		return "<invalid>"
	}
}

// Object is an insertion-ordered string-keyed map. Unity's text format is
// order-sensitive and round-trip emission must not reorder fields, so this
// is not a plain Go map: key order is tracked explicitly alongside it.
type Object struct {
	order []string
	data  map[string]Value
}

// NewObject returns an empty, ready-to-use Object.
func NewObject() *Object {
	return &Object{data: make(map[string]Value)}
}

// Set inserts or updates key. Re-setting an existing key preserves its
// original position; a new key is appended.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.data[key]; !exists {
		o.order = append(o.order, key)
	}
	o.data[key] = v
}

// Get returns the value at key. ok is false if key is absent.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.data[key]
	return v, ok
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.data[key]
	return ok
}

// Delete removes key, preserving the relative order of remaining keys.
func (o *Object) Delete(key string) {
	if _, ok := o.data[key]; !ok {
		return
	}
	delete(o.data, key)
	for i, k := range o.order {
		if k == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Keys returns the property names in insertion order. The returned slice
// is owned by the caller; mutating it does not affect the Object.
func (o *Object) Keys() []string {
	out := make([]string, len(o.order))
	copy(out, o.order)
	return out
}

// Len returns the number of properties.
func (o *Object) Len() int { return len(o.order) }

// Range calls fn for each property in insertion order, stopping early if
// fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	for _, k := range o.order {
		if !fn(k, o.data[k]) {
			return
		}
	}
}
