// Package jsonvalue models free-form JSON as a tagged variant with
// ordered object members, and provides the validate/format/minify
// operations used on request bodies and received payloads.
//
// Unlike map[string]any, a Value preserves the member order of the
// source text, so formatting a JSON-RPC envelope keeps "jsonrpc", "id",
// "method", "params" where the author put them.
package jsonvalue

import (
	"encoding/json"
	"strconv"
)

// Kind discriminates the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// Value is one JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  json.Number
	str  string
	arr  []Value
	obj  []Member
}

// Member is one key/value pair of an object. Order is significant and
// preserved through parse and serialize.
type Member struct {
	Key   string
	Value Value
}

// Null returns the JSON null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a JSON boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Number returns a JSON number from its lexical form. The literal is
// kept as-is, so integers stay integers and precision is not lost.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, num: n}
}

// Int returns a JSON number from an int64.
func Int(i int64) Value {
	return Number(json.Number(strconv.FormatInt(i, 10)))
}

// String returns a JSON string.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Array returns a JSON array of the given elements.
func Array(elems ...Value) Value {
	return Value{kind: KindArray, arr: elems}
}

// Object returns a JSON object with the given members, in order.
func Object(members ...Member) Value {
	return Value{kind: KindObject, obj: members}
}

// M is a convenience constructor for an object member.
func M(key string, value Value) Member {
	return Member{Key: key, Value: value}
}

// Kind reports which variant the value holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// BoolValue returns the boolean payload. It is false for non-booleans.
func (v Value) BoolValue() bool {
	return v.kind == KindBool && v.b
}

// NumberValue returns the lexical number payload.
func (v Value) NumberValue() json.Number {
	return v.num
}

// StringValue returns the string payload.
func (v Value) StringValue() string {
	return v.str
}

// Elements returns the array elements.
func (v Value) Elements() []Value {
	return v.arr
}

// Members returns the object members in order.
func (v Value) Members() []Member {
	return v.obj
}

// Get returns the value of the first member with the given key.
func (v Value) Get(key string) (Value, bool) {
	for _, m := range v.obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality. Object member order is significant,
// matching what parse and serialize preserve. Numbers compare by their
// lexical form.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for i := range a.obj {
			if a.obj[i].Key != b.obj[i].Key || !Equal(a.obj[i].Value, b.obj[i].Value) {
				return false
			}
		}
		return true
	}

	return false
}
