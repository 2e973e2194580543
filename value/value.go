// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package value

import (
	"encoding/hex"
	"math/big"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Kind - tag of a value node
type Kind int

// all node kinds
const (
	KindBool Kind = iota
	KindUint
	KindInt
	KindBigUint
	KindText
	KindBytes
	KindAddress
	KindSequence
	KindOption
	KindRecord
	KindVariant
	KindMap
)

var kindNames = []string{
	"bool",
	"uint",
	"int",
	"biguint",
	"text",
	"bytes",
	"address",
	"sequence",
	"option",
	"record",
	"variant",
	"map",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value - one node of a decoded value
//
// the set of implementations is closed
type Value interface {
	Kind() Kind
	String() string
	MarshalJSON() ([]byte, error)

	write(stream *jsoniter.Stream)
}

// JSON - compact JSON text of a value, nil renders as null
func JSON(v Value) (string, error) {
	buffer, err := marshal(v)
	if nil != err {
		return "", err
	}
	return string(buffer), nil
}

// Indent - JSON text of a value indented by step spaces per level
func Indent(v Value, step int) (string, error) {
	api := jsoniter.Config{
		EscapeHTML:    true,
		IndentionStep: step,
	}.Froze()
	buffer, err := marshalWith(api, v)
	if nil != err {
		return "", err
	}
	return string(buffer), nil
}

func marshal(v Value) ([]byte, error) {
	return marshalWith(json, v)
}

func marshalWith(api jsoniter.API, v Value) ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	writeValue(stream, v)
	if nil != stream.Error {
		return nil, stream.Error
	}
	buffer := make([]byte, len(stream.Buffer()))
	copy(buffer, stream.Buffer())
	return buffer, nil
}

func writeValue(stream *jsoniter.Stream, v Value) {
	if nil == v {
		stream.WriteNil()
		return
	}
	v.write(stream)
}

// text form used for scalars and map keys
func stringOf(v Value) string {
	if nil == v {
		return "null"
	}
	s, err := JSON(v)
	if nil != err {
		return err.Error()
	}
	return s
}

// Bool - a boolean
type Bool bool

func (b Bool) Kind() Kind                   { return KindBool }
func (b Bool) String() string               { return strconv.FormatBool(bool(b)) }
func (b Bool) MarshalJSON() ([]byte, error) { return marshal(b) }
func (b Bool) write(stream *jsoniter.Stream) {
	stream.WriteBool(bool(b))
}

// Uint - an unsigned integer of up to 64 bits
type Uint uint64

func (u Uint) Kind() Kind                   { return KindUint }
func (u Uint) String() string               { return strconv.FormatUint(uint64(u), 10) }
func (u Uint) MarshalJSON() ([]byte, error) { return marshal(u) }
func (u Uint) write(stream *jsoniter.Stream) {
	stream.WriteUint64(uint64(u))
}

// Int - a signed integer of up to 64 bits
type Int int64

func (i Int) Kind() Kind                   { return KindInt }
func (i Int) String() string               { return strconv.FormatInt(int64(i), 10) }
func (i Int) MarshalJSON() ([]byte, error) { return marshal(i) }
func (i Int) write(stream *jsoniter.Stream) {
	stream.WriteInt64(int64(i))
}

// BigUint - an unsigned integer wider than 64 bits
//
// rendered as a bare JSON number so no precision is lost in the text
type BigUint struct {
	N *big.Int
}

// NewBigUint - wrap a copy of n
func NewBigUint(n *big.Int) BigUint {
	return BigUint{N: new(big.Int).Set(n)}
}

func (b BigUint) Kind() Kind { return KindBigUint }
func (b BigUint) String() string {
	if nil == b.N {
		return "0"
	}
	return b.N.String()
}
func (b BigUint) MarshalJSON() ([]byte, error) { return marshal(b) }
func (b BigUint) write(stream *jsoniter.Stream) {
	stream.WriteRaw(b.String())
}

// Text - a UTF-8 string
type Text string

func (t Text) Kind() Kind                   { return KindText }
func (t Text) String() string               { return string(t) }
func (t Text) MarshalJSON() ([]byte, error) { return marshal(t) }
func (t Text) write(stream *jsoniter.Stream) {
	stream.WriteString(string(t))
}

// Bytes - raw bytes, rendered as 0x prefixed hex
type Bytes []byte

func (b Bytes) Kind() Kind                   { return KindBytes }
func (b Bytes) String() string               { return "0x" + hex.EncodeToString(b) }
func (b Bytes) MarshalJSON() ([]byte, error) { return marshal(b) }
func (b Bytes) write(stream *jsoniter.Stream) {
	stream.WriteString(b.String())
}

// Sequence - Vec<T>, fixed arrays and tuples
type Sequence []Value

func (s Sequence) Kind() Kind                   { return KindSequence }
func (s Sequence) String() string               { return stringOf(s) }
func (s Sequence) MarshalJSON() ([]byte, error) { return marshal(s) }
func (s Sequence) write(stream *jsoniter.Stream) {
	stream.WriteArrayStart()
	for i, v := range s {
		if 0 != i {
			stream.WriteMore()
		}
		writeValue(stream, v)
	}
	stream.WriteArrayEnd()
}

// Option - Some when Some is non-nil, otherwise None
type Option struct {
	Some Value
}

// IsNone - true for an empty option
func (o Option) IsNone() bool {
	return nil == o.Some
}

func (o Option) Kind() Kind                   { return KindOption }
func (o Option) String() string               { return stringOf(o) }
func (o Option) MarshalJSON() ([]byte, error) { return marshal(o) }
func (o Option) write(stream *jsoniter.Stream) {
	writeValue(stream, o.Some)
}

// Field - one named member of a record
type Field struct {
	Name  string
	Value Value
}

// Record - a struct, fields in declaration order
type Record []Field

// Get - value of a named field
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r {
		if name == f.Name {
			return f.Value, true
		}
	}
	return nil, false
}

func (r Record) Kind() Kind                   { return KindRecord }
func (r Record) String() string               { return stringOf(r) }
func (r Record) MarshalJSON() ([]byte, error) { return marshal(r) }
func (r Record) write(stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	for i, f := range r {
		if 0 != i {
			stream.WriteMore()
		}
		stream.WriteObjectField(f.Name)
		writeValue(stream, f.Value)
	}
	stream.WriteObjectEnd()
}

// Variant - one case of an enum
//
// a unit variant (nil Fields) renders as its name, otherwise as
// {"Name": fields}
type Variant struct {
	Index  uint8
	Name   string
	Fields Value
}

func (v Variant) Kind() Kind                   { return KindVariant }
func (v Variant) String() string               { return stringOf(v) }
func (v Variant) MarshalJSON() ([]byte, error) { return marshal(v) }
func (v Variant) write(stream *jsoniter.Stream) {
	if nil == v.Fields {
		stream.WriteString(v.Name)
		return
	}
	stream.WriteObjectStart()
	stream.WriteObjectField(v.Name)
	writeValue(stream, v.Fields)
	stream.WriteObjectEnd()
}

// Pair - one map entry
type Pair struct {
	Key   Value
	Value Value
}

// Map - BTreeMap<K, V> in encoded order
//
// rendered as a JSON object keyed by the text form of each key
type Map []Pair

func (m Map) Kind() Kind                   { return KindMap }
func (m Map) String() string               { return stringOf(m) }
func (m Map) MarshalJSON() ([]byte, error) { return marshal(m) }
func (m Map) write(stream *jsoniter.Stream) {
	stream.WriteObjectStart()
	for i, p := range m {
		if 0 != i {
			stream.WriteMore()
		}
		if nil == p.Key {
			stream.WriteObjectField("null")
		} else {
			stream.WriteObjectField(p.Key.String())
		}
		writeValue(stream, p.Value)
	}
	stream.WriteObjectEnd()
}
