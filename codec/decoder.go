// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"
	"unicode/utf8"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/value"
)

// Decoder - read one item
type Decoder func(r *Reader) (value.Value, error)

// Whole - decode a complete buffer as exactly one item
func Whole(d Decoder) func(raw []byte) (value.Value, error) {
	return func(raw []byte) (value.Value, error) {
		r := NewReader(raw)
		v, err := d(r)
		if nil != err {
			return nil, err
		}
		if err := r.Finish(); nil != err {
			return nil, err
		}
		return v, nil
	}
}

// Bool - bool
func Bool(r *Reader) (value.Value, error) {
	b, err := r.Bool()
	if nil != err {
		return nil, err
	}
	return value.Bool(b), nil
}

// U8 - u8
func U8(r *Reader) (value.Value, error) {
	n, err := r.U8()
	if nil != err {
		return nil, err
	}
	return value.Uint(n), nil
}

// U16 - u16
func U16(r *Reader) (value.Value, error) {
	n, err := r.U16()
	if nil != err {
		return nil, err
	}
	return value.Uint(n), nil
}

// U32 - u32
func U32(r *Reader) (value.Value, error) {
	n, err := r.U32()
	if nil != err {
		return nil, err
	}
	return value.Uint(n), nil
}

// U64 - u64
func U64(r *Reader) (value.Value, error) {
	n, err := r.U64()
	if nil != err {
		return nil, err
	}
	return value.Uint(n), nil
}

// I32 - i32
func I32(r *Reader) (value.Value, error) {
	n, err := r.I32()
	if nil != err {
		return nil, err
	}
	return value.Int(n), nil
}

// I64 - i64
func I64(r *Reader) (value.Value, error) {
	n, err := r.I64()
	if nil != err {
		return nil, err
	}
	return value.Int(n), nil
}

// U128 - u128
func U128(r *Reader) (value.Value, error) {
	n, err := r.U128()
	if nil != err {
		return nil, err
	}
	return value.BigUint{N: n}, nil
}

// Compact - Compact<T> for any unsigned T
func Compact(r *Reader) (value.Value, error) {
	n, err := r.Compact()
	if nil != err {
		return nil, err
	}
	if n.IsUint64() {
		return value.Uint(n.Uint64()), nil
	}
	return value.BigUint{N: n}, nil
}

// Bytes - Vec<u8>
func Bytes(r *Reader) (value.Value, error) {
	b, err := r.Bytes()
	if nil != err {
		return nil, err
	}
	return value.Bytes(b), nil
}

// Text - Vec<u8> holding UTF-8
func Text(r *Reader) (value.Value, error) {
	b, err := r.Bytes()
	if nil != err {
		return nil, err
	}
	if !utf8.Valid(b) {
		return nil, fault.ErrInvalidUTF8
	}
	return value.Text(b), nil
}

// Array - [u8; n], e.g. H256
func Array(n int) Decoder {
	return func(r *Reader) (value.Value, error) {
		b, err := r.Fixed(n)
		if nil != err {
			return nil, err
		}
		return value.Bytes(b), nil
	}
}

// Account - a 32 byte account id rendered in an SS58 format
func Account(format uint16) Decoder {
	return func(r *Reader) (value.Value, error) {
		b, err := r.Fixed(value.AccountIDLength)
		if nil != err {
			return nil, err
		}
		a := value.Address{
			Format: format,
		}
		copy(a.ID[:], b)
		return a, nil
	}
}

// Seq - Vec<T>
func Seq(element Decoder) Decoder {
	return func(r *Reader) (value.Value, error) {
		n, err := r.Length()
		if nil != err {
			return nil, err
		}
		s := make(value.Sequence, 0, n)
		for i := 0; i < n; i += 1 {
			v, err := element(r)
			if nil != err {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			s = append(s, v)
		}
		return s, nil
	}
}

// Opt - Option<T>
//
// use OptBool for Option<bool> which has its own single byte encoding
func Opt(d Decoder) Decoder {
	return func(r *Reader) (value.Value, error) {
		some, err := r.Option()
		if nil != err {
			return nil, err
		}
		if !some {
			return value.Option{}, nil
		}
		v, err := d(r)
		if nil != err {
			return nil, err
		}
		return value.Option{Some: v}, nil
	}
}

// OptBool - Option<bool>, one byte: 0 is None, 1 is true and 2 is false
func OptBool(r *Reader) (value.Value, error) {
	tag, err := r.U8()
	if nil != err {
		return nil, err
	}
	switch tag {
	case 0:
		return value.Option{}, nil
	case 1:
		return value.Option{Some: value.Bool(true)}, nil
	case 2:
		return value.Option{Some: value.Bool(false)}, nil
	default:
		return nil, fmt.Errorf("%w: option bool tag: %d", fault.ErrInvalidTag, tag)
	}
}

// Tuple - (A, B, ...)
func Tuple(elements ...Decoder) Decoder {
	return func(r *Reader) (value.Value, error) {
		s := make(value.Sequence, 0, len(elements))
		for i, d := range elements {
			v, err := d(r)
			if nil != err {
				return nil, fmt.Errorf("(%d): %w", i, err)
			}
			s = append(s, v)
		}
		return s, nil
	}
}

// FieldDecoder - a named struct member
type FieldDecoder struct {
	Name    string
	Decoder Decoder
}

// Field - shorthand for a FieldDecoder
func Field(name string, d Decoder) FieldDecoder {
	return FieldDecoder{
		Name:    name,
		Decoder: d,
	}
}

// Struct - fields decoded in declaration order
func Struct(fields ...FieldDecoder) Decoder {
	return func(r *Reader) (value.Value, error) {
		record := make(value.Record, 0, len(fields))
		for _, f := range fields {
			v, err := f.Decoder(r)
			if nil != err {
				return nil, fmt.Errorf("%s: %w", f.Name, err)
			}
			record = append(record, value.Field{Name: f.Name, Value: v})
		}
		return record, nil
	}
}

// VariantDecoder - one enum case, nil Decoder for a unit case
type VariantDecoder struct {
	Name    string
	Decoder Decoder
}

// Variant - shorthand for a VariantDecoder
func Variant(name string, d Decoder) VariantDecoder {
	return VariantDecoder{
		Name:    name,
		Decoder: d,
	}
}

// Enum - cases are indexed by their position
func Enum(variants ...VariantDecoder) Decoder {
	return func(r *Reader) (value.Value, error) {
		index, err := r.Index()
		if nil != err {
			return nil, err
		}
		if int(index) >= len(variants) {
			return nil, fmt.Errorf("%w: enum index: %d  variants: %d", fault.ErrInvalidTag, index, len(variants))
		}
		c := variants[index]
		v := value.Variant{
			Index: index,
			Name:  c.Name,
		}
		if nil != c.Decoder {
			v.Fields, err = c.Decoder(r)
			if nil != err {
				return nil, fmt.Errorf("%s: %w", c.Name, err)
			}
		}
		return v, nil
	}
}

// BTreeMap - BTreeMap<K, V>, pairs kept in encoded order
func BTreeMap(key Decoder, item Decoder) Decoder {
	return func(r *Reader) (value.Value, error) {
		n, err := r.Length()
		if nil != err {
			return nil, err
		}
		m := make(value.Map, 0, n)
		for i := 0; i < n; i += 1 {
			k, err := key(r)
			if nil != err {
				return nil, fmt.Errorf("key[%d]: %w", i, err)
			}
			v, err := item(r)
			if nil != err {
				return nil, fmt.Errorf("value[%d]: %w", i, err)
			}
			m = append(m, value.Pair{Key: k, Value: v})
		}
		return m, nil
	}
}
