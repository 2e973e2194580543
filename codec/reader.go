// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	"github.com/ChainSafe/gossamer/pkg/scale"

	"github.com/bitmark-inc/statedecoder/fault"
)

// Reader - sequential SCALE reader over a byte slice
type Reader struct {
	buffer  *bytes.Reader
	decoder *scale.Decoder
}

// NewReader - reader positioned at the start of data
func NewReader(data []byte) *Reader {
	buffer := bytes.NewReader(data)
	return &Reader{
		buffer:  buffer,
		decoder: scale.NewDecoder(buffer),
	}
}

// Remaining - unread byte count
func (r *Reader) Remaining() int {
	return r.buffer.Len()
}

// Finish - error unless every byte was consumed
func (r *Reader) Finish() error {
	if n := r.Remaining(); 0 != n {
		return fmt.Errorf("%w: %d bytes", fault.ErrTrailingBytes, n)
	}
	return nil
}

// ensure n more bytes can be read
func (r *Reader) need(what string, n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("%s: %w: need %d bytes, have %d", what, io.ErrUnexpectedEOF, n, r.Remaining())
	}
	return nil
}

func (r *Reader) decode(what string, size int, dst interface{}) error {
	if err := r.need(what, size); nil != err {
		return err
	}
	if err := r.decoder.Decode(dst); nil != err {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// U8 - one byte
func (r *Reader) U8() (uint8, error) {
	var v uint8
	err := r.decode("u8", 1, &v)
	return v, err
}

// U16 - little endian 16 bit
func (r *Reader) U16() (uint16, error) {
	var v uint16
	err := r.decode("u16", 2, &v)
	return v, err
}

// U32 - little endian 32 bit
func (r *Reader) U32() (uint32, error) {
	var v uint32
	err := r.decode("u32", 4, &v)
	return v, err
}

// U64 - little endian 64 bit
func (r *Reader) U64() (uint64, error) {
	var v uint64
	err := r.decode("u64", 8, &v)
	return v, err
}

// I32 - little endian signed 32 bit
func (r *Reader) I32() (int32, error) {
	var v int32
	err := r.decode("i32", 4, &v)
	return v, err
}

// I64 - little endian signed 64 bit
func (r *Reader) I64() (int64, error) {
	var v int64
	err := r.decode("i64", 8, &v)
	return v, err
}

// U128 - little endian 128 bit
func (r *Reader) U128() (*big.Int, error) {
	b, err := r.Fixed(16)
	if nil != err {
		return nil, fmt.Errorf("u128: %w", err)
	}
	high := binary.LittleEndian.Uint64(b[8:])
	low := binary.LittleEndian.Uint64(b[:8])
	n := new(big.Int).SetUint64(high)
	n.Lsh(n, 64)
	return n.Or(n, new(big.Int).SetUint64(low)), nil
}

// Bool - a single 0x00 or 0x01 byte
func (r *Reader) Bool() (bool, error) {
	var v bool
	err := r.decode("bool", 1, &v)
	return v, err
}

// Compact - a compact encoded unsigned integer
//
// the whole encoding must be present, the mode bits of the first
// byte give its width
func (r *Reader) Compact() (*big.Int, error) {
	if err := r.need("compact", 1); nil != err {
		return nil, err
	}
	first, err := r.buffer.ReadByte()
	if nil != err {
		return nil, err
	}
	if err := r.buffer.UnreadByte(); nil != err {
		return nil, err
	}
	var v *big.Int
	err = r.decode("compact", compactWidth(first), &v)
	if nil != err {
		return nil, err
	}
	if nil == v {
		v = new(big.Int)
	}
	return v, nil
}

// total encoded bytes of a compact integer from its first byte
func compactWidth(first byte) int {
	switch first & 0x03 {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 4
	default:
		return 1 + int(first>>2) + 4
	}
}

// Length - a compact prefix counting items that follow
//
// at least one byte per item must remain, so a corrupt prefix cannot
// trigger a huge allocation
func (r *Reader) Length() (int, error) {
	n, err := r.Compact()
	if nil != err {
		return 0, err
	}
	if !n.IsUint64() || n.Uint64() > uint64(r.Remaining()) {
		return 0, fmt.Errorf("%w: length: %s  remaining: %d", fault.ErrValueTooLarge, n, r.Remaining())
	}
	return int(n.Uint64()), nil
}

// Fixed - the next n bytes, copied
func (r *Reader) Fixed(n int) ([]byte, error) {
	if n < 0 {
		return nil, fault.ErrInvalidCount
	}
	if err := r.need("fixed", n); nil != err {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.buffer, b); nil != err {
		return nil, err
	}
	return b, nil
}

// Bytes - a length prefixed byte string, Vec<u8>
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Length()
	if nil != err {
		return nil, err
	}
	return r.Fixed(n)
}

// Option - true if a value follows
func (r *Reader) Option() (bool, error) {
	tag, err := r.U8()
	if nil != err {
		return false, err
	}
	switch tag {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: option tag: %d", fault.ErrInvalidTag, tag)
	}
}

// Index - an enum variant index
func (r *Reader) Index() (uint8, error) {
	return r.U8()
}
