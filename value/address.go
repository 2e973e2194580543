// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package value

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/bitmark-inc/statedecoder/fault"
)

// AccountIDLength - bytes in an account id
const AccountIDLength = 32

// SS58 network formats
const (
	PolkadotFormat  uint16 = 0
	KusamaFormat    uint16 = 2
	SubstrateFormat uint16 = 42
	ChainXFormat    uint16 = 44

	maximumFormat uint16 = 16383
)

const checksumLength = 2

var checksumPrefix = []byte("SS58PRE")

// ValidFormat - true if the format can be encoded in an SS58 prefix
func ValidFormat(format uint16) bool {
	return format <= maximumFormat
}

// Address - a 32 byte account id with its SS58 network format
type Address struct {
	ID     [AccountIDLength]byte
	Format uint16
}

func (a Address) Kind() Kind                   { return KindAddress }
func (a Address) MarshalJSON() ([]byte, error) { return marshal(a) }
func (a Address) write(stream *jsoniter.Stream) {
	stream.WriteString(a.String())
}

// String - SS58 text
func (a Address) String() string {
	payload := append(formatPrefix(a.Format), a.ID[:]...)
	return base58.Encode(append(payload, checksum(payload)...))
}

// ParseAddress - decode SS58 text and verify its checksum
func ParseAddress(s string) (Address, error) {
	data, err := base58.Decode(s)
	if nil != err {
		return Address{}, fault.ErrInvalidAddress
	}

	if len(data) < 1 {
		return Address{}, fault.ErrInvalidAddress
	}

	prefixLength := 1
	format := uint16(data[0])
	if data[0]&0x40 != 0 {
		if len(data) < 2 {
			return Address{}, fault.ErrInvalidAddress
		}
		prefixLength = 2
		lower := (data[0]&0x3f)<<2 | data[1]>>6
		upper := data[1] & 0x3f
		format = uint16(lower) | uint16(upper)<<8
	} else if data[0] > 63 {
		return Address{}, fault.ErrInvalidAddress
	}

	if len(data) != prefixLength+AccountIDLength+checksumLength {
		return Address{}, fault.ErrInvalidAddress
	}

	payload := data[:prefixLength+AccountIDLength]
	if !bytes.Equal(checksum(payload), data[prefixLength+AccountIDLength:]) {
		return Address{}, fault.ErrInvalidAddress
	}

	a := Address{
		Format: format,
	}
	copy(a.ID[:], payload[prefixLength:])
	return a, nil
}

// one byte for formats below 64, otherwise two bytes with bit 6 of
// the first set
func formatPrefix(format uint16) []byte {
	if format > maximumFormat {
		format = SubstrateFormat
	}
	if format < 64 {
		return []byte{byte(format)}
	}
	first := byte((format&0x00fc)>>2) | 0x40
	second := byte(format>>8) | byte(format&0x0003)<<6
	return []byte{first, second}
}

func checksum(payload []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(checksumPrefix)
	h.Write(payload)
	return h.Sum(nil)[:checksumLength]
}
