// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hasher

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Hash - apply a storage hasher to some data
//
// for concatenating hashers the result is hash ++ data
func Hash(k Kind, data []byte) []byte {
	switch k {
	case Blake2_128:
		return blake2_128(data)
	case Blake2_256:
		h := blake2b.Sum256(data)
		return h[:]
	case Blake2_128Concat:
		return append(blake2_128(data), data...)
	case Twox128:
		return twox(data, 2)
	case Twox256:
		return twox(data, 4)
	case Twox64Concat:
		return append(twox(data, 1), data...)
	case Identity:
		result := make([]byte, len(data))
		copy(result, data)
		return result
	default:
		return nil
	}
}

// HexPrefix - the 32 hex character prefix for a module or entry name
func HexPrefix(name string) string {
	return hex.EncodeToString(Hash(Twox128, []byte(name)))
}

func blake2_128(data []byte) []byte {
	h, err := blake2b.New(16, nil)
	if nil != err {
		// only possible for an invalid size or key
		panic(err)
	}
	h.Write(data)
	return h.Sum(nil)
}

// concatenation of little endian xxhash64 with seeds 0..rounds-1
func twox(data []byte, rounds int) []byte {
	result := make([]byte, 8*rounds)
	for seed := 0; seed < rounds; seed += 1 {
		d := xxhash.NewWithSeed(uint64(seed))
		d.Write(data)
		binary.LittleEndian.PutUint64(result[8*seed:], d.Sum64())
	}
	return result
}
