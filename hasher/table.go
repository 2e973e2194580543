// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hasher

import (
	"github.com/bitmark-inc/statedecoder/fault"
)

// Table - hex length of the hash part of each concatenating hasher
//
// the zero value is empty, every lookup fails
type Table struct {
	lengths map[Kind]int
}

// DefaultTable - the lengths used by all Substrate chains
func DefaultTable() Table {
	return Table{
		lengths: map[Kind]int{
			Blake2_128Concat: 16 * 2,
			Twox64Concat:     8 * 2,
		},
	}
}

// NewTable - make a table from a kind → hex length map
//
// only concatenating hashers may appear and lengths must be a
// positive even number of hex characters
func NewTable(lengths map[Kind]int) (Table, error) {
	t := Table{
		lengths: make(map[Kind]int, len(lengths)),
	}
	for k, n := range lengths {
		if !k.IsConcat() {
			return Table{}, fault.ErrUnrecoverableHasher
		}
		if n <= 0 || 0 != n%2 {
			return Table{}, fault.ErrInvalidKeyLength
		}
		t.lengths[k] = n
	}
	return t, nil
}

// ConcatLength - hex length of the hash preceding the original key
//
// false if the hasher does not allow key recovery
func (t Table) ConcatLength(k Kind) (int, bool) {
	n, ok := t.lengths[k]
	return n, ok
}

// HashLength - hex length of the hash part for any hasher
//
// Identity has no hash part so returns zero; only needed when
// enumerating keys, not for decoding
func HashLength(k Kind) int {
	switch k {
	case Blake2_128, Blake2_128Concat, Twox128:
		return 16 * 2
	case Blake2_256, Twox256:
		return 32 * 2
	case Twox64Concat:
		return 8 * 2
	default:
		return 0
	}
}
