// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hasher

import (
	"strings"

	"github.com/bitmark-inc/statedecoder/fault"
)

// Kind - a storage hasher, same order as the metadata encoding
type Kind int

// the storage hashers
const (
	Blake2_128 Kind = iota
	Blake2_256
	Blake2_128Concat
	Twox128
	Twox256
	Twox64Concat
	Identity
)

var names = map[Kind]string{
	Blake2_128:       "Blake2_128",
	Blake2_256:       "Blake2_256",
	Blake2_128Concat: "Blake2_128Concat",
	Twox128:          "Twox128",
	Twox256:          "Twox256",
	Twox64Concat:     "Twox64Concat",
	Identity:         "Identity",
}

// String - name of the hasher as it appears in metadata
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// Valid - check the kind is one of the known hashers
func (k Kind) Valid() bool {
	_, ok := names[k]
	return ok
}

// IsConcat - true if the original key follows the hash
func (k Kind) IsConcat() bool {
	return Blake2_128Concat == k || Twox64Concat == k
}

// FromString - convert a hasher name to its kind
//
// accepts both the metadata form "Blake2_128Concat" and the
// snake case form "blake2_128_concat"
func FromString(s string) (Kind, error) {
	canonical := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	for k, name := range names {
		if canonical == strings.ToLower(strings.ReplaceAll(name, "_", "")) {
			return k, nil
		}
	}
	return 0, fault.ErrInvalidHasher
}

// MarshalText - for JSON output
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fault.ErrInvalidHasher
	}
	return []byte(k.String()), nil
}

// UnmarshalText - for JSON input
func (k *Kind) UnmarshalText(s []byte) error {
	kind, err := FromString(string(s))
	if nil != err {
		return err
	}
	*k = kind
	return nil
}
