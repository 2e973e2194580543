// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hasher - storage key hash functions
//
// A storage key is built as:
//
//   twox128(module) ++ twox128(entry) ++ [ hash(key1) ++ [ hash(key2) ] ]
//
// where a "concatenating" hash function is followed by the original
// SCALE encoded key bytes:
//
//   Blake2_128Concat  - blake2b 16 byte digest ++ key
//   Twox64Concat      - xxhash64 (seed 0) little endian ++ key
//
// all other hash functions are opaque, the key cannot be recovered
// from the storage key.  Identity is also treated as opaque since the
// key length is not known.
package hasher
