// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storagekey - recover key material from raw storage keys
//
// All lengths are in hex characters:
//
//   Plain:      prefix(64)
//   Map:        prefix(64) ++ hash(h) ++ key
//   DoubleMap:  prefix(64) ++ hash1(h1) ++ key1(k1) ++ hash2(h2) ++ key2
//
// h, h1 and h2 come from the hasher table; k1 cannot be derived from
// the key itself and is looked up in the key length table by the
// normalised key1 type.  The remainder after the final hash is the
// last key.
package storagekey
