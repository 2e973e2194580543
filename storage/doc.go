// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - on-disk snapshot of raw chain state
//
// This maintains a LevelDB database split into pools.  Each pool is
// defined by a prefix byte taken from the prefix tag in the struct
// defining the available pools.
//
// Notes:
// 1. each separate pool has a single byte prefix
// 2. ++        = concatenation of byte data
// 3. state key = raw storage key bytes (module hash ++ entry hash ++ key material)
// 4. name      = ASCII text
//
// State:
//
//   S ++ state key            - raw storage value
//                               data: SCALE encoded value bytes
//
// Info:
//
//   I ++ name                 - snapshot description, e.g. "block", "spec_version"
//                               data: ASCII text
//
// Version:
//
//   0x00 ++ "VERSION"         - database layout version
//                               data: big endian uint32
package storage
