// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package metadata - storage schema and prefix lookup table
//
// The schema is the already parsed runtime metadata: an ordered list
// of modules each with an ordered list of storage entries.  Every
// entry has a 16 byte module prefix and a 16 byte entry prefix, the
// lookup table maps their 64 hex character concatenation back to the
// entry so that a raw storage key can be identified.
//
//   Plain      - module_prefix ++ entry_prefix
//   Map        - module_prefix ++ entry_prefix ++ hash(key)
//   DoubleMap  - module_prefix ++ entry_prefix ++ hash(key1) ++ hash(key2)
package metadata
