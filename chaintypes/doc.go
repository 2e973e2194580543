// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chaintypes - decoders for the runtime types of a
// Substrate/ChainX style chain
//
// Register installs every decoder into a registry.  DefaultRules and
// DefaultKeyLengths give the placeholder mapping and the DoubleMap key1
// lengths that match these decoders; a configuration file may
// override both.
package chaintypes
