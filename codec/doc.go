// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - SCALE reader and decoder combinators
//
// A Decoder consumes one SCALE encoded item from a Reader and returns
// it as a value.Value.  Decoders for composite runtime types are built
// from the primitives here:
//
//   activeEra := codec.Struct(
//           codec.Field("index", codec.U32),
//           codec.Field("start", codec.Opt(codec.U64)),
//   )
//   v, err := codec.Whole(activeEra)(raw)
//
// Whole rejects any bytes left over after the item.
package codec
