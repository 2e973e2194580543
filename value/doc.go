// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package value - generic structured form of a decoded storage value
//
// A decoder produces a tree of Value nodes: scalars (Bool, Uint,
// Int, BigUint, Text, Bytes, Address) and containers (Sequence,
// Option, Record, Variant, Map).  Every node renders to JSON; record
// fields and map pairs keep their decode order.
//
//   v := value.Record{
//           {Name: "index", Value: value.Uint(7)},
//           {Name: "start", Value: value.Option{}},
//   }
//   s, err := value.JSON(v)      // {"index":7,"start":null}
package value
