// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaintypes

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/bitmark-inc/statedecoder/codec"
	"github.com/bitmark-inc/statedecoder/registry"
	"github.com/bitmark-inc/statedecoder/value"
)

// HashLength - bytes in an H256
const HashLength = 32

// decimal places of a FixedU128
const multiplierPlaces = 18

var multiplierAccuracy = new(big.Int).Exp(big.NewInt(10), big.NewInt(multiplierPlaces), nil)

// Options - chain specific rendering
type Options struct {
	SS58Format uint16
}

// DefaultOptions - generic Substrate address format
func DefaultOptions() Options {
	return Options{
		SS58Format: value.SubstrateFormat,
	}
}

// Decoders - metadata type name → decoder
//
// names are given as they appear in metadata, a registry normalises
// them when they are registered
func Decoders(options Options) map[string]codec.Decoder {

	accountID := codec.Account(options.SS58Format)
	hash := codec.Array(HashLength)

	accountData := codec.Struct(
		codec.Field("free", codec.U128),
		codec.Field("reserved", codec.U128),
		codec.Field("misc_frozen", codec.U128),
		codec.Field("fee_frozen", codec.U128),
	)

	return map[string]codec.Decoder{
		"bool":         codec.Bool,
		"Option<bool>": codec.OptBool,
		"u8":           codec.U8,
		"u16":          codec.U16,
		"u32":          codec.U32,
		"u64":          codec.U64,
		"u128":         codec.U128,
		"Vec<u8>":      codec.Bytes,

		"EventIndex":   codec.U32,
		"EraIndex":     codec.U32,
		"SessionIndex": codec.U32,
		"T::Index":     codec.U32,
		"T::Moment":    codec.U64,
		"T::Balance":   codec.U128,
		"Multiplier":   multiplier,

		"T::BlockNumber":      codec.U32,
		"Vec<T::BlockNumber>": codec.Seq(codec.U32),

		"T::Hash":      hash,
		"Vec<T::Hash>": codec.Seq(hash),

		"T::AccountId":         accountID,
		"Vec<T::AccountId>":    codec.Seq(accountID),
		"Option<T::AccountId>": codec.Opt(accountID),

		"weights::ExtrinsicsWeight": codec.Struct(
			codec.Field("normal", codec.U64),
			codec.Field("operational", codec.U64),
		),

		"Vec<UncleEntryItem<T::BlockNumber, T::Hash, T::AccountId>>": codec.Seq(codec.Enum(
			codec.Variant("InclusionHeight", codec.U32),
			codec.Variant("Uncle", codec.Tuple(hash, codec.Opt(accountID))),
		)),

		"EraRewardPoints<T::AccountId>": codec.Struct(
			codec.Field("total", codec.U32),
			codec.Field("individual", codec.BTreeMap(accountID, codec.U32)),
		),

		"ActiveEraInfo": codec.Struct(
			codec.Field("index", codec.U32),
			codec.Field("start", codec.Opt(codec.U64)),
		),

		"T::AccountData": accountData,

		"AccountInfo<T::Index, T::AccountData>": codec.Struct(
			codec.Field("nonce", codec.U32),
			codec.Field("refcount", codec.U8),
			codec.Field("data", accountData),
		),
	}
}

// Register - add every decoder to a registry
func Register(r *registry.Registry, options Options) error {
	decoders := Decoders(options)

	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Register(name, codec.Whole(decoders[name])); nil != err {
			return err
		}
	}
	return nil
}

// FixedU128 rendered as a decimal with all 18 places
func multiplier(r *codec.Reader) (value.Value, error) {
	n, err := r.U128()
	if nil != err {
		return nil, err
	}
	whole, fraction := new(big.Int).QuoRem(n, multiplierAccuracy, new(big.Int))
	return value.Text(fmt.Sprintf("%d.%0*d", whole, multiplierPlaces, fraction)), nil
}
