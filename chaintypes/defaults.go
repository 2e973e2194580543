// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaintypes

import (
	"github.com/bitmark-inc/statedecoder/typename"
)

// DefaultRules - placeholder → concrete name, in application order
func DefaultRules() []typename.Rule {
	return []typename.Rule{
		{Placeholder: "T::AccountId", Concrete: "AccountId"},
		{Placeholder: "T::ValidatorId", Concrete: "AccountId"},
		{Placeholder: "T::Authority", Concrete: "ImOnlineId"},
		{Placeholder: "T::Balance", Concrete: "Balance"},
		{Placeholder: "T::BlockNumber", Concrete: "BlockNumber"},
		{Placeholder: "T::Hash", Concrete: "Hash"},
		{Placeholder: "T::Index", Concrete: "AccountIndex"},
		{Placeholder: "T::Price", Concrete: "Balance"},
		{Placeholder: "T::Moment", Concrete: "Moment"},
		{Placeholder: "T::Event", Concrete: "Event"},
		{Placeholder: "T::Keys", Concrete: "SessionKeys"},
		{Placeholder: "T::AccountData", Concrete: "AccountData"},
		{Placeholder: "BalanceOf<T>", Concrete: "Balance"},
		{Placeholder: "BalanceOf<T, I>", Concrete: "Balance"},
	}
}

// DefaultKeyLengths - encoded DoubleMap key1 length in hex characters,
// keyed by normalised type name
func DefaultKeyLengths() map[string]int {
	return map[string]int{
		"EraIndex":      8,  // u32
		"SessionIndex":  8,  // u32
		"TradingPairId": 8,  // u32
		"Kind":          32, // [u8; 16]
		"Chain":         2,  // single byte enum
		"AccountId":     64,
	}
}
