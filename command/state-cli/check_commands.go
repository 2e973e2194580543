// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"strings"

	"github.com/bitmark-inc/statedecoder/fault"
)

var (
	ErrRequiredAddress  = fault.InvalidError("address is required")
	ErrRequiredFileName = fault.InvalidError("file name is required")
	ErrRequiredKey      = fault.InvalidError("storage key is required")
	ErrRequiredModule   = fault.InvalidError("module name is required")
	ErrRequiredValue    = fault.InvalidError("value hex is required")
	ErrSelectOne        = fault.InvalidError("give exactly one of type or key")
)

// key is required, an optional 0x is allowed
func checkKey(key string) (string, error) {
	if "" == key {
		return "", ErrRequiredKey
	}
	return key, nil
}

// value hex is required, "0x" alone is an empty value
func checkValue(s string) ([]byte, error) {
	if "" == s {
		return nil, ErrRequiredValue
	}
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if nil != err {
		return nil, fault.ErrInvalidHex
	}
	return b, nil
}

// check for non-blank file name
func checkFileName(fileName string) (string, error) {
	if "" == fileName {
		return "", ErrRequiredFileName
	}
	return fileName, nil
}
