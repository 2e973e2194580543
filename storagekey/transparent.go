// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storagekey

import (
	"github.com/bitmark-inc/statedecoder/metadata"
)

// TransparentKey - a storage key with its parts made explicit
//
// Key and KeyType hold the Map key or the DoubleMap key1, all key
// material is lowercase hex of the SCALE encoded key
type TransparentKey struct {
	Module       string             `json:"module"`
	Name         string             `json:"name"`
	ModulePrefix string             `json:"module_prefix"`
	EntryPrefix  string             `json:"entry_prefix"`
	Kind         metadata.ShapeKind `json:"kind"`
	HashedKey    string             `json:"hashed_key,omitempty"`
	Key          string             `json:"key,omitempty"`
	KeyType      string             `json:"key_type,omitempty"`
	HashedKey2   string             `json:"hashed_key2,omitempty"`
	Key2         string             `json:"key2,omitempty"`
	Key2Type     string             `json:"key2_type,omitempty"`
	ValueType    string             `json:"value_type"`
}

func newTransparentKey(e metadata.Entry) TransparentKey {
	return TransparentKey{
		Module:       e.Module,
		Name:         e.Name,
		ModulePrefix: e.ModulePrefix,
		EntryPrefix:  e.EntryPrefix,
		Kind:         e.Shape.Kind,
		ValueType:    e.Shape.ValueType,
	}
}
