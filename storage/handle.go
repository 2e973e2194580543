// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/bitmark-inc/statedecoder/fault"
)

// PoolHandle - one prefixed key range of the database
type PoolHandle struct {
	prefix byte
	limit  []byte
	access Access
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

// Get - read a value for a given key, nil if not present
//
// pending writes of an open batch are visible
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	poolData.RLock()
	defer poolData.RUnlock()

	if nil == p || nil == poolData.db {
		return nil, fault.ErrNotInitialised
	}
	return p.access.get(p.prefixKey(key))
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	poolData.RLock()
	defer poolData.RUnlock()

	if nil == p || nil == poolData.db {
		return false, fault.ErrNotInitialised
	}
	return p.access.has(p.prefixKey(key))
}

// Count - number of committed elements
func (p *PoolHandle) Count() (int, error) {
	n := 0
	err := p.NewFetchCursor().Map(func(key []byte, value []byte) error {
		n += 1
		return nil
	})
	return n, err
}
