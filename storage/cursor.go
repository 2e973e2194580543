// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"

	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/statedecoder/fault"
)

// FetchCursor - cursor structure
type FetchCursor struct {
	pool     *PoolHandle
	maxRange util.Range
}

// NewFetchCursor - initialise a cursor to the start of a key range
func (p *PoolHandle) NewFetchCursor() *FetchCursor {
	if nil == p {
		return nil
	}
	return &FetchCursor{
		pool: p,
		maxRange: util.Range{
			Start: []byte{p.prefix}, // Start of key range, included in the range
			Limit: p.limit,          // Limit of key range, excluded from the range
		},
	}
}

// Seek - move cursor to specific key position
func (cursor *FetchCursor) Seek(key []byte) *FetchCursor {
	if nil != cursor {
		cursor.maxRange.Start = cursor.pool.prefixKey(key)
	}
	return cursor
}

// SeekPrefix - restrict the cursor to keys beginning with prefix
func (cursor *FetchCursor) SeekPrefix(prefix []byte) *FetchCursor {
	if nil == cursor {
		return nil
	}
	r := util.BytesPrefix(cursor.pool.prefixKey(prefix))
	cursor.maxRange.Start = r.Start
	cursor.maxRange.Limit = r.Limit
	return cursor
}

// Fetch - return some elements starting from the cursor and advance it
func (cursor *FetchCursor) Fetch(count int) ([]Element, error) {
	if nil == cursor {
		return nil, fault.ErrInvalidCursor
	}
	if count <= 0 {
		return nil, fault.ErrInvalidCount
	}

	results := make([]Element, 0, count)
	err := cursor.iterate(func(key []byte, value []byte) (bool, error) {
		results = append(results, Element{Key: key, Value: value})
		return len(results) < count, nil
	})

	if n := len(results); n > 0 {
		// the smallest key after the last one returned
		last := cursor.pool.prefixKey(results[n-1].Key)
		cursor.maxRange.Start = append(last, 0x00)
	}
	return results, err
}

// Map - run a function on all elements in the range
func (cursor *FetchCursor) Map(f func(key []byte, value []byte) error) error {
	if nil == cursor {
		return fault.ErrInvalidCursor
	}
	return cursor.iterate(func(key []byte, value []byte) (bool, error) {
		if err := f(key, value); nil != err {
			return false, err
		}
		return true, nil
	})
}

// call f with copies of each key (prefix removed) and value until it
// returns false or an error
func (cursor *FetchCursor) iterate(f func(key []byte, value []byte) (bool, error)) error {
	poolData.RLock()
	defer poolData.RUnlock()

	if nil == poolData.db {
		return fault.ErrNotInitialised
	}

	iter := cursor.pool.access.iterator(&cursor.maxRange)

	var err error
iterating:
	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := bytes.Clone(key[1:]) // strip the prefix
		dataValue := bytes.Clone(value)
		if nil == dataValue {
			dataValue = []byte{}
		}

		var more bool
		more, err = f(dataKey, dataValue)
		if nil != err || !more {
			break iterating
		}
	}
	iter.Release()
	if nil == err {
		err = iter.Error()
	}
	return err
}
