// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/statedecoder/fault"
)

// Access - batched writes and cache aware reads of the database
type Access interface {
	Begin() error
	Put(*PoolHandle, []byte, []byte)
	Delete(*PoolHandle, []byte)
	Commit() error
	Abort()
	InUse() bool

	get([]byte) ([]byte, error)
	has([]byte) (bool, error)
	iterator(*ldb_util.Range) iterator.Iterator
}

type accessData struct {
	sync.Mutex
	inUse bool
	db    *leveldb.DB
	batch *leveldb.Batch
	cache Cache
}

func newAccess(db *leveldb.DB, cache Cache) Access {
	return &accessData{
		inUse: false,
		db:    db,
		batch: new(leveldb.Batch),
		cache: cache,
	}
}

// Begin - claim the batch
func (d *accessData) Begin() error {
	d.Lock()
	defer d.Unlock()

	if d.inUse {
		return fault.ErrBatchInUse
	}
	d.inUse = true
	return nil
}

// Put - queue a key/value bytes pair for a pool
func (d *accessData) Put(p *PoolHandle, key []byte, value []byte) {
	d.Lock()
	defer d.Unlock()

	k := p.prefixKey(key)
	v := make([]byte, len(value))
	copy(v, value)
	d.cache.Set(dbPut, string(k), v)
	d.batch.Put(k, v)
}

// Delete - queue removal of a key from a pool
func (d *accessData) Delete(p *PoolHandle, key []byte) {
	d.Lock()
	defer d.Unlock()

	k := p.prefixKey(key)
	d.cache.Set(dbDelete, string(k), nil)
	d.batch.Delete(k)
}

// Commit - write the batch and release it
func (d *accessData) Commit() error {
	d.Lock()
	defer d.Unlock()

	if !d.inUse {
		return fault.ErrBatchNotInUse
	}
	err := d.db.Write(d.batch, nil)
	d.reset()
	return err
}

// Abort - discard the batch and release it
func (d *accessData) Abort() {
	d.Lock()
	defer d.Unlock()
	d.reset()
}

func (d *accessData) reset() {
	d.batch.Reset()
	d.cache.Clear()
	d.inUse = false
}

// InUse - true while a batch is open
func (d *accessData) InUse() bool {
	d.Lock()
	defer d.Unlock()
	return d.inUse
}

func (d *accessData) get(key []byte) ([]byte, error) {
	value, pending, deleted := d.cache.Get(string(key))
	if deleted {
		return nil, nil
	}
	if pending {
		return value, nil
	}
	value, err := d.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

func (d *accessData) has(key []byte) (bool, error) {
	_, pending, deleted := d.cache.Get(string(key))
	if pending {
		return !deleted, nil
	}
	return d.db.Has(key, nil)
}

// iterates committed data only
func (d *accessData) iterator(searchRange *ldb_util.Range) iterator.Iterator {
	return d.db.NewIterator(searchRange, nil)
}
