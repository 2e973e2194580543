// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/statedecoder/fault"
)

// exported storage pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type pools struct {
	State *PoolHandle `prefix:"S"`
	Info  *PoolHandle `prefix:"I"`
}

// Pool - the set of exported pools
var Pool pools

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// holds the database handle
var poolData struct {
	sync.RWMutex
	db     *leveldb.DB
	access Access
	log    *logger.L
}

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Initialise - open up the database connection
//
// this must be called before any pool is accessed
func Initialise(database string, readOnly bool) error {
	poolData.Lock()
	defer poolData.Unlock()

	if nil != poolData.db {
		return fault.ErrAlreadyInitialised
	}

	log := logger.New("storage")
	log.Info("starting…")

	ok := false
	defer func() {
		if !ok {
			dbClose()
		}
	}()

	db, version, err := getDB(database, readOnly)
	if nil != err {
		return err
	}
	poolData.db = db
	poolData.log = log

	switch {
	case version > currentDBVersion:
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return fmt.Errorf("%w: database: %d  current: %d", fault.ErrIncompatibleDatabase, version, currentDBVersion)

	case 0 == version && readOnly:
		return fmt.Errorf("%w: database has no version", fault.ErrIncompatibleDatabase)

	case 0 == version:
		// database was empty so tag as current version
		if err := putVersion(db, currentDBVersion); nil != err {
			return err
		}

	case version < currentDBVersion:
		log.Criticalf("database version: %d < current version: %d", version, currentDBVersion)
		return fmt.Errorf("%w: database: %d  current: %d", fault.ErrIncompatibleDatabase, version, currentDBVersion)
	}

	poolData.access = newAccess(db, newCache())

	// this will be a struct type
	poolType := reflect.TypeOf(Pool)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&Pool).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			access: poolData.access,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	log.Infof("opened: %s  read only: %t", database, readOnly)
	ok = true // prevent db close
	return nil
}

func dbClose() {
	if nil != poolData.db {
		poolData.db.Close()
		poolData.db = nil
	}
	poolData.access = nil
	Pool = pools{}
}

// Finalise - close the database connection
func Finalise() {
	poolData.Lock()
	if nil != poolData.log {
		poolData.log.Info("closing")
		poolData.log.Flush()
	}
	dbClose()
	poolData.Unlock()
}

// NewBatch - start collecting writes for all pools
//
// only one batch may be open at a time
func NewBatch() (Access, error) {
	poolData.RLock()
	defer poolData.RUnlock()

	if nil == poolData.access {
		return nil, fault.ErrNotInitialised
	}
	if err := poolData.access.Begin(); nil != err {
		return nil, err
	}
	return poolData.access, nil
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("%w: version length: expected: %d  actual: %d", fault.ErrIncompatibleDatabase, 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
