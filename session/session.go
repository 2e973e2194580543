// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package session - the current set of decoding tables
//
// A snapshot bundles the lookup table, registry, key length table and
// normaliser built from one schema and one configuration.  Reload
// builds a complete replacement then swaps it in; decodes already in
// progress finish against the snapshot they started with.
package session

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/hasher"
	"github.com/bitmark-inc/statedecoder/keylength"
	"github.com/bitmark-inc/statedecoder/metadata"
	"github.com/bitmark-inc/statedecoder/registry"
	"github.com/bitmark-inc/statedecoder/storagekey"
	"github.com/bitmark-inc/statedecoder/typename"
	"github.com/bitmark-inc/statedecoder/value"
)

const (
	defaultExpiration = 5 * time.Minute
	cleanupInterval   = 10 * time.Minute
)

// Config - inputs for one snapshot
type Config struct {
	Schema      *metadata.Schema
	Rules       []typename.Rule
	KeyLengths  map[string]int
	Hashers     map[hasher.Kind]int // nil for the default table
	Register    func(*registry.Registry) error
	CacheExpiry time.Duration // zero for the default, negative disables caching
}

// Snapshot - immutable decoding state
type Snapshot struct {
	Version    uint64
	Schema     *metadata.Schema
	Table      *metadata.LookupTable
	Normaliser *typename.Normaliser
	KeyLengths *keylength.Table
	Registry   *registry.Registry
	Keys       *storagekey.Decoder

	cache *cache.Cache
}

// Decoded - one storage pair
type Decoded struct {
	Key   storagekey.TransparentKey `json:"key"`
	Value value.Value               `json:"value"`
}

// Session - holder of the current snapshot
type Session struct {
	reload  sync.Mutex
	log     *logger.L
	version uint64
	current atomic.Value // *Snapshot
}

// New - build the first snapshot
func New(config Config, log *logger.L) (*Session, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	s := &Session{
		log: log,
	}
	if err := s.Reload(config); nil != err {
		return nil, err
	}
	return s, nil
}

// Reload - build a new snapshot and make it current
//
// on error the previous snapshot stays in use
func (s *Session) Reload(config Config) error {
	s.reload.Lock()
	defer s.reload.Unlock()

	snapshot, err := build(config, s.version+1, s.log)
	if nil != err {
		s.log.Errorf("reload failed: %s", err)
		return err
	}

	s.version = snapshot.Version
	s.current.Store(snapshot)
	s.log.Infof("snapshot: %d  entries: %d  decoders: %d  key lengths: %d",
		snapshot.Version, snapshot.Table.Len(), snapshot.Registry.Len(), snapshot.KeyLengths.Len())
	return nil
}

// Snapshot - the current snapshot
func (s *Session) Snapshot() *Snapshot {
	return s.current.Load().(*Snapshot)
}

// DecodeKey - decode a key with the current snapshot
func (s *Session) DecodeKey(rawKey string) (storagekey.TransparentKey, error) {
	return s.Snapshot().DecodeKey(rawKey)
}

// DecodeValue - decode value bytes with the current registry
func (s *Session) DecodeValue(tk storagekey.TransparentKey, raw []byte) (value.Value, error) {
	return s.Snapshot().DecodeValue(tk, raw)
}

// Decode - decode a key and its value with the current snapshot
func (s *Session) Decode(rawKey string, raw []byte) (Decoded, error) {
	return s.Snapshot().Decode(rawKey, raw)
}

func build(config Config, version uint64, log *logger.L) (*Snapshot, error) {
	if nil == config.Schema {
		return nil, fault.ErrMissingSchemaFile
	}

	hashers := hasher.DefaultTable()
	if nil != config.Hashers {
		var err error
		hashers, err = hasher.NewTable(config.Hashers)
		if nil != err {
			return nil, err
		}
	}

	normaliser, err := typename.New(config.Rules)
	if nil != err {
		return nil, err
	}

	keyLengths, err := keylength.New(config.KeyLengths)
	if nil != err {
		return nil, err
	}

	table, err := metadata.BuildLookupTable(config.Schema)
	if nil != err {
		return nil, err
	}

	reg := registry.New(normaliser, log)
	if nil != config.Register {
		if err := config.Register(reg); nil != err {
			return nil, err
		}
	}

	snapshot := &Snapshot{
		Version:    version,
		Schema:     config.Schema,
		Table:      table,
		Normaliser: normaliser,
		KeyLengths: keyLengths,
		Registry:   reg,
		Keys:       storagekey.NewDecoder(hashers, keyLengths, normaliser, log),
	}

	expiry := config.CacheExpiry
	if 0 == expiry {
		expiry = defaultExpiration
	}
	if expiry > 0 {
		snapshot.cache = cache.New(expiry, cleanupInterval)
	}

	if missing := snapshot.MissingKeyLengths(); 0 != len(missing) {
		log.Warnf("double map key1 types without length: %q", missing)
	}
	if missing := snapshot.MissingDecoders(); 0 != len(missing) {
		log.Infof("value types without decoder: %d", len(missing))
	}
	return snapshot, nil
}

// MissingKeyLengths - normalised DoubleMap key1 types with no known length
//
// keys of these entries decode with an error until a length is added
func (s *Snapshot) MissingKeyLengths() []string {
	return s.KeyLengths.Missing(s.Schema.DoubleMapKeyTypes(s.Normaliser))
}

// MissingDecoders - normalised value types with no registered decoder
func (s *Snapshot) MissingDecoders() []string {
	missing := []string{}
	for _, t := range s.Schema.ValueTypes(s.Normaliser) {
		if !s.Registry.Has(t) {
			missing = append(missing, t)
		}
	}
	return missing
}

// DecodeKey - decode a hex storage key
//
// successful results are cached per snapshot
func (s *Snapshot) DecodeKey(rawKey string) (storagekey.TransparentKey, error) {
	cacheKey := strings.ToLower(strings.TrimPrefix(rawKey, "0x"))
	if nil != s.cache {
		if tk, found := s.cache.Get(cacheKey); found {
			return tk.(storagekey.TransparentKey), nil
		}
	}

	tk, err := s.Keys.Decode(s.Table, rawKey)
	if nil != err {
		return storagekey.TransparentKey{}, err
	}

	if nil != s.cache {
		s.cache.SetDefault(cacheKey, tk)
	}
	return tk, nil
}

// DecodeValue - decode value bytes as the value type of a key
func (s *Snapshot) DecodeValue(tk storagekey.TransparentKey, raw []byte) (value.Value, error) {
	return s.Registry.Decode(tk.ValueType, raw)
}

// Decode - decode a key then its value
//
// the value error names the storage entry
func (s *Snapshot) Decode(rawKey string, raw []byte) (Decoded, error) {
	tk, err := s.DecodeKey(rawKey)
	if nil != err {
		return Decoded{}, err
	}
	v, err := s.DecodeValue(tk, raw)
	if nil != err {
		return Decoded{}, fmt.Errorf("%s.%s: %w", tk.Module, tk.Name, err)
	}
	return Decoded{Key: tk, Value: v}, nil
}

// CachedKeys - number of keys in the cache
func (s *Snapshot) CachedKeys() int {
	if nil == s.cache {
		return 0
	}
	return s.cache.ItemCount()
}
