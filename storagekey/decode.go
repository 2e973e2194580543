// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storagekey

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/hasher"
	"github.com/bitmark-inc/statedecoder/keylength"
	"github.com/bitmark-inc/statedecoder/metadata"
	"github.com/bitmark-inc/statedecoder/typename"
)

// Decoder - splits storage keys using fixed side tables
//
// safe for concurrent use, nothing is modified after creation
type Decoder struct {
	hashers    hasher.Table
	keyLengths *keylength.Table
	normaliser *typename.Normaliser
	log        *logger.L
}

// NewDecoder - create a key decoder
//
// log may be nil to disable diagnostics
func NewDecoder(hashers hasher.Table, keyLengths *keylength.Table, normaliser *typename.Normaliser, log *logger.L) *Decoder {
	return &Decoder{
		hashers:    hashers,
		keyLengths: keyLengths,
		normaliser: normaliser,
		log:        log,
	}
}

// DecodeBytes - decode a binary storage key
func (d *Decoder) DecodeBytes(table *metadata.LookupTable, key []byte) (TransparentKey, error) {
	return d.Decode(table, hex.EncodeToString(key))
}

// Decode - decode a hex storage key, with or without a 0x prefix
func (d *Decoder) Decode(table *metadata.LookupTable, rawKey string) (TransparentKey, error) {
	key := strings.ToLower(strings.TrimPrefix(rawKey, "0x"))

	if len(key) < metadata.PrefixLength {
		d.debugf("key too short: %q", key)
		return TransparentKey{}, fault.ErrKeyTooShort
	}

	if !isHex(key) {
		d.debugf("invalid hex key: %q", rawKey)
		return TransparentKey{}, fault.ErrInvalidHex
	}

	prefix := key[:metadata.PrefixLength]
	rest := key[metadata.PrefixLength:]

	entry, ok := table.Lookup(prefix)
	if !ok {
		d.debugf("no entry for key: %s  prefix: %s", key, prefix)
		return TransparentKey{}, fmt.Errorf("%w: %s", fault.ErrUnknownPrefix, prefix)
	}

	tk := newTransparentKey(entry)
	shape := entry.Shape

	switch shape.Kind {

	case metadata.Plain:
		return tk, nil

	case metadata.Map:
		hashed, k, err := d.split(entry, shape.Hasher, rest)
		if nil != err {
			return TransparentKey{}, err
		}
		tk.HashedKey = hashed
		tk.Key = k
		tk.KeyType = shape.KeyType
		return tk, nil

	case metadata.DoubleMap:
		// hashed_key1 ++ key1 ++ hashed_key2 ++ key2
		hashed1, key1Key2, err := d.split(entry, shape.Hasher, rest)
		if nil != err {
			return TransparentKey{}, err
		}

		key1Type := d.normaliser.Normalise(shape.KeyType)
		key1Length, ok := d.keyLengths.Lookup(key1Type)
		if !ok {
			d.warnf("%s: no length for key1 type: %q", entry, key1Type)
			return TransparentKey{}, fmt.Errorf("%w: %s: %s", fault.ErrUnknownKey1Length, entry, key1Type)
		}
		if len(key1Key2) < key1Length {
			d.debugf("%s: key1 truncated: %s", entry, key1Key2)
			return TransparentKey{}, fmt.Errorf("%w: %s: key1", fault.ErrKeyTruncated, entry)
		}

		// hashed_key2 ++ key2
		hashed2, key2, err := d.split(entry, shape.Hasher2, key1Key2[key1Length:])
		if nil != err {
			return TransparentKey{}, err
		}

		tk.HashedKey = hashed1
		tk.Key = key1Key2[:key1Length]
		tk.KeyType = shape.KeyType
		tk.HashedKey2 = hashed2
		tk.Key2 = key2
		tk.Key2Type = shape.Key2Type
		return tk, nil

	default:
		return TransparentKey{}, fmt.Errorf("%w: %s", fault.ErrInvalidShape, entry)
	}
}

// separate hash ++ key for a concatenating hasher
func (d *Decoder) split(entry metadata.Entry, h hasher.Kind, s string) (string, string, error) {
	n, ok := d.hashers.ConcatLength(h)
	if !ok {
		d.debugf("%s: hasher: %s cannot be reversed", entry, h)
		return "", "", fmt.Errorf("%w: %s: %s", fault.ErrUnrecoverableHasher, entry, h)
	}
	if len(s) < n {
		d.debugf("%s: hash truncated: %s", entry, s)
		return "", "", fmt.Errorf("%w: %s: %s hash", fault.ErrKeyTruncated, entry, h)
	}
	return s[:n], s[n:], nil
}

func (d *Decoder) debugf(format string, arguments ...interface{}) {
	if nil != d.log {
		d.log.Debugf(format, arguments...)
	}
}

func (d *Decoder) warnf(format string, arguments ...interface{}) {
	if nil != d.log {
		d.log.Warnf(format, arguments...)
	}
}

// even length and only hex digits
func isHex(s string) bool {
	if 0 != len(s)%2 {
		return false
	}
	for i := 0; i < len(s); i += 1 {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f') {
			return false
		}
	}
	return true
}
