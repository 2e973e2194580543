// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package dump - decode every pair of a state source
//
// Each raw pair is decoded independently: a key or value that cannot
// be decoded produces a record carrying the error and the walk moves
// on to the next pair.
package dump

import (
	"encoding/hex"
	"errors"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/storagekey"
	"github.com/bitmark-inc/statedecoder/value"
)

//go:generate mockgen -destination=mocks/dump.go -package=mocks github.com/bitmark-inc/statedecoder/dump Source,Decoder,Reporter

// Source - anything that can enumerate raw key/value pairs
type Source interface {
	Map(f func(key []byte, value []byte) error) error
}

// Decoder - key and value decoding, satisfied by a session snapshot
type Decoder interface {
	DecodeKey(rawKey string) (storagekey.TransparentKey, error)
	DecodeValue(tk storagekey.TransparentKey, raw []byte) (value.Value, error)
}

// Reporter - receives each record and the final totals
type Reporter interface {
	Report(record Record) error
	Summary(stats Stats) error
}

// Record - the result for one pair
//
// Key is nil when the key could not be decoded, Value is nil when the
// value could not be decoded or value decoding was not requested
type Record struct {
	Index    int
	RawKey   []byte
	RawValue []byte
	Key      *storagekey.TransparentKey
	Value    value.Value
	Err      error
}

// Options - selection of pairs
type Options struct {
	Module     string // only this module, empty for all
	Entry      string // only this entry of the module, empty for all
	Limit      int    // stop after this many reported records, zero for no limit
	KeysOnly   bool   // do not decode values
	SkipErrors bool   // count failed pairs but do not report them
}

// Stats - totals for a walk
type Stats struct {
	Pairs               int `json:"pairs"`
	Filtered            int `json:"filtered"`
	Reported            int `json:"reported"`
	Decoded             int `json:"decoded"`
	UnknownPrefix       int `json:"unknown_prefix"`
	KeyTooShort         int `json:"key_too_short"`
	UnrecoverableHasher int `json:"unrecoverable_hasher"`
	UnknownKey1Length   int `json:"unknown_key1_length"`
	UnknownType         int `json:"unknown_type"`
	Malformed           int `json:"malformed"`
	Other               int `json:"other"`
}

// Failed - number of pairs with any error
func (s Stats) Failed() int {
	return s.UnknownPrefix + s.KeyTooShort + s.UnrecoverableHasher +
		s.UnknownKey1Length + s.UnknownType + s.Malformed + s.Other
}

func (s *Stats) count(err error) {
	switch {
	case nil == err:
		s.Decoded += 1
	case errors.Is(err, fault.ErrUnknownPrefix):
		s.UnknownPrefix += 1
	case errors.Is(err, fault.ErrKeyTooShort), errors.Is(err, fault.ErrKeyTruncated):
		s.KeyTooShort += 1
	case errors.Is(err, fault.ErrUnrecoverableHasher):
		s.UnrecoverableHasher += 1
	case errors.Is(err, fault.ErrUnknownKey1Length):
		s.UnknownKey1Length += 1
	case errors.Is(err, fault.ErrUnknownType):
		s.UnknownType += 1
	case errors.Is(err, fault.ErrMalformed):
		s.Malformed += 1
	default:
		s.Other += 1
	}
}

// signal the end of a limited walk
var errLimitReached = errors.New("limit reached")

// Run - walk the source decoding and reporting each selected pair
//
// only an error from the source or the reporter stops the walk
func Run(source Source, decoder Decoder, reporter Reporter, options Options, log *logger.L) (Stats, error) {
	stats := Stats{}

	if nil == source || nil == decoder || nil == reporter {
		return stats, fault.ErrNotInitialised
	}
	if options.Limit < 0 {
		return stats, fault.ErrInvalidCount
	}

	err := source.Map(func(key []byte, raw []byte) error {
		stats.Pairs += 1

		record := Record{
			Index:    stats.Pairs - 1,
			RawKey:   key,
			RawValue: raw,
		}

		tk, err := decoder.DecodeKey(hex.EncodeToString(key))
		if nil == err {
			if !selected(tk, options) {
				stats.Filtered += 1
				return nil
			}
			record.Key = &tk
			if !options.KeysOnly {
				record.Value, err = decoder.DecodeValue(tk, raw)
			}
		} else if "" != options.Module {
			// cannot tell which module an undecodable key belongs to
			stats.Filtered += 1
			return nil
		}

		record.Err = err
		stats.count(err)
		if nil != err {
			if nil != log {
				log.Debugf("pair: %d  key: %x  error: %s", record.Index, key, err)
			}
			if options.SkipErrors {
				return nil
			}
		}

		if err := reporter.Report(record); nil != err {
			return err
		}
		stats.Reported += 1

		if options.Limit > 0 && stats.Reported >= options.Limit {
			return errLimitReached
		}
		return nil
	})
	if errors.Is(err, errLimitReached) {
		err = nil
	}
	if nil != err {
		if nil != log {
			log.Errorf("walk stopped after %d pairs: %s", stats.Pairs, err)
		}
		return stats, err
	}

	if nil != log {
		log.Infof("pairs: %d  decoded: %d  failed: %d  filtered: %d",
			stats.Pairs, stats.Decoded, stats.Failed(), stats.Filtered)
	}
	return stats, reporter.Summary(stats)
}

func selected(tk storagekey.TransparentKey, options Options) bool {
	if "" != options.Module && tk.Module != options.Module {
		return false
	}
	if "" != options.Entry && tk.Name != options.Entry {
		return false
	}
	return true
}
