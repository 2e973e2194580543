// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package registry - dispatch value bytes to a decoder by type name
//
// Names are normalised before both registration and lookup, so a
// decoder registered as "T::BlockNumber" also serves "BlockNumber"
// when the normaliser maps one to the other.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/typename"
	"github.com/bitmark-inc/statedecoder/value"
)

// Decoder - convert the complete bytes of one value
type Decoder func(raw []byte) (value.Value, error)

type table map[string]Decoder

// Registry - normalised type name → decoder
//
// readers see a complete table, writers copy and swap it
type Registry struct {
	writer     sync.Mutex
	normaliser *typename.Normaliser
	log        *logger.L
	decoders   atomic.Value // table
}

// New - an empty registry
//
// log may be nil
func New(normaliser *typename.Normaliser, log *logger.L) *Registry {
	r := &Registry{
		normaliser: normaliser,
		log:        log,
	}
	r.decoders.Store(table{})
	return r
}

func (r *Registry) current() table {
	return r.decoders.Load().(table)
}

// Register - add one decoder
func (r *Registry) Register(name string, d Decoder) error {
	if nil == d {
		return fault.ErrInvalidDecoder
	}
	key := r.normaliser.Normalise(name)

	r.writer.Lock()
	defer r.writer.Unlock()

	old := r.current()
	if _, ok := old[key]; ok {
		return fmt.Errorf("%w: %s", fault.ErrAlreadyRegistered, key)
	}

	t := make(table, len(old)+1)
	for k, v := range old {
		t[k] = v
	}
	t[key] = d
	r.decoders.Store(t)
	return nil
}

// Replace - swap in a complete new set of decoders
//
// on error the existing set is kept
func (r *Registry) Replace(decoders map[string]Decoder) error {
	t := make(table, len(decoders))
	for name, d := range decoders {
		if nil == d {
			return fmt.Errorf("%w: %s", fault.ErrInvalidDecoder, name)
		}
		key := r.normaliser.Normalise(name)
		if _, ok := t[key]; ok {
			return fmt.Errorf("%w: %s", fault.ErrAlreadyRegistered, key)
		}
		t[key] = d
	}

	r.writer.Lock()
	r.decoders.Store(t)
	r.writer.Unlock()
	return nil
}

// Decode - decode raw bytes as the named type
func (r *Registry) Decode(typeName string, raw []byte) (v value.Value, err error) {
	key := r.normaliser.Normalise(typeName)

	d, ok := r.current()[key]
	if !ok {
		r.debugf("no decoder for: %q  normalised: %q", typeName, key)
		return nil, fmt.Errorf("%w: %s", fault.ErrUnknownType, key)
	}

	defer func() {
		if e := recover(); nil != e {
			r.warnf("decoder: %s  panic: %v", key, e)
			v = nil
			err = fmt.Errorf("%w: %s: %v", fault.ErrMalformed, key, e)
		}
	}()

	v, err = d(raw)
	if nil != err {
		r.debugf("decode: %s  data: %x  error: %s", key, raw, err)
		return nil, fmt.Errorf("%w: %s: %w", fault.ErrMalformed, key, err)
	}
	return v, nil
}

// Has - true if a decoder exists for the name
func (r *Registry) Has(name string) bool {
	_, ok := r.current()[r.normaliser.Normalise(name)]
	return ok
}

// Len - number of decoders
func (r *Registry) Len() int {
	return len(r.current())
}

// Names - sorted normalised names
func (r *Registry) Names() []string {
	t := r.current()
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) debugf(format string, arguments ...interface{}) {
	if nil != r.log {
		r.log.Debugf(format, arguments...)
	}
}

func (r *Registry) warnf(format string, arguments ...interface{}) {
	if nil != r.log {
		r.log.Warnf(format, arguments...)
	}
}
