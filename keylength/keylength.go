// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keylength - encoded length of double map key1 types
//
// For a double map key:
//
//   hash(key1) ++ key1 ++ hash(key2) ++ key2
//
// the hash lengths are known from the hashers but the length of key1
// is not, so it is looked up here by its normalised type name.  Key1
// types are normally fixed size so a single length suffices.
package keylength

import (
	"sort"

	"github.com/bitmark-inc/statedecoder/fault"
)

// Table - normalised type name → encoded length in hex characters
type Table struct {
	lengths map[string]int
}

// New - make an immutable table from a seed
//
// lengths are hex characters (2 per byte) and must be positive and even
func New(seed map[string]int) (*Table, error) {
	t := &Table{
		lengths: make(map[string]int, len(seed)),
	}
	for name, n := range seed {
		if n <= 0 || 0 != n%2 {
			return nil, fault.ErrInvalidKeyLength
		}
		t.lengths[name] = n
	}
	return t, nil
}

// Lookup - hex length of a normalised key type
func (t *Table) Lookup(typeName string) (int, bool) {
	if nil == t {
		return 0, false
	}
	n, ok := t.lengths[typeName]
	return n, ok
}

// Len - number of entries
func (t *Table) Len() int {
	if nil == t {
		return 0
	}
	return len(t.lengths)
}

// Missing - the subset of types that have no entry, sorted
func (t *Table) Missing(typeNames []string) []string {
	missing := make([]string, 0)
	for _, name := range typeNames {
		if _, ok := t.Lookup(name); !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
