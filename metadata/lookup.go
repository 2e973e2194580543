// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"fmt"
	"sort"

	"github.com/bitmark-inc/statedecoder/fault"
)

// LookupTable - combined prefix → entry
//
// immutable once built, rebuild from a new schema instead
type LookupTable struct {
	entries map[string]Entry
}

// BuildLookupTable - index every entry of a schema by its prefix
//
// duplicate prefixes are reported instead of silently overwritten
func BuildLookupTable(schema *Schema) (*LookupTable, error) {
	t := &LookupTable{
		entries: make(map[string]Entry, schema.Entries()),
	}

	for _, m := range schema.Modules {
		for _, e := range m.Entries {
			if !validHalfPrefix(e.ModulePrefix) || !validHalfPrefix(e.EntryPrefix) {
				return nil, fmt.Errorf("%w: %s", fault.ErrInvalidPrefix, e)
			}
			if err := e.Shape.validate(); nil != err {
				return nil, fmt.Errorf("%w: %s", err, e)
			}

			prefix := e.Prefix()
			if previous, ok := t.entries[prefix]; ok {
				return nil, fmt.Errorf("%w: %s: %s and %s", fault.ErrDuplicatePrefix, prefix, previous, e)
			}
			t.entries[prefix] = e
		}
	}
	return t, nil
}

// Lookup - entry for a 64 hex character prefix
func (t *LookupTable) Lookup(prefix string) (Entry, bool) {
	if nil == t {
		return Entry{}, false
	}
	e, ok := t.entries[prefix]
	return e, ok
}

// Len - number of entries
func (t *LookupTable) Len() int {
	if nil == t {
		return 0
	}
	return len(t.entries)
}

// Prefixes - all prefixes in sorted order
func (t *LookupTable) Prefixes() []string {
	if nil == t {
		return nil
	}
	prefixes := make([]string, 0, len(t.entries))
	for p := range t.entries {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes
}

// exactly 32 lowercase hex digits
func validHalfPrefix(s string) bool {
	if HalfPrefixLength != len(s) {
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
