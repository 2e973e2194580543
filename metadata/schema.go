// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"fmt"
	"sort"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/hasher"
	"github.com/bitmark-inc/statedecoder/typename"
)

// hex characters in a module or entry prefix
const (
	HalfPrefixLength = 16 * 2
	PrefixLength     = 2 * HalfPrefixLength
)

// ShapeKind - the three storage shapes
type ShapeKind int

// storage shapes
const (
	Plain ShapeKind = iota
	Map
	DoubleMap
)

// String - shape name
func (k ShapeKind) String() string {
	switch k {
	case Plain:
		return "Plain"
	case Map:
		return "Map"
	case DoubleMap:
		return "DoubleMap"
	default:
		return "Unknown"
	}
}

// Shape - declared key and value types of an entry
//
// Hasher and KeyType are used by Map and by key1 of DoubleMap,
// Hasher2 and Key2Type only by DoubleMap
type Shape struct {
	Kind      ShapeKind
	Hasher    hasher.Kind
	KeyType   string
	Hasher2   hasher.Kind
	Key2Type  string
	ValueType string
}

// PlainShape - an entry without keys
func PlainShape(valueType string) Shape {
	return Shape{
		Kind:      Plain,
		ValueType: valueType,
	}
}

// MapShape - an entry with one key
func MapShape(h hasher.Kind, keyType string, valueType string) Shape {
	return Shape{
		Kind:      Map,
		Hasher:    h,
		KeyType:   keyType,
		ValueType: valueType,
	}
}

// DoubleMapShape - an entry with two keys
func DoubleMapShape(h1 hasher.Kind, key1Type string, h2 hasher.Kind, key2Type string, valueType string) Shape {
	return Shape{
		Kind:      DoubleMap,
		Hasher:    h1,
		KeyType:   key1Type,
		Hasher2:   h2,
		Key2Type:  key2Type,
		ValueType: valueType,
	}
}

// validate - check the fields needed by the kind are present
func (s Shape) validate() error {
	if "" == s.ValueType {
		return fault.ErrInvalidShape
	}
	switch s.Kind {
	case Plain:
		return nil
	case Map:
		if !s.Hasher.Valid() {
			return fault.ErrInvalidHasher
		}
		if "" == s.KeyType {
			return fault.ErrInvalidShape
		}
		return nil
	case DoubleMap:
		if !s.Hasher.Valid() || !s.Hasher2.Valid() {
			return fault.ErrInvalidHasher
		}
		if "" == s.KeyType || "" == s.Key2Type {
			return fault.ErrInvalidShape
		}
		return nil
	default:
		return fault.ErrInvalidShape
	}
}

// Entry - one storage entry
type Entry struct {
	Module       string
	Name         string
	ModulePrefix string
	EntryPrefix  string
	Shape        Shape
}

// Prefix - the 64 hex character lookup key
func (e Entry) Prefix() string {
	return e.ModulePrefix + e.EntryPrefix
}

// Module - the storage entries of one runtime module
type Module struct {
	Name    string
	Entries []Entry
}

// Schema - all modules of one runtime version
type Schema struct {
	Modules []Module
}

// NewEntry - entry whose prefixes are computed from the names
//
// the module prefix is the module's storage prefix name which is
// usually, but not always, the module name
func NewEntry(modulePrefix string, name string, shape Shape) Entry {
	return Entry{
		Module:       modulePrefix,
		Name:         name,
		ModulePrefix: hasher.HexPrefix(modulePrefix),
		EntryPrefix:  hasher.HexPrefix(name),
		Shape:        shape,
	}
}

// Entries - count of all entries
func (s *Schema) Entries() int {
	n := 0
	for _, m := range s.Modules {
		n += len(m.Entries)
	}
	return n
}

// DoubleMapKeyTypes - sorted unique normalised key1 types of all double maps
func (s *Schema) DoubleMapKeyTypes(n *typename.Normaliser) []string {
	seen := make(map[string]struct{})
	for _, m := range s.Modules {
		for _, e := range m.Entries {
			if DoubleMap == e.Shape.Kind {
				seen[n.Normalise(e.Shape.KeyType)] = struct{}{}
			}
		}
	}
	return sortedKeys(seen)
}

// ValueTypes - sorted unique value types of all entries
//
// a nil normaliser returns the types as declared
func (s *Schema) ValueTypes(n *typename.Normaliser) []string {
	seen := make(map[string]struct{})
	for _, m := range s.Modules {
		for _, e := range m.Entries {
			t := e.Shape.ValueType
			if nil != n {
				t = n.Normalise(t)
			}
			seen[t] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	result := make([]string, 0, len(set))
	for k := range set {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

// String - for log messages
func (e Entry) String() string {
	return fmt.Sprintf("%s.%s", e.Module, e.Name)
}

// MarshalText - for JSON output
func (k ShapeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
