// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata

import (
	"fmt"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/hasher"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// on-disk form of a schema
//
//   {
//     "modules": [
//       {
//         "name": "System",
//         "storage": [
//           {"name": "Number", "type": "plain", "value": "T::BlockNumber"},
//           {"name": "Account", "type": "map", "hasher": "Blake2_128Concat",
//            "key": "T::AccountId", "value": "AccountInfo<T::Index, T::AccountData>"}
//         ]
//       }
//     ]
//   }
//
// prefixes are twox128 of the module prefix and entry name unless
// given explicitly as hex
type schemaFile struct {
	Modules []moduleFile `json:"modules"`
}

type moduleFile struct {
	Name    string      `json:"name"`
	Prefix  string      `json:"prefix"`
	Storage []entryFile `json:"storage"`
}

type entryFile struct {
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Hasher       *hasher.Kind `json:"hasher"`
	Key          string       `json:"key"`
	Key2Hasher   *hasher.Kind `json:"key2_hasher"`
	Key2         string       `json:"key2"`
	Value        string       `json:"value"`
	ModulePrefix string       `json:"module_prefix"`
	EntryPrefix  string       `json:"entry_prefix"`
}

// LoadFile - read a JSON schema file
func LoadFile(fileName string) (*Schema, error) {
	data, err := os.ReadFile(fileName)
	if nil != err {
		return nil, err
	}
	return Parse(data)
}

// Parse - convert a JSON schema
func Parse(data []byte) (*Schema, error) {
	var f schemaFile
	if err := json.Unmarshal(data, &f); nil != err {
		return nil, err
	}

	schema := &Schema{
		Modules: make([]Module, 0, len(f.Modules)),
	}
	for _, mf := range f.Modules {
		prefix := mf.Prefix
		if "" == prefix {
			prefix = mf.Name
		}
		m := Module{
			Name:    mf.Name,
			Entries: make([]Entry, 0, len(mf.Storage)),
		}
		for _, ef := range mf.Storage {
			shape, err := ef.shape()
			if nil != err {
				return nil, fmt.Errorf("%w: %s.%s", err, mf.Name, ef.Name)
			}
			e := NewEntry(prefix, ef.Name, shape)
			if "" != ef.ModulePrefix {
				e.ModulePrefix = strings.ToLower(strings.TrimPrefix(ef.ModulePrefix, "0x"))
			}
			if "" != ef.EntryPrefix {
				e.EntryPrefix = strings.ToLower(strings.TrimPrefix(ef.EntryPrefix, "0x"))
			}
			m.Entries = append(m.Entries, e)
		}
		schema.Modules = append(schema.Modules, m)
	}
	return schema, nil
}

func (ef entryFile) shape() (Shape, error) {
	switch strings.ToLower(strings.ReplaceAll(ef.Type, "_", "")) {
	case "", "plain":
		return PlainShape(ef.Value), nil

	case "map":
		if nil == ef.Hasher {
			return Shape{}, fault.ErrInvalidHasher
		}
		return MapShape(*ef.Hasher, ef.Key, ef.Value), nil

	case "doublemap":
		if nil == ef.Hasher || nil == ef.Key2Hasher {
			return Shape{}, fault.ErrInvalidHasher
		}
		return DoubleMapShape(*ef.Hasher, ef.Key, *ef.Key2Hasher, ef.Key2, ef.Value), nil

	default:
		return Shape{}, fault.ErrInvalidShape
	}
}
