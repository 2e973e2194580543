// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package metadata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/hasher"
	"github.com/bitmark-inc/statedecoder/metadata"
)

const schemaJSON = `{
  "modules": [
    {
      "name": "System",
      "storage": [
        {"name": "Number", "type": "plain", "value": "T::BlockNumber"},
        {"name": "Account", "type": "map", "hasher": "Blake2_128Concat",
         "key": "T::AccountId", "value": "AccountInfo<T::Index, T::AccountData>"}
      ]
    },
    {
      "name": "Staking",
      "storage": [
        {"name": "ErasStakers", "type": "double_map",
         "hasher": "twox_64_concat", "key": "EraIndex",
         "key2_hasher": "Twox64Concat", "key2": "T::AccountId",
         "value": "Exposure<T::AccountId, BalanceOf<T>>"}
      ]
    },
    {
      "name": "Custom",
      "prefix": "Renamed",
      "storage": [
        {"name": "Fixed", "value": "u8",
         "module_prefix": "0x11111111111111111111111111111111",
         "entry_prefix": "2222222222222222222222222222222A"}
      ]
    }
  ]
}`

func TestParse(t *testing.T) {
	schema, err := metadata.Parse([]byte(schemaJSON))
	require.Nil(t, err, "wrong Parse")
	require.Equal(t, 3, len(schema.Modules))
	assert.Equal(t, 4, schema.Entries())

	number := schema.Modules[0].Entries[0]
	assert.Equal(t, metadata.Plain, number.Shape.Kind)
	assert.Equal(t, "26aa394eea5630e07c48ae0c9558cef7", number.ModulePrefix)

	account := schema.Modules[0].Entries[1]
	assert.Equal(t, metadata.Map, account.Shape.Kind)
	assert.Equal(t, hasher.Blake2_128Concat, account.Shape.Hasher)
	assert.Equal(t, "b99d880ec681799c0cf30e8886371da9", account.EntryPrefix)

	stakers := schema.Modules[1].Entries[0]
	assert.Equal(t, metadata.DoubleMap, stakers.Shape.Kind)
	assert.Equal(t, hasher.Twox64Concat, stakers.Shape.Hasher)
	assert.Equal(t, hasher.Twox64Concat, stakers.Shape.Hasher2)
	assert.Equal(t, "EraIndex", stakers.Shape.KeyType)
	assert.Equal(t, "T::AccountId", stakers.Shape.Key2Type)

	custom := schema.Modules[2].Entries[0]
	assert.Equal(t, "Renamed", custom.Module)
	assert.Equal(t, "11111111111111111111111111111111", custom.ModulePrefix)
	assert.Equal(t, "2222222222222222222222222222222a", custom.EntryPrefix)

	_, err = metadata.BuildLookupTable(schema)
	assert.Nil(t, err, "wrong BuildLookupTable")
}

func TestParseErrors(t *testing.T) {
	parseTests := []struct {
		data string
		err  error
	}{
		{`{"modules":[{"name":"A","storage":[{"name":"B","type":"map","key":"u32","value":"u32"}]}]}`, fault.ErrInvalidHasher},
		{`{"modules":[{"name":"A","storage":[{"name":"B","type":"double_map","hasher":"Twox64Concat","key":"u32","key2":"u32","value":"u32"}]}]}`, fault.ErrInvalidHasher},
		{`{"modules":[{"name":"A","storage":[{"name":"B","type":"tree","value":"u32"}]}]}`, fault.ErrInvalidShape},
	}
	for i, item := range parseTests {
		_, err := metadata.Parse([]byte(item.data))
		assert.ErrorIs(t, err, item.err, "%d: wrong error", i)
	}

	_, err := metadata.Parse([]byte(`{"modules":[{"name":"A","storage":[{"name":"B","type":"map","hasher":"md5"}]}]}`))
	assert.NotNil(t, err, "unknown hasher accepted")

	_, err = metadata.Parse([]byte(`{"modules": [`))
	assert.NotNil(t, err, "truncated JSON accepted")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	fileName := filepath.Join(dir, "schema.json")
	require.Nil(t, os.WriteFile(fileName, []byte(schemaJSON), 0o600))

	schema, err := metadata.LoadFile(fileName)
	require.Nil(t, err, "wrong LoadFile")
	assert.Equal(t, 4, schema.Entries())

	_, err = metadata.LoadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err), "wrong error: %v", err)
}
