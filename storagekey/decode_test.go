// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storagekey_test

import (
	"encoding/hex"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/hasher"
	"github.com/bitmark-inc/statedecoder/keylength"
	"github.com/bitmark-inc/statedecoder/metadata"
	"github.com/bitmark-inc/statedecoder/storagekey"
	"github.com/bitmark-inc/statedecoder/typename"
)

var (
	plainPrefix    = strings.Repeat("11", 16) + strings.Repeat("22", 16)
	mapPrefix      = strings.Repeat("33", 16) + strings.Repeat("44", 16)
	twoxMapPrefix  = strings.Repeat("33", 16) + strings.Repeat("55", 16)
	doublePrefix   = strings.Repeat("66", 16) + strings.Repeat("77", 16)
	unknownPrefix  = strings.Repeat("66", 16) + strings.Repeat("88", 16)
	opaquePrefix   = strings.Repeat("99", 16) + strings.Repeat("aa", 16)
	opaque2Prefix  = strings.Repeat("99", 16) + strings.Repeat("bb", 16)
	identityPrefix = strings.Repeat("99", 16) + strings.Repeat("cc", 16)
)

func entry(prefix string, name string, shape metadata.Shape) metadata.Entry {
	return metadata.Entry{
		Module:       "Test",
		Name:         name,
		ModulePrefix: prefix[:metadata.HalfPrefixLength],
		EntryPrefix:  prefix[metadata.HalfPrefixLength:],
		Shape:        shape,
	}
}

func testTable(t *testing.T) *metadata.LookupTable {
	schema := &metadata.Schema{
		Modules: []metadata.Module{{
			Name: "Test",
			Entries: []metadata.Entry{
				entry(plainPrefix, "Plain", metadata.PlainShape("u32")),
				entry(mapPrefix, "Map", metadata.MapShape(hasher.Blake2_128Concat, "T::AccountId", "AccountInfo<T::Index, T::AccountData>")),
				entry(twoxMapPrefix, "TwoxMap", metadata.MapShape(hasher.Twox64Concat, "EraIndex", "EraRewardPoints<T::AccountId>")),
				entry(doublePrefix, "Double", metadata.DoubleMapShape(hasher.Twox64Concat, "EraIndex", hasher.Blake2_128Concat, "T::AccountId", "Exposure")),
				entry(unknownPrefix, "Unknown", metadata.DoubleMapShape(hasher.Twox64Concat, "OpaqueTimeSlot", hasher.Twox64Concat, "u32", "u32")),
				entry(opaquePrefix, "Opaque", metadata.MapShape(hasher.Twox128, "u32", "u32")),
				entry(opaque2Prefix, "Opaque2", metadata.DoubleMapShape(hasher.Twox64Concat, "EraIndex", hasher.Blake2_256, "u32", "u32")),
				entry(identityPrefix, "Identity", metadata.MapShape(hasher.Identity, "u32", "u32")),
			},
		}},
	}
	table, err := metadata.BuildLookupTable(schema)
	require.Nil(t, err, "wrong BuildLookupTable")
	return table
}

func testDecoder(t *testing.T, lengths map[string]int) *storagekey.Decoder {
	keyLengths, err := keylength.New(lengths)
	require.Nil(t, err, "wrong keylength.New")
	normaliser, err := typename.New([]typename.Rule{
		{Placeholder: "T::AccountId", Concrete: "AccountId"},
	})
	require.Nil(t, err, "wrong typename.New")
	return storagekey.NewDecoder(hasher.DefaultTable(), keyLengths, normaliser, logger.New(logCategory))
}

var defaultLengths = map[string]int{
	"EraIndex":  8,
	"AccountId": 64,
}

func TestPlain(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	tk, err := d.Decode(testTable(t), plainPrefix)
	require.Nil(t, err, "wrong Decode")

	assert.Equal(t, metadata.Plain, tk.Kind)
	assert.Equal(t, "u32", tk.ValueType)
	assert.Equal(t, strings.Repeat("11", 16), tk.ModulePrefix)
	assert.Equal(t, strings.Repeat("22", 16), tk.EntryPrefix)
	assert.Equal(t, "", tk.Key)
	assert.Equal(t, "", tk.KeyType)
	assert.Equal(t, "", tk.Key2)
	assert.Equal(t, "", tk.HashedKey)
}

func TestMap(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	tk, err := d.Decode(testTable(t), mapPrefix+strings.Repeat("ff", 16)+"deadbeef")
	require.Nil(t, err, "wrong Decode")

	assert.Equal(t, metadata.Map, tk.Kind)
	assert.Equal(t, "deadbeef", tk.Key)
	assert.Equal(t, strings.Repeat("ff", 16), tk.HashedKey)
	assert.Equal(t, "T::AccountId", tk.KeyType)
	assert.Equal(t, "AccountInfo<T::Index, T::AccountData>", tk.ValueType)
	assert.Equal(t, "Map", tk.Name)
}

func TestMapEmptyKey(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	tk, err := d.Decode(testTable(t), twoxMapPrefix+strings.Repeat("ab", 8))
	require.Nil(t, err, "wrong Decode")
	assert.Equal(t, "", tk.Key)
	assert.Equal(t, strings.Repeat("ab", 8), tk.HashedKey)
}

func TestHexForms(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	table := testTable(t)

	tk, err := d.Decode(table, "0x"+strings.ToUpper(mapPrefix+strings.Repeat("ff", 16))+"DEADBEEF")
	require.Nil(t, err, "wrong Decode")
	assert.Equal(t, "deadbeef", tk.Key)

	raw, _ := hex.DecodeString(mapPrefix + strings.Repeat("ff", 16) + "0102")
	tk, err = d.DecodeBytes(table, raw)
	require.Nil(t, err, "wrong DecodeBytes")
	assert.Equal(t, "0102", tk.Key)

	_, err = d.Decode(table, mapPrefix+"zz")
	assert.Equal(t, fault.ErrInvalidHex, err)

	_, err = d.Decode(table, mapPrefix+"abc")
	assert.Equal(t, fault.ErrInvalidHex, err)
}

func TestRoundTrip(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	table := testTable(t)
	r := rand.New(rand.NewSource(1))

	items := []struct {
		prefix string
		h      hasher.Kind
	}{
		{mapPrefix, hasher.Blake2_128Concat},
		{twoxMapPrefix, hasher.Twox64Concat},
	}

	for _, item := range items {
		for i := 0; i < 200; i += 1 {
			key := make([]byte, r.Intn(80))
			r.Read(key)

			hashed := hasher.Hash(item.h, key)
			rawKey := item.prefix + hex.EncodeToString(hashed)

			tk, err := d.Decode(table, rawKey)
			require.Nil(t, err, "%s: %d: wrong Decode", item.h, i)
			assert.Equal(t, hex.EncodeToString(key), tk.Key, "%s: %d: key differs", item.h, i)
			assert.Equal(t, hex.EncodeToString(hashed[:len(hashed)-len(key)]), tk.HashedKey, "%s: %d: hash differs", item.h, i)
		}
	}
}

func TestDoubleMap(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	table := testTable(t)

	for i := 0; i < 200; i += 1 {
		key1 := make([]byte, 1+r.Intn(40))
		r.Read(key1)
		key2 := make([]byte, r.Intn(40))
		r.Read(key2)

		// declared length matches the true length of key1
		d := testDecoder(t, map[string]int{"EraIndex": 2 * len(key1)})

		rawKey := doublePrefix +
			hex.EncodeToString(hasher.Hash(hasher.Twox64Concat, key1)) +
			hex.EncodeToString(hasher.Hash(hasher.Blake2_128Concat, key2))

		tk, err := d.Decode(table, rawKey)
		require.Nil(t, err, "%d: wrong Decode", i)
		assert.Equal(t, metadata.DoubleMap, tk.Kind)
		assert.Equal(t, hex.EncodeToString(key1), tk.Key, "%d: key1 differs", i)
		assert.Equal(t, hex.EncodeToString(key2), tk.Key2, "%d: key2 differs", i)
		assert.Equal(t, "EraIndex", tk.KeyType)
		assert.Equal(t, "T::AccountId", tk.Key2Type)
		assert.Equal(t, "Exposure", tk.ValueType)
		assert.Equal(t, 16, len(tk.HashedKey))
		assert.Equal(t, 32, len(tk.HashedKey2))
	}
}

func TestDoubleMapMismatchedLength(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	table := testTable(t)

	for i := 0; i < 500; i += 1 {
		key1 := make([]byte, r.Intn(20))
		r.Read(key1)
		key2 := make([]byte, r.Intn(20))
		r.Read(key2)
		declared := 2 * (1 + r.Intn(30))

		d := testDecoder(t, map[string]int{"EraIndex": declared})
		rawKey := doublePrefix +
			hex.EncodeToString(hasher.Hash(hasher.Twox64Concat, key1)) +
			hex.EncodeToString(hasher.Hash(hasher.Blake2_128Concat, key2))

		assert.NotPanics(t, func() {
			tk, err := d.Decode(table, rawKey)
			if nil == err {
				// a wrong length misparses but always splits the whole key
				assert.Equal(t, declared, len(tk.Key), "%d: key1 length", i)
				assert.Equal(t, len(rawKey), metadata.PrefixLength+len(tk.HashedKey)+len(tk.Key)+len(tk.HashedKey2)+len(tk.Key2), "%d: lost material", i)
			} else {
				assert.True(t, errors.Is(err, fault.ErrKeyTruncated), "%d: wrong error: %v", i, err)
			}
		}, "%d: panic", i)
	}
}

func TestUnknownKey1Length(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	table := testTable(t)

	rawKey := unknownPrefix + strings.Repeat("01", 8) + strings.Repeat("02", 16) + strings.Repeat("03", 8) + "04000000"
	tk, err := d.Decode(table, rawKey)
	assert.True(t, errors.Is(err, fault.ErrUnknownKey1Length), "wrong error: %v", err)
	assert.Contains(t, err.Error(), "OpaqueTimeSlot")
	assert.Equal(t, storagekey.TransparentKey{}, tk, "partial result returned")

	// other entries in the same table are unaffected
	tk, err = d.Decode(table, mapPrefix+strings.Repeat("ff", 16)+"deadbeef")
	assert.Nil(t, err, "wrong Decode")
	assert.Equal(t, "deadbeef", tk.Key)

	tk, err = d.Decode(table, plainPrefix)
	assert.Nil(t, err, "wrong Decode")
	assert.Equal(t, "u32", tk.ValueType)
}

func TestNormalisedKey1Type(t *testing.T) {
	schema := &metadata.Schema{
		Modules: []metadata.Module{{
			Name: "Test",
			Entries: []metadata.Entry{
				entry(doublePrefix, "Double", metadata.DoubleMapShape(hasher.Blake2_128Concat, "T::AccountId", hasher.Twox64Concat, "u32", "u32")),
			},
		}},
	}
	table, err := metadata.BuildLookupTable(schema)
	require.Nil(t, err)

	account := strings.Repeat("be", 32)
	rawKey := doublePrefix + strings.Repeat("00", 16) + account + strings.Repeat("00", 8) + "2a000000"

	d := testDecoder(t, defaultLengths)
	tk, err := d.Decode(table, rawKey)
	require.Nil(t, err, "wrong Decode")
	assert.Equal(t, account, tk.Key)
	assert.Equal(t, "2a000000", tk.Key2)
	assert.Equal(t, "T::AccountId", tk.KeyType, "declared type not kept")
}

func TestUnrecoverableHasher(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	table := testTable(t)

	keys := []string{
		opaquePrefix + strings.Repeat("00", 16),
		identityPrefix + "01000000",
		opaque2Prefix + strings.Repeat("00", 8) + "01000000" + strings.Repeat("00", 32),
	}
	for i, rawKey := range keys {
		tk, err := d.Decode(table, rawKey)
		assert.True(t, errors.Is(err, fault.ErrUnrecoverableHasher), "%d: wrong error: %v", i, err)
		assert.Equal(t, storagekey.TransparentKey{}, tk, "%d: partial result returned", i)
	}
}

func TestUnknownPrefix(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	table := testTable(t)
	r := rand.New(rand.NewSource(4))

	for i := 0; i < 200; i += 1 {
		b := make([]byte, 32+r.Intn(40))
		r.Read(b)
		rawKey := hex.EncodeToString(b)
		if _, ok := table.Lookup(rawKey[:metadata.PrefixLength]); ok {
			continue
		}
		tk, err := d.Decode(table, rawKey)
		assert.True(t, errors.Is(err, fault.ErrUnknownPrefix), "%d: wrong error: %v", i, err)
		assert.Equal(t, storagekey.TransparentKey{}, tk, "%d: partial result returned", i)
	}

	_, err := d.Decode(nil, plainPrefix)
	assert.True(t, errors.Is(err, fault.ErrUnknownPrefix), "nil table: wrong error: %v", err)
}

func TestShortAndTruncated(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	table := testTable(t)

	for _, rawKey := range []string{"", "0x", plainPrefix[:62], plainPrefix[:63]} {
		_, err := d.Decode(table, rawKey)
		assert.Equal(t, fault.ErrKeyTooShort, err, "key: %q", rawKey)
	}

	truncated := []string{
		mapPrefix + "ff",
		twoxMapPrefix + strings.Repeat("ff", 7),
		doublePrefix + strings.Repeat("00", 8) + "0100",
		doublePrefix + strings.Repeat("00", 8) + "01000000" + strings.Repeat("00", 15),
	}
	for i, rawKey := range truncated {
		_, err := d.Decode(table, rawKey)
		assert.True(t, errors.Is(err, fault.ErrKeyTruncated), "%d: wrong error: %v", i, err)
		assert.True(t, fault.IsErrLength(err), "%d: wrong class: %v", i, err)
	}
}

func TestConcurrentDecode(t *testing.T) {
	d := testDecoder(t, defaultLengths)
	table := testTable(t)

	var wg sync.WaitGroup
	for g := 0; g < 8; g += 1 {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i += 1 {
				key := []byte{byte(g), byte(i)}
				rawKey := mapPrefix + hex.EncodeToString(hasher.Hash(hasher.Blake2_128Concat, key))
				tk, err := d.Decode(table, rawKey)
				if nil != err || hex.EncodeToString(key) != tk.Key {
					t.Errorf("%d/%d: key: %q  error: %v", g, i, tk.Key, err)
				}
			}
		}(g)
	}
	wg.Wait()
}
