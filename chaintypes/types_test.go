// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaintypes_test

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/statedecoder/chaintypes"
	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/keylength"
	"github.com/bitmark-inc/statedecoder/registry"
	"github.com/bitmark-inc/statedecoder/typename"
	"github.com/bitmark-inc/statedecoder/value"
)

const (
	alice        = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	aliceSS58    = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	zeroU128     = "00000000000000000000000000000000"
	tenPower19LE = "0000e8890423c78a0000000000000000"
)

func newRegistry(t *testing.T) *registry.Registry {
	n, err := typename.New(chaintypes.DefaultRules())
	require.Nil(t, err, "default rules rejected")

	r := registry.New(n, nil)
	err = chaintypes.Register(r, chaintypes.DefaultOptions())
	require.Nil(t, err, "Register")
	return r
}

func decode(t *testing.T, r *registry.Registry, typeName string, encoded string) string {
	raw, err := hex.DecodeString(encoded)
	require.Nil(t, err, "bad test hex: %q", encoded)
	v, err := r.Decode(typeName, raw)
	require.Nil(t, err, "decode: %s", typeName)
	s, err := value.JSON(v)
	require.Nil(t, err, "JSON: %s", typeName)
	return s
}

func TestDefaults(t *testing.T) {
	_, err := keylength.New(chaintypes.DefaultKeyLengths())
	assert.Nil(t, err, "default key lengths rejected")

	r := newRegistry(t)
	assert.Equal(t, len(chaintypes.Decoders(chaintypes.DefaultOptions())), r.Len(), "names collided after normalising")
}

func TestMetadataTypes(t *testing.T) {
	r := newRegistry(t)

	hash := strings.Repeat("11", 32)

	tests := []struct {
		typeName string
		encoded  string
		expected string
	}{
		{"T::BlockNumber", "40420f00", `1000000`},
		{"Vec<T::BlockNumber>", "08" + "01000000" + "02000000", `[1,2]`},
		{"bool", "01", `true`},
		{"u32", "ffffffff", `4294967295`},
		{"EventIndex", "03000000", `3`},
		{"u64", "0100000000000000", `1`},
		{"T::Moment", "008e685d73010000", `1595000000000`},
		{"Multiplier", "000064a7b3b6e00d0000000000000000", `"1.000000000000000000"`},
		{"Multiplier", "0000167b0d12d1140000000000000000", `"1.500000000000000000"`},
		{"Multiplier", "15cd5b07000000000000000000000000", `"0.000000000123456789"`},
		{"T::Hash", hash, `"0x` + hash + `"`},
		{"Vec<T::Hash>", "04" + hash, `["0x` + hash + `"]`},
		{"weights::ExtrinsicsWeight", "0a00000000000000" + "1400000000000000", `{"normal":10,"operational":20}`},
		{
			"Vec<UncleEntryItem<T::BlockNumber, T::Hash, T::AccountId>>",
			"0c" + "00" + "05000000" + "01" + hash + "01" + alice + "01" + hash + "00",
			`[{"InclusionHeight":5},{"Uncle":["0x` + hash + `","` + aliceSS58 + `"]},{"Uncle":["0x` + hash + `",null]}]`,
		},
		{
			"EraRewardPoints<T::AccountId>",
			"0a000000" + "04" + alice + "0a000000",
			`{"total":10,"individual":{"` + aliceSS58 + `":10}}`,
		},
		{"ActiveEraInfo", "07000000" + "00", `{"index":7,"start":null}`},
		{"ActiveEraInfo", "07000000" + "01" + "008e685d73010000", `{"index":7,"start":1595000000000}`},
		{
			"AccountInfo<T::Index, T::AccountData>",
			"01000000" + "00" + tenPower19LE + zeroU128 + zeroU128 + zeroU128,
			`{"nonce":1,"refcount":0,"data":{"free":10000000000000000000,"reserved":0,"misc_frozen":0,"fee_frozen":0}}`,
		},
		{"BalanceOf<T>", tenPower19LE, `10000000000000000000`},
		{"T::AccountId", alice, `"` + aliceSS58 + `"`},
		{"Option<T::AccountId>", "00", `null`},
		{"Option<bool>", "02", `false`},
		{"T::ValidatorId", alice, `"` + aliceSS58 + `"`},
	}

	for i, item := range tests {
		assert.Equal(t, item.expected, decode(t, r, item.typeName, item.encoded), "%d: %s", i, item.typeName)
	}
}

func TestSS58Format(t *testing.T) {
	n, err := typename.New(chaintypes.DefaultRules())
	require.Nil(t, err)
	r := registry.New(n, nil)
	require.Nil(t, chaintypes.Register(r, chaintypes.Options{SS58Format: value.PolkadotFormat}))

	assert.Equal(t, `"15oF4uVJwmo4TdGW7VfQxNLavjCXviqxT9S1MgbjMNHr6Sp5"`, decode(t, r, "T::AccountId", alice))
}

func TestUnregistered(t *testing.T) {
	r := newRegistry(t)

	// runtime events depend on the full runtime and are not decoded
	_, err := r.Decode("Vec<EventRecord<T::Event, T::Hash>>", []byte{0})
	assert.True(t, errors.Is(err, fault.ErrUnknownType), "wrong error: %v", err)
	assert.Contains(t, err.Error(), "Vec<EventRecord<Event, Hash>>")
}

func TestRegisterTwice(t *testing.T) {
	r := newRegistry(t)
	err := chaintypes.Register(r, chaintypes.DefaultOptions())
	assert.True(t, errors.Is(err, fault.ErrAlreadyRegistered), "wrong error: %v", err)
}

func TestTruncatedLength(t *testing.T) {
	r := newRegistry(t)

	for _, encoded := range []string{"0200", "0300", "13ffff", "02", "01"} {
		raw, err := hex.DecodeString(encoded)
		require.Nil(t, err, "bad test hex: %q", encoded)

		v, err := r.Decode("Vec<T::BlockNumber>", raw)
		assert.Nil(t, v, "%s: value returned", encoded)
		assert.True(t, errors.Is(err, fault.ErrMalformed), "%s: wrong error: %v", encoded, err)
	}
}
