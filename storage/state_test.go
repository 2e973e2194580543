// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/statedecoder/fault"
)

func TestParseStateJSON(t *testing.T) {
	plain := `{"0x0b": "0x", "0x0a": "0x0102"}`
	elements, err := ParseStateJSON([]byte(plain))
	require.Nil(t, err)
	assert.Equal(t, []Element{
		{Key: []byte{0x0a}, Value: []byte{0x01, 0x02}},
		{Key: []byte{0x0b}, Value: []byte{}},
	}, elements)

	spec := `{"name": "Local", "genesis": {"raw": {"top": {"0xff": "0x01"}, "childrenDefault": {}}}}`
	elements, err = ParseStateJSON([]byte(spec))
	require.Nil(t, err)
	assert.Equal(t, []Element{{Key: []byte{0xff}, Value: []byte{0x01}}}, elements)

	_, err = ParseStateJSON([]byte(`{"0xzz": "0x01"}`))
	assert.True(t, errors.Is(err, fault.ErrInvalidHex), "wrong error: %v", err)

	_, err = ParseStateJSON([]byte(`[1, 2]`))
	assert.NotNil(t, err)
}

func TestImportAndInfo(t *testing.T) {
	setup(t)
	defer teardown()

	elements := []Element{
		{Key: []byte{0x0a}, Value: []byte{0x01}},
		{Key: []byte{0x0b}, Value: []byte{0x02}},
	}
	err := Import(elements, map[string]string{InfoBlock: "1234"})
	require.Nil(t, err, "Import")

	n, err := Pool.State.Count()
	assert.Nil(t, err)
	assert.Equal(t, 2, n)

	block, err := Info(InfoBlock)
	assert.Nil(t, err)
	assert.Equal(t, "1234", block)

	missing, err := Info(InfoSpecVersion)
	assert.Nil(t, err)
	assert.Equal(t, "", missing)
}
