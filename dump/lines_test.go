// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dump_test

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/statedecoder/dump"
)

const lines = `
# comment
0x0102 0x0a0b
0304
  0506   ff
zz 00
07 0g
08 09 0a
`

func TestLineSource(t *testing.T) {
	source := dump.NewLineSource(strings.NewReader(lines))

	keys := []string{}
	values := []string{}
	err := source.Map(func(key []byte, value []byte) error {
		keys = append(keys, hex.EncodeToString(key))
		values = append(values, hex.EncodeToString(value))
		return nil
	})
	require.Nil(t, err, "map")

	assert.Equal(t, []string{"0102", "0304", "0506"}, keys, "keys")
	assert.Equal(t, []string{"0a0b", "", "ff"}, values, "values")
	assert.Equal(t, uint64(3), source.Skipped(), "skipped")
}

func TestLineSourceStop(t *testing.T) {
	source := dump.NewLineSource(strings.NewReader(lines))
	stop := errors.New("stop")

	n := 0
	err := source.Map(func(key []byte, value []byte) error {
		n += 1
		return stop
	})
	assert.Equal(t, stop, err, "stop error")
	assert.Equal(t, 1, n, "calls")
}
