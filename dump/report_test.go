// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dump_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/statedecoder/dump"
	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/storagekey"
	"github.com/bitmark-inc/statedecoder/value"
)

func numberKey() *storagekey.TransparentKey {
	return &storagekey.TransparentKey{
		Module:    "System",
		Name:      "Number",
		ValueType: "T::BlockNumber",
	}
}

func TestJSONReporter(t *testing.T) {
	buffer := &bytes.Buffer{}
	r := dump.NewJSONReporter(buffer)

	err := r.Report(dump.Record{
		Index:    0,
		RawKey:   []byte{0xab},
		RawValue: []byte{0x10, 0, 0, 0},
		Key:      numberKey(),
		Value:    value.Uint(16),
	})
	require.Nil(t, err, "report decoded")

	err = r.Report(dump.Record{
		Index:    1,
		RawKey:   []byte{0xcd},
		RawValue: []byte{0x01},
		Err:      fmt.Errorf("%w: 00", fault.ErrUnknownPrefix),
	})
	require.Nil(t, err, "report failed")

	err = r.Summary(dump.Stats{Pairs: 2, Decoded: 1, UnknownPrefix: 1})
	require.Nil(t, err, "summary")

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Equal(t, 3, len(lines), "lines: %q", buffer.String())

	decoded := map[string]interface{}{}
	require.Nil(t, jsoniter.Unmarshal([]byte(lines[0]), &decoded), "line 0")
	assert.Equal(t, "0xab", decoded["raw_key"], "raw key")
	assert.Equal(t, float64(16), decoded["value"], "value")
	assert.NotContains(t, decoded, "raw_value", "raw value of decoded pair")
	assert.NotContains(t, decoded, "error", "error of decoded pair")
	key, ok := decoded["key"].(map[string]interface{})
	require.True(t, ok, "key object")
	assert.Equal(t, "Number", key["name"], "name")

	failed := map[string]interface{}{}
	require.Nil(t, jsoniter.Unmarshal([]byte(lines[1]), &failed), "line 1")
	assert.Equal(t, "0x01", failed["raw_value"], "raw value")
	assert.Equal(t, "unknown storage prefix: 00", failed["error"], "error")
	assert.NotContains(t, failed, "key", "key of failed pair")
	assert.NotContains(t, failed, "value", "value of failed pair")

	summary := map[string]map[string]int{}
	require.Nil(t, jsoniter.Unmarshal([]byte(lines[2]), &summary), "line 2")
	assert.Equal(t, 2, summary["summary"]["pairs"], "pairs")
	assert.Equal(t, 1, summary["summary"]["unknown_prefix"], "unknown prefix")
}

func TestTextReporter(t *testing.T) {
	buffer := &bytes.Buffer{}
	r := dump.NewTextReporter(buffer, false, false)

	err := r.Report(dump.Record{
		Index: 0,
		Key:   numberKey(),
		Value: value.Uint(16),
	})
	require.Nil(t, err, "report decoded")
	assert.Equal(t, "0: Key: System.Number  [T::BlockNumber]\n0: Val: 16\n", buffer.String(), "decoded")

	buffer.Reset()
	err = r.Report(dump.Record{
		Index:    3,
		RawKey:   []byte{0x01, 0x02},
		RawValue: []byte{0xff},
		Err:      fault.ErrKeyTooShort,
	})
	require.Nil(t, err, "report failed")
	assert.Equal(t, "3: Key: 0102\n3: Err: storage key is shorter than the prefix\n3: Raw: ff\n", buffer.String(), "failed")
}

func TestTextReporterDoubleMap(t *testing.T) {
	buffer := &bytes.Buffer{}
	r := dump.NewTextReporter(buffer, false, false)

	err := r.Report(dump.Record{
		Index: 7,
		Key: &storagekey.TransparentKey{
			Module:    "Staking",
			Name:      "ErasStakers",
			KeyType:   "EraIndex",
			Key:       "01000000",
			Key2Type:  "T::AccountId",
			Key2:      "ff",
			ValueType: "Exposure",
		},
		Err: fault.ErrUnknownType,
	})
	require.Nil(t, err, "report")
	assert.Equal(t,
		"7: Key: Staking.ErasStakers EraIndex=01000000 T::AccountId=ff  [Exposure]\n"+
			"7: Err: no decoder registered for type\n"+
			"7: Raw: \n",
		buffer.String(), "double map")
}

// accepts a number of writes then fails every later one
type limitedWriter struct {
	writes int
}

var errWriteLimit = fmt.Errorf("write limit reached")

func (w *limitedWriter) Write(p []byte) (int, error) {
	if w.writes <= 0 {
		return 0, errWriteLimit
	}
	w.writes -= 1
	return len(p), nil
}

func TestTextReporterWriteError(t *testing.T) {
	record := dump.Record{
		Index: 7,
		Key: &storagekey.TransparentKey{
			Module:    "Staking",
			Name:      "ErasStakers",
			KeyType:   "EraIndex",
			Key:       "01000000",
			Key2Type:  "T::AccountId",
			Key2:      "ff",
			ValueType: "Exposure",
		},
		Value: value.Uint(1),
	}

	// key line, two key types, value type then the value
	for n := 0; n < 5; n += 1 {
		r := dump.NewTextReporter(&limitedWriter{writes: n}, false, false)
		err := r.Report(record)
		assert.Equal(t, errWriteLimit, err, "%d writes allowed", n)
	}

	r := dump.NewTextReporter(&limitedWriter{writes: 5}, false, false)
	assert.Nil(t, r.Report(record), "all writes allowed")
}

func TestTextReporterHexDump(t *testing.T) {
	buffer := &bytes.Buffer{}
	r := dump.NewTextReporter(buffer, false, true)

	err := r.Report(dump.Record{
		Index:    1,
		RawKey:   []byte{0xaa},
		RawValue: []byte("abc\x00"),
		Err:      fault.ErrMalformed,
	})
	require.Nil(t, err, "report")

	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	require.Equal(t, 3, len(lines), "lines: %q", buffer.String())
	assert.True(t, strings.HasPrefix(lines[2], "1: Raw: 0000  61 62 63 00 "), "hex: %q", lines[2])
	assert.True(t, strings.HasSuffix(lines[2], " |abc.|"), "ascii: %q", lines[2])
}

func TestTextReporterColour(t *testing.T) {
	buffer := &bytes.Buffer{}
	r := dump.NewTextReporter(buffer, true, false)

	err := r.Report(dump.Record{
		Index: 0,
		Key:   numberKey(),
		Value: value.Uint(16),
	})
	require.Nil(t, err, "report")
	assert.Contains(t, buffer.String(), "\033[1;36mKey: \033[0;36mSystem.Number\033[0m", "key colour")
	assert.Contains(t, buffer.String(), "\033[1;33mVal: \033[0;33m16\033[0m", "value colour")
}

func TestTextSummary(t *testing.T) {
	buffer := &bytes.Buffer{}
	r := dump.NewTextReporter(buffer, false, false)

	err := r.Summary(dump.Stats{Pairs: 5, Decoded: 3, Malformed: 1, UnknownType: 1, Filtered: 2})
	require.Nil(t, err, "summary")
	assert.True(t, strings.HasPrefix(buffer.String(), "pairs: 5  decoded: 3  failed: 2  filtered: 2\n"), "summary: %q", buffer.String())
}
