// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dump

import (
	"encoding/hex"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/bitmark-inc/statedecoder/storagekey"
	"github.com/bitmark-inc/statedecoder/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONReporter - one JSON object per line
type JSONReporter struct {
	encoder *jsoniter.Encoder
}

type jsonRecord struct {
	Index int                        `json:"index"`
	Key   string                     `json:"raw_key"`
	Value string                     `json:"raw_value,omitempty"`
	Entry *storagekey.TransparentKey `json:"key,omitempty"`
	Data  value.Value                `json:"value,omitempty"`
	Error string                     `json:"error,omitempty"`
}

type jsonSummary struct {
	Summary Stats `json:"summary"`
}

// NewJSONReporter - report to a writer as JSON lines
//
// raw values are only included for pairs that failed
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		encoder: json.NewEncoder(w),
	}
}

// Report - write one record
func (r *JSONReporter) Report(record Record) error {
	j := jsonRecord{
		Index: record.Index,
		Key:   "0x" + hex.EncodeToString(record.RawKey),
		Entry: record.Key,
		Data:  record.Value,
	}
	if nil != record.Err {
		j.Value = "0x" + hex.EncodeToString(record.RawValue)
		j.Error = record.Err.Error()
	}
	return r.encoder.Encode(j)
}

// Summary - write the totals
func (r *JSONReporter) Summary(stats Stats) error {
	return r.encoder.Encode(jsonSummary{Summary: stats})
}

// colours for text output
const (
	keyColour1 = "\033[1;36m"
	keyColour2 = "\033[0;36m"
	valColour1 = "\033[1;33m"
	valColour2 = "\033[0;33m"
	errColour1 = "\033[1;31m"
	errColour2 = "\033[0;31m"
	endColour  = "\033[0m"
)

type palette struct {
	key1, key2 string
	val1, val2 string
	err1, err2 string
	end        string
}

// TextReporter - human readable output
type TextReporter struct {
	w      io.Writer
	p      palette
	ascii  bool
	indent int
}

// NewTextReporter - report to a writer as text
//
// colour adds terminal escapes, ascii adds a hex dump of raw values
// that failed to decode
func NewTextReporter(w io.Writer, colour bool, ascii bool) *TextReporter {
	r := &TextReporter{
		w:      w,
		ascii:  ascii,
		indent: 2,
	}
	if colour {
		r.p = palette{
			key1: keyColour1,
			key2: keyColour2,
			val1: valColour1,
			val2: valColour2,
			err1: errColour1,
			err2: errColour2,
			end:  endColour,
		}
	}
	return r
}

// Report - write one record
func (r *TextReporter) Report(record Record) error {
	i := record.Index
	p := r.p

	if nil == record.Key {
		_, err := fmt.Fprintf(r.w, "%d: %sKey: %s%x%s\n", i, p.key1, p.key2, record.RawKey, p.end)
		if nil != err {
			return err
		}
	} else {
		k := record.Key
		_, err := fmt.Fprintf(r.w, "%d: %sKey: %s%s.%s%s", i, p.key1, p.key2, k.Module, k.Name, p.end)
		if nil != err {
			return err
		}
		if "" != k.KeyType {
			_, err = fmt.Fprintf(r.w, " %s%s=%s%s", p.key2, k.KeyType, k.Key, p.end)
			if nil != err {
				return err
			}
		}
		if "" != k.Key2Type {
			_, err = fmt.Fprintf(r.w, " %s%s=%s%s", p.key2, k.Key2Type, k.Key2, p.end)
			if nil != err {
				return err
			}
		}
		_, err = fmt.Fprintf(r.w, "  [%s]\n", k.ValueType)
		if nil != err {
			return err
		}
	}

	if nil != record.Value {
		s, err := value.Indent(record.Value, r.indent)
		if nil != err {
			return err
		}
		_, err = fmt.Fprintf(r.w, "%d: %sVal: %s%s%s\n", i, p.val1, p.val2, s, p.end)
		return err
	}

	if nil == record.Err {
		return nil
	}
	_, err := fmt.Fprintf(r.w, "%d: %sErr: %s%s%s\n", i, p.err1, p.err2, record.Err, p.end)
	if nil != err {
		return err
	}
	if r.ascii {
		prefix := fmt.Sprintf("%d: %sRaw: %s", i, p.val1, p.val2)
		return hexDump(r.w, prefix, p.end, record.RawValue)
	}
	_, err = fmt.Fprintf(r.w, "%d: %sRaw: %s%x%s\n", i, p.val1, p.val2, record.RawValue, p.end)
	return err
}

// Summary - write the totals
func (r *TextReporter) Summary(stats Stats) error {
	_, err := fmt.Fprintf(r.w,
		"pairs: %d  decoded: %d  failed: %d  filtered: %d\n"+
			"  unknown prefix: %d  short key: %d  unrecoverable hasher: %d\n"+
			"  unknown key1 length: %d  unknown type: %d  malformed: %d  other: %d\n",
		stats.Pairs, stats.Decoded, stats.Failed(), stats.Filtered,
		stats.UnknownPrefix, stats.KeyTooShort, stats.UnrecoverableHasher,
		stats.UnknownKey1Length, stats.UnknownType, stats.Malformed, stats.Other)
	return err
}

// dump hex data with an ascii column
func hexDump(w io.Writer, prefix string, suffix string, data []byte) error {
	const bytesPerLine = 32
	address := 0
	for i := 0; i < len(data); i += bytesPerLine {
		line := fmt.Sprintf("%s%04x  ", prefix, address)
		address += bytesPerLine
		for j := 0; j < bytesPerLine; j += 1 {
			if bytesPerLine/2 == j {
				line += " "
			}
			if i+j < len(data) {
				line += fmt.Sprintf("%02x ", data[i+j])
			} else {
				line += "   "
			}
		}
		line += " |"
	ascii_loop:
		for j := 0; j < bytesPerLine; j += 1 {
			if i+j >= len(data) {
				break ascii_loop
			}
			c := data[i+j]
			if c < 32 || c >= 127 {
				c = '.'
			}
			line += string(rune(c))
		}
		if _, err := fmt.Fprintf(w, "%s|%s\n", line, suffix); nil != err {
			return err
		}
	}
	return nil
}
