// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/bitmark-inc/statedecoder/fault"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// names in the info pool
const (
	InfoBlock       = "block"
	InfoSpecVersion = "spec_version"
	InfoSchema      = "schema"
)

// a raw chain spec, only the initial state is used
type chainSpec struct {
	Genesis struct {
		Raw struct {
			Top map[string]string `json:"top"`
		} `json:"raw"`
	} `json:"genesis"`
}

// ParseStateJSON - hex key → hex value pairs in sorted key order
//
// accepts either a plain JSON object of pairs or a raw chain spec, in
// which case genesis.raw.top is used
func ParseStateJSON(data []byte) ([]Element, error) {
	var top map[string]jsoniter.RawMessage
	if err := json.Unmarshal(data, &top); nil != err {
		return nil, err
	}

	var pairs map[string]string
	if _, ok := top["genesis"]; ok {
		var spec chainSpec
		if err := json.Unmarshal(data, &spec); nil != err {
			return nil, err
		}
		pairs = spec.Genesis.Raw.Top
	} else {
		if err := json.Unmarshal(data, &pairs); nil != err {
			return nil, err
		}
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	elements := make([]Element, 0, len(pairs))
	for _, k := range keys {
		key, err := decodeHex(k)
		if nil != err {
			return nil, fmt.Errorf("%w: key: %q", err, k)
		}
		value, err := decodeHex(pairs[k])
		if nil != err {
			return nil, fmt.Errorf("%w: value of: %q", err, k)
		}
		elements = append(elements, Element{Key: key, Value: value})
	}
	return elements, nil
}

// Import - write state pairs and info fields in one batch
func Import(elements []Element, info map[string]string) error {
	batch, err := NewBatch()
	if nil != err {
		return err
	}

	for _, e := range elements {
		batch.Put(Pool.State, e.Key, e.Value)
	}
	for name, text := range info {
		batch.Put(Pool.Info, []byte(name), []byte(text))
	}

	poolData.log.Infof("import: %d pairs  %d info fields", len(elements), len(info))
	return batch.Commit()
}

// Info - a text field from the info pool, "" if not present
func Info(name string) (string, error) {
	value, err := Pool.Info.Get([]byte(name))
	if nil != err {
		return "", err
	}
	return string(value), nil
}

func decodeHex(s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if nil != err {
		return nil, fault.ErrInvalidHex
	}
	return b, nil
}
