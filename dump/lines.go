// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package dump

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"
	"sync/atomic"
)

// maximum line, enough for a large runtime code blob in hex
const maximumLineLength = 16 * 1024 * 1024

// LineSource - pairs read as "KEY [VALUE]" hex text lines
//
// blank lines and lines starting with # are ignored, lines that are not
// valid hex are skipped and counted
type LineSource struct {
	skipped uint64
	r       io.Reader
}

// NewLineSource - a source reading from r
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{
		r: r,
	}
}

// Skipped - count of invalid lines
func (s *LineSource) Skipped() uint64 {
	return atomic.LoadUint64(&s.skipped)
}

// Map - call f for each pair until the reader is exhausted
func (s *LineSource) Map(f func(key []byte, value []byte) error) error {
	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maximumLineLength)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if "" == line || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) > 2 {
			atomic.AddUint64(&s.skipped, 1)
			continue
		}
		key, err := hex.DecodeString(strings.TrimPrefix(fields[0], "0x"))
		if nil != err {
			atomic.AddUint64(&s.skipped, 1)
			continue
		}
		value := []byte{}
		if 2 == len(fields) {
			value, err = hex.DecodeString(strings.TrimPrefix(fields[1], "0x"))
			if nil != err {
				atomic.AddUint64(&s.skipped, 1)
				continue
			}
		}

		if err := f(key, value); nil != err {
			return err
		}
	}
	return scanner.Err()
}
