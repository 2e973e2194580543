// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package util - path checks shared by the commands
package util

import (
	"os"
	"path/filepath"
)

// the file every leveldb database directory holds
const databaseMarker = "CURRENT"

// EnsureAbsolute - relative paths are taken from directory
func EnsureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// IsRegularFile - true for an existing file that is not a directory,
// symlinks are followed
func IsRegularFile(name string) bool {
	info, err := os.Stat(name)
	if nil != err {
		return false
	}
	return info.Mode().IsRegular()
}

// IsDatabase - true for a directory that looks like a leveldb database
func IsDatabase(name string) bool {
	info, err := os.Stat(name)
	if nil != err || !info.IsDir() {
		return false
	}
	return IsRegularFile(filepath.Join(name, databaseMarker))
}
