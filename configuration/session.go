// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"github.com/bitmark-inc/statedecoder/chaintypes"
	"github.com/bitmark-inc/statedecoder/metadata"
	"github.com/bitmark-inc/statedecoder/registry"
	"github.com/bitmark-inc/statedecoder/session"
)

// Load - read a schema file and combine it with the decoder settings
//
// has the signature of a schema watcher loader so that changes to the
// file are picked up with the same settings
func (c *Configuration) Load(schemaFile string) (session.Config, error) {
	schema, err := metadata.LoadFile(schemaFile)
	if nil != err {
		return session.Config{}, err
	}

	options := chaintypes.Options{
		SS58Format: c.Decoder.SS58Format,
	}
	expiry := c.CacheExpiry()
	if 0 == expiry {
		// zero in the file means no caching, zero in a session means the default
		expiry = -1
	}

	return session.Config{
		Schema:     schema,
		Rules:      c.Decoder.Placeholders,
		KeyLengths: c.Decoder.Key1Lengths,
		Register: func(r *registry.Registry) error {
			return chaintypes.Register(r, options)
		},
		CacheExpiry: expiry,
	}, nil
}
