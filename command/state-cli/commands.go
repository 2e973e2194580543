// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/statedecoder/hasher"
	"github.com/bitmark-inc/statedecoder/storage"
	"github.com/bitmark-inc/statedecoder/value"
)

func runDecodeKey(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	key, err := checkKey(c.Args().Get(0))
	if nil != err {
		return err
	}

	s, err := m.session()
	if nil != err {
		return err
	}

	tk, err := s.DecodeKey(key)
	if nil != err {
		return err
	}
	return printJson(m.w, tk)
}

func runDecodeValue(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	raw, err := checkValue(c.Args().Get(0))
	if nil != err {
		return err
	}

	typeName := c.String("type")
	key := c.String("key")
	if ("" == typeName) == ("" == key) {
		return ErrSelectOne
	}

	s, err := m.session()
	if nil != err {
		return err
	}
	snapshot := s.Snapshot()

	if "" != key {
		tk, err := snapshot.DecodeKey(key)
		if nil != err {
			return err
		}
		typeName = tk.ValueType
	}
	if m.verbose {
		fmt.Fprintf(m.e, "type: %s  normalised: %s\n", typeName, snapshot.Normaliser.Normalise(typeName))
	}

	v, err := snapshot.Registry.Decode(typeName, raw)
	if nil != err {
		return err
	}
	text, err := value.Indent(v, 2)
	if nil != err {
		return err
	}
	fmt.Fprintf(m.w, "%s\n", text)
	return nil
}

func runDecode(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	key, err := checkKey(c.Args().Get(0))
	if nil != err {
		return err
	}
	raw, err := checkValue(c.Args().Get(1))
	if nil != err {
		return err
	}

	s, err := m.session()
	if nil != err {
		return err
	}

	decoded, err := s.Decode(key, raw)
	if nil != err {
		return err
	}
	return printJson(m.w, decoded)
}

func runTypes(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	s, err := m.session()
	if nil != err {
		return err
	}
	snapshot := s.Snapshot()

	names := snapshot.Registry.Names()
	if c.Bool("missing") {
		names = snapshot.MissingDecoders()
	}
	for _, name := range names {
		fmt.Fprintf(m.w, "%s\n", name)
	}
	return nil
}

func runCheckKey1(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	s, err := m.session()
	if nil != err {
		return err
	}

	missing := s.Snapshot().MissingKeyLengths()
	for _, name := range missing {
		fmt.Fprintf(m.w, "%s\n", name)
	}
	if 0 != len(missing) {
		return fmt.Errorf("%d double map key1 types have no length", len(missing))
	}
	if m.verbose {
		fmt.Fprintf(m.e, "all double map key1 types have a length\n")
	}
	return nil
}

func runPrefix(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	module := c.Args().Get(0)
	if "" == module {
		return ErrRequiredModule
	}
	prefix := hasher.HexPrefix(module)
	if entry := c.Args().Get(1); "" != entry {
		prefix += hasher.HexPrefix(entry)
	}
	fmt.Fprintf(m.w, "0x%s\n", prefix)
	return nil
}

func runAccountKey(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	text := c.Args().Get(0)
	if "" == text {
		return ErrRequiredAddress
	}
	address, err := value.ParseAddress(text)
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "format: %d  id: %x\n", address.Format, address.ID)
	}

	key := hasher.HexPrefix(c.String("module")) + hasher.HexPrefix(c.String("entry")) +
		hex.EncodeToString(hasher.Hash(hasher.Blake2_128Concat, address.ID[:]))
	fmt.Fprintf(m.w, "0x%s\n", key)
	return nil
}

func runImport(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	fileName, err := checkFileName(c.String("file"))
	if nil != err {
		return err
	}

	data, err := os.ReadFile(fileName)
	if nil != err {
		return err
	}
	elements, err := storage.ParseStateJSON(data)
	if nil != err {
		return err
	}

	database := m.config.Database.Name
	if d := c.String("database"); "" != d {
		database = d
	}
	if m.verbose {
		fmt.Fprintf(m.e, "import: %d pairs into: %s\n", len(elements), database)
	}

	if err := storage.Initialise(database, storage.ReadWrite); nil != err {
		return err
	}
	defer storage.Finalise()

	info := map[string]string{
		storage.InfoSchema: m.config.Schema.File,
	}
	if b := c.String("block"); "" != b {
		info[storage.InfoBlock] = b
	}
	if v := c.String("spec-version"); "" != v {
		info[storage.InfoSpecVersion] = v
	}

	if err := storage.Import(elements, info); nil != err {
		return err
	}
	fmt.Fprintf(m.w, "imported: %d\n", len(elements))
	return nil
}
