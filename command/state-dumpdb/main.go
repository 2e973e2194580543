// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/statedecoder/configuration"
	"github.com/bitmark-inc/statedecoder/dump"
	"github.com/bitmark-inc/statedecoder/session"
	"github.com/bitmark-inc/statedecoder/storage"
	"github.com/bitmark-inc/statedecoder/util"
	"github.com/bitmark-inc/statedecoder/value"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "list", HasArg: getoptions.NO_ARGUMENT, Short: 'l'},
		{Long: "colour", HasArg: getoptions.NO_ARGUMENT, Short: 'g'},
		{Long: "ascii", HasArg: getoptions.NO_ARGUMENT, Short: 'a'},
		{Long: "json", HasArg: getoptions.NO_ARGUMENT, Short: 'j'},
		{Long: "keys", HasArg: getoptions.NO_ARGUMENT, Short: 'k'},
		{Long: "skip-errors", HasArg: getoptions.NO_ARGUMENT, Short: 's'},
		{Long: "file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'f'},
		{Long: "schema", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'm'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'n'},
		{Long: "module", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'M'},
		{Long: "entry", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'E'},
		{Long: "ss58", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'F'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["list"]) > 0 {

		// this will be a struct type
		poolType := reflect.TypeOf(storage.Pool)

		// print all available tags
		fmt.Printf(" tags:\n")
		for i := 0; i < poolType.NumField(); i += 1 {
			fieldInfo := poolType.Field(i)
			prefixTag := fieldInfo.Tag.Get("prefix")
			fmt.Printf("       %s → %s\n", prefixTag, fieldInfo.Name)
		}
		return
	}

	if len(options["help"]) > 0 || len(arguments) > 1 || 1 != len(options["file"]) {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--colour] [--ascii] [--json] [--keys] [--skip-errors] "+
			"[--count=N] [--module=NAME] [--entry=NAME] [--ss58=FORMAT] [--config-file=FILE] [--schema=FILE] "+
			"--file=DB [key-prefix]", program)
	}

	verbose := len(options["verbose"]) > 0

	dumpOptions := dump.Options{
		KeysOnly:   len(options["keys"]) > 0,
		SkipErrors: len(options["skip-errors"]) > 0,
	}
	if len(options["module"]) > 0 {
		dumpOptions.Module = options["module"][0]
	}
	if len(options["entry"]) > 0 {
		dumpOptions.Entry = options["entry"][0]
	}
	if len(options["count"]) > 0 {
		dumpOptions.Limit, err = strconv.Atoi(options["count"][0])
		if nil != err {
			exitwithstatus.Message("%s: convert count error: %s", program, err)
		}
		if dumpOptions.Limit < 1 {
			exitwithstatus.Message("%s: invalid count: %d", program, dumpOptions.Limit)
		}
	}

	// decoder settings from a file or built in
	config := configuration.New()
	if len(options["config-file"]) > 0 {
		config, err = configuration.GetConfiguration(options["config-file"][0], nil)
		if nil != err {
			exitwithstatus.Message("%s: configuration error: %s", program, err)
		}
	}
	if len(options["schema"]) > 0 {
		config.Schema.File = options["schema"][0]
	}
	if len(options["ss58"]) > 0 {
		f, err := strconv.ParseUint(options["ss58"][0], 10, 16)
		if nil != err || !value.ValidFormat(uint16(f)) {
			exitwithstatus.Message("%s: invalid ss58 format: %q", program, options["ss58"][0])
		}
		config.Decoder.SS58Format = uint16(f)
	}

	prefix := []byte(nil)
	if 1 == len(arguments) {
		prefix, err = hex.DecodeString(strings.TrimPrefix(arguments[0], "0x"))
		if nil != err {
			exitwithstatus.Message("%s: convert prefix error: %s", program, err)
		}
	}

	filename := options["file"][0]
	if !util.IsDatabase(filename) {
		exitwithstatus.Message("%s: database: %q is not a leveldb database", program, filename)
	}
	if verbose {
		fmt.Printf("read state from: %q  schema: %q\n", filename, config.Schema.File)
	}

	logging := logger.Configuration{
		Directory: ".",
		File:      "state-dumpdb.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if verbose {
		logging.Levels[logger.DefaultTag] = "info"
	}

	// start logging
	if err = logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	log := logger.New("state-dumpdb")

	// a database scan sees each key once so the cache would only grow
	config.Decoder.CacheExpiry = -1
	sessionConfig, err := config.Load(config.Schema.File)
	if nil != err {
		exitwithstatus.Message("%s: schema: %q  error: %s", program, config.Schema.File, err)
	}
	s, err := session.New(sessionConfig, log)
	if nil != err {
		exitwithstatus.Message("%s: decoder setup failed with error: %s", program, err)
	}

	// start of main processing
	err = storage.Initialise(filename, storage.ReadOnly)
	if nil != err {
		exitwithstatus.Message("%s: storage setup failed with error: %s", program, err)
	}
	defer storage.Finalise()

	if verbose {
		for _, name := range []string{storage.InfoBlock, storage.InfoSpecVersion, storage.InfoSchema} {
			if v, err := storage.Info(name); nil == err && "" != v {
				fmt.Printf("%s: %s\n", name, v)
			}
		}
	}

	cursor := storage.Pool.State.NewFetchCursor()
	if len(prefix) > 0 {
		cursor.SeekPrefix(prefix)
	}

	var reporter dump.Reporter
	if len(options["json"]) > 0 {
		reporter = dump.NewJSONReporter(os.Stdout)
	} else {
		reporter = dump.NewTextReporter(os.Stdout, len(options["colour"]) > 0, len(options["ascii"]) > 0)
	}

	stats, err := dump.Run(cursor, s.Snapshot(), reporter, dumpOptions, log)
	if nil != err {
		exitwithstatus.Message("%s: dump error: %s", program, err)
	}
	if stats.Failed() > 0 {
		exitwithstatus.Exit(1)
	}
}
