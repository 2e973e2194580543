// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/statedecoder/configuration"
	"github.com/bitmark-inc/statedecoder/session"
	"github.com/bitmark-inc/statedecoder/value"
)

type metadata struct {
	config  *configuration.Configuration
	log     *logger.L
	current *session.Session
	verbose bool
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "state-cli"
	app.Usage = "decode substrate storage keys and values"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config-file, c",
			Value: "",
			Usage: " Lua configuration `FILE`",
		},
		cli.StringFlag{
			Name:  "schema, m",
			Value: "",
			Usage: " runtime metadata schema `FILE` [overrides configuration]",
		},
		cli.StringFlag{
			Name:  "ss58, f",
			Value: "",
			Usage: " SS58 address `FORMAT` [overrides configuration]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "decode-key",
			Usage:     "split a storage key into its parts",
			ArgsUsage: "*KEY\n   (* = required)",
			Action:    runDecodeKey,
		},
		{
			Name:      "decode-value",
			Usage:     "decode a SCALE value by type name or by the key it is stored under",
			ArgsUsage: "*HEX\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "type, t",
					Value: "",
					Usage: "+value type `NAME`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "+storage `KEY` giving the value type",
				},
			},
			Action: runDecodeValue,
		},
		{
			Name:      "decode",
			Usage:     "decode a storage key and its value",
			ArgsUsage: "*KEY *HEX\n   (* = required)",
			Action:    runDecode,
		},
		{
			Name:  "types",
			Usage: "list registered value decoders",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "missing, M",
					Usage: " list schema value types that have no decoder",
				},
			},
			Action: runTypes,
		},
		{
			Name:   "check-key1",
			Usage:  "list double map key1 types that have no known length",
			Action: runCheckKey1,
		},
		{
			Name:      "prefix",
			Usage:     "compute the storage prefix of a module or entry",
			ArgsUsage: "*MODULE [ENTRY]\n   (* = required)",
			Action:    runPrefix,
		},
		{
			Name:      "account-key",
			Usage:     "storage key of an account in a Blake2_128Concat map",
			ArgsUsage: "*ADDRESS\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "module, M",
					Value: "System",
					Usage: " module `NAME`",
				},
				cli.StringFlag{
					Name:  "entry, E",
					Value: "Account",
					Usage: " entry `NAME`",
				},
			},
			Action: runAccountKey,
		},
		{
			Name:      "import",
			Usage:     "load a JSON state snapshot into the database",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "file, F",
					Value: "",
					Usage: "*JSON state or raw chain spec `FILE`",
				},
				cli.StringFlag{
					Name:  "database, d",
					Value: "",
					Usage: " leveldb `DIRECTORY` [overrides configuration]",
				},
				cli.StringFlag{
					Name:  "block, b",
					Value: "",
					Usage: " block `NUMBER` or hash of the snapshot",
				},
				cli.StringFlag{
					Name:  "spec-version, s",
					Value: "",
					Usage: " runtime spec `VERSION` of the snapshot",
				},
			},
			Action: runImport,
		},
		{
			Name:  "watch",
			Usage: "decode \"KEY [HEX]\" lines from stdin as JSON, reloading the schema when it changes",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "keys, k",
					Usage: " only decode keys",
				},
			},
			Action: runWatch,
		},
		{
			Name:   "version",
			Usage:  "display state-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		w := c.App.Writer
		verbose := c.GlobalBool("verbose")

		// to suppress reading config file if certain commands
		command := c.Args().Get(0)
		if "version" == command || "help" == command || "" == command {
			return nil
		}

		config := configuration.New()
		logging := logger.Configuration{
			Directory: os.TempDir(),
			File:      app.Name + ".log",
			Size:      1048576,
			Count:     2,
			Console:   false,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		}

		if file := c.GlobalString("config-file"); "" != file {
			if verbose {
				fmt.Fprintf(e, "reading config file: %s\n", file)
			}
			var err error
			config, err = configuration.GetConfiguration(file, nil)
			if nil != err {
				return err
			}
			logging = config.Logging
		}

		if schema := c.GlobalString("schema"); "" != schema {
			config.Schema.File = schema
		}
		if s := c.GlobalString("ss58"); "" != s {
			f, err := strconv.ParseUint(s, 10, 16)
			if nil != err || !value.ValidFormat(uint16(f)) {
				return fmt.Errorf("invalid ss58 format: %q", s)
			}
			config.Decoder.SS58Format = uint16(f)
		}

		if err := logger.Initialise(logging); nil != err {
			return err
		}

		c.App.Metadata["config"] = &metadata{
			config:  config,
			log:     logger.New(app.Name),
			verbose: verbose,
			e:       e,
			w:       w,
		}
		return nil
	}

	app.After = func(c *cli.Context) error {
		if _, ok := c.App.Metadata["config"].(*metadata); ok {
			logger.Finalise()
		}
		return nil
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

// build the decoding session on first use
func (m *metadata) session() (*session.Session, error) {
	if nil != m.current {
		return m.current, nil
	}
	if m.verbose {
		fmt.Fprintf(m.e, "schema: %s\n", m.config.Schema.File)
	}
	config, err := m.config.Load(m.config.Schema.File)
	if nil != err {
		return nil, err
	}
	s, err := session.New(config, m.log)
	if nil != err {
		return nil, err
	}
	m.current = s
	return s, nil
}
