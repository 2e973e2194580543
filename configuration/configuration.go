// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/statedecoder/chaintypes"
	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/typename"
	"github.com/bitmark-inc/statedecoder/util"
	"github.com/bitmark-inc/statedecoder/value"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultSchemaFile   = "schema.json"
	defaultSettleMillis = 500

	defaultLevelDBDirectory = "data"
	defaultStateDatabase    = "state.leveldb"

	defaultCacheExpiry = 300 // seconds

	defaultLogDirectory = "log"
	defaultLogFile      = "statedecoder.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// SchemaType - runtime metadata source
type SchemaType struct {
	File   string `gluamapper:"file" json:"file"`
	Watch  bool   `gluamapper:"watch" json:"watch"`
	Settle int    `gluamapper:"settle" json:"settle"` // milliseconds
}

// DatabaseType - local state snapshot
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// DecoderType - decoding tables
//
// placeholders replace the built in list when given, key1 lengths are
// merged over the built in table
type DecoderType struct {
	SS58Format   uint16          `gluamapper:"ss58_format" json:"ss58_format"`
	Placeholders []typename.Rule `gluamapper:"placeholders" json:"placeholders"`
	Key1Lengths  map[string]int  `gluamapper:"key1_lengths" json:"key1_lengths"`
	CacheExpiry  int             `gluamapper:"cache_expiry" json:"cache_expiry"` // seconds, negative disables
}

// Configuration - everything read from the file
type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	Schema        SchemaType           `gluamapper:"schema" json:"schema"`
	Database      DatabaseType         `gluamapper:"database" json:"database"`
	Decoder       DecoderType          `gluamapper:"decoder" json:"decoder"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// SettleTime - the schema settle time as a duration
func (c *Configuration) SettleTime() time.Duration {
	return time.Duration(c.Schema.Settle) * time.Millisecond
}

// CacheExpiry - the key cache expiry as a duration
func (c *Configuration) CacheExpiry() time.Duration {
	return time.Duration(c.Decoder.CacheExpiry) * time.Second
}

// New - the built in configuration, for use without a file
func New() *Configuration {
	options := newConfiguration()
	options.setDecoderDefaults()
	return options
}

func newConfiguration() *Configuration {
	options := &Configuration{
		DataDirectory: defaultDataDirectory,

		Schema: SchemaType{
			File:   defaultSchemaFile,
			Settle: defaultSettleMillis,
		},

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultStateDatabase,
		},

		Decoder: DecoderType{
			SS58Format:  value.SubstrateFormat,
			CacheExpiry: defaultCacheExpiry,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    make(map[string]string, len(defaultLogLevels)),
		},
	}
	for tag, level := range defaultLogLevels {
		options.Logging.Levels[tag] = level
	}

	return options
}

// fill in the decoder tables not given by the file
func (c *Configuration) setDecoderDefaults() {
	if 0 == len(c.Decoder.Placeholders) {
		c.Decoder.Placeholders = chaintypes.DefaultRules()
	}
	lengths := chaintypes.DefaultKeyLengths()
	for name, n := range c.Decoder.Key1Lengths {
		lengths[name] = n
	}
	c.Decoder.Key1Lengths = lengths
}

// GetConfiguration - will read decode and verify the configuration
func GetConfiguration(configurationFileName string, variables map[string]string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := newConfiguration()

	if err := ParseConfigurationFile(configurationFileName, options, variables); err != nil {
		return nil, err
	}

	if !value.ValidFormat(options.Decoder.SS58Format) {
		return nil, fmt.Errorf("%w: %d", fault.ErrInvalidSS58Format, options.Decoder.SS58Format)
	}

	options.setDecoderDefaults()

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("%w: %q", fault.ErrInvalidDataDirectory, options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", fault.ErrInvalidDataDirectory, options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Schema.File,
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// fail if any of these are not simple file names i.e. must not contain path seperator
	// then add the correct directory prefix, file item is first and corresponding directory is second
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("%w: %q", fault.ErrInvalidFileName, *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0o700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}
