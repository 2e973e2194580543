// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/statedecoder/background"
	"github.com/bitmark-inc/statedecoder/dump"
	"github.com/bitmark-inc/statedecoder/schemawatch"
)

func runWatch(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	s, err := m.session()
	if nil != err {
		return err
	}

	watcher, err := schemawatch.New(m.config.Schema.File, s, m.config.Load, m.config.SettleTime(), m.log)
	if nil != err {
		return err
	}

	processes := background.Start(background.Processes{watcher}, nil)
	defer processes.Stop()

	source := dump.NewLineSource(os.Stdin)
	options := dump.Options{
		KeysOnly: c.Bool("keys"),
	}

	// the session always decodes with the latest snapshot
	done := make(chan error, 1)
	go func() {
		_, err := dump.Run(source, s, dump.NewJSONReporter(m.w), options, m.log)
		done <- err
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	select {
	case err = <-done:
	case sig := <-ch:
		m.log.Infof("received signal: %v", sig)
	}

	m.log.Infof("reloads: %d  failed reloads: %d  skipped lines: %d",
		watcher.Reloads(), watcher.Failures(), source.Skipped())
	return err
}
