// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package schemawatch - rebuild a session when its schema file changes
//
// The directory holding the schema is watched rather than the file so
// that editors which save by renaming a new file into place are seen.
// Bursts of events are merged: the reload happens once the file has
// been quiet for the settle time.
package schemawatch

import (
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"

	"github.com/bitmark-inc/statedecoder/fault"
	"github.com/bitmark-inc/statedecoder/session"
	"github.com/bitmark-inc/statedecoder/util"
)

// DefaultSettle - quiet time before a reload
const DefaultSettle = 500 * time.Millisecond

// Loader - produce a complete configuration from the current file
type Loader func(fileName string) (session.Config, error)

// Reloader - the part of a session the watcher drives
type Reloader interface {
	Reload(config session.Config) error
}

// Watcher - background process watching one schema file
type Watcher struct {
	reloads  uint64 // first for 64 bit alignment
	failures uint64

	log      *logger.L
	fileName string
	target   Reloader
	load     Loader
	settle   time.Duration
	watcher  *fsnotify.Watcher
}

// New - create a watcher for an existing file
//
// zero settle selects DefaultSettle
func New(fileName string, target Reloader, load Loader, settle time.Duration, log *logger.L) (*Watcher, error) {
	if nil == log {
		return nil, fault.ErrInvalidLoggerChannel
	}
	if nil == target || nil == load {
		return nil, fault.ErrNotInitialised
	}

	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}
	if !util.IsRegularFile(filePath) {
		log.Errorf("schema file: %q  is not a regular file", filePath)
		return nil, fault.ErrMissingSchemaFile
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		log.Errorf("new watcher error: %s", err)
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(filePath)); nil != err {
		log.Errorf("watch directory of: %q  error: %s", filePath, err)
		watcher.Close()
		return nil, err
	}

	if 0 == settle {
		settle = DefaultSettle
	}

	return &Watcher{
		log:      log,
		fileName: filePath,
		target:   target,
		load:     load,
		settle:   settle,
		watcher:  watcher,
	}, nil
}

// FileName - absolute path of the watched file
func (w *Watcher) FileName() string {
	return w.fileName
}

// Reloads - count of successful reloads
func (w *Watcher) Reloads() uint64 {
	return atomic.LoadUint64(&w.reloads)
}

// Failures - count of reloads that kept the previous snapshot
func (w *Watcher) Failures() uint64 {
	return atomic.LoadUint64(&w.failures)
}

// Run - process events until shutdown, then release the watcher
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	w.log.Infof("watching: %q", w.fileName)

	var settled <-chan time.Time
loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Clean(event.Name) != w.fileName {
				continue loop
			}
			w.log.Debugf("file event: %v", event)
			if isRemove(event) {
				// a rename into place follows with a create
				w.log.Warnf("schema file removed: %q", w.fileName)
				continue loop
			}
			if isChange(event) {
				settled = time.After(w.settle)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			w.log.Errorf("watcher error: %s", err)

		case <-settled:
			settled = nil
			w.Reload()
		}
	}

	if err := w.watcher.Close(); nil != err {
		w.log.Errorf("close watcher error: %s", err)
	}
	w.log.Info("stopped")
}

// Reload - load the file and swap in a new snapshot
//
// on any error the current snapshot stays in use
func (w *Watcher) Reload() error {
	config, err := w.load(w.fileName)
	if nil == err {
		err = w.target.Reload(config)
	}
	if nil != err {
		atomic.AddUint64(&w.failures, 1)
		w.log.Errorf("reload: %q  error: %s", w.fileName, err)
		return err
	}
	atomic.AddUint64(&w.reloads, 1)
	w.log.Infof("reloaded: %q", w.fileName)
	return nil
}

func isRemove(event fsnotify.Event) bool {
	return event.Op&fsnotify.Remove == fsnotify.Remove ||
		event.Op&fsnotify.Rename == fsnotify.Rename
}

func isChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
