// Copyright (C) 2024 jsonshiatsu authors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// Watcher holds the most recently loaded ParseConfig from a file on
// disk and reloads it whenever the file changes, for long-running
// services that embed the parser and want config.yaml edits to take
// effect without a restart. A failed reload keeps serving the last
// good config and reports the error on ErrC rather than panicking a
// caller mid-request.
type Watcher struct {
	path string
	cur  atomic.Pointer[ParseConfig]
	w    *fsnotify.Watcher
	ErrC chan error

	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher loads path once synchronously, then starts watching it
// for writes/renames (the usual atomic-save pattern used by editors
// and config-management tools) in a background goroutine.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := LoadYAMLFile(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path: path,
		w:    fw,
		ErrC: make(chan error, 1),
		done: make(chan struct{}),
	}
	w.cur.Store(&cfg)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := LoadYAMLFile(w.path)
			if err != nil {
				select {
				case w.ErrC <- err:
				default:
				}
				continue
			}
			w.cur.Store(&cfg)
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			select {
			case w.ErrC <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}

// Current returns the most recently loaded ParseConfig.
func (w *Watcher) Current() ParseConfig {
	return *w.cur.Load()
}

// Close stops the background watch goroutine.
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() { close(w.done) })
	return w.w.Close()
}
