// Golang port of Overleaf
// Copyright (C) 2024 Jakob Ackermann <das7pad@outlook.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/das7pad/less-go/pkg/errors"
)

// watcher rebuilds inputs when one of their files changes.
type watcher struct {
	b    *builder
	w    *fsnotify.Watcher
	dirs map[string]bool
	// dependents maps a file to the inputs importing it.
	dependents map[string]map[string]bool
}

func newWatcher(b *builder) (*watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Tag(err, "create watcher")
	}
	return &watcher{
		b:          b,
		w:          w,
		dirs:       make(map[string]bool),
		dependents: make(map[string]map[string]bool),
	}, nil
}

func (w *watcher) Close() error {
	return w.w.Close()
}

func abs(p string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return filepath.Clean(p)
}

// track records the files of results. fsnotify watches directories, so
// editors replacing files on save are picked up.
func (w *watcher) track(results []result) error {
	for _, r := range results {
		for file, inputs := range w.dependents {
			delete(inputs, r.input)
			if len(inputs) == 0 {
				delete(w.dependents, file)
			}
		}
		files := append([]string{r.input}, r.imports...)
		for _, f := range files {
			f = abs(f)
			if w.dependents[f] == nil {
				w.dependents[f] = make(map[string]bool)
			}
			w.dependents[f][r.input] = true
			dir := filepath.Dir(f)
			if w.dirs[dir] {
				continue
			}
			if err := w.w.Add(dir); err != nil {
				return errors.Tag(err, "watch "+dir)
			}
			w.dirs[dir] = true
		}
	}
	return nil
}

func (w *watcher) affected(file string) []string {
	var out []string
	for input := range w.dependents[abs(file)] {
		out = append(out, input)
	}
	return out
}

func (w *watcher) Run(ctx context.Context, inputs []string) error {
	results, _ := w.b.buildAll(inputs)
	if err := w.track(results); err != nil {
		return err
	}
	pending := make(map[string]bool)
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.b.logger.Warn("watch", slog.String("err", err.Error()))
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) {
				continue
			}
			affected := w.affected(ev.Name)
			if len(affected) == 0 {
				continue
			}
			w.b.logger.Debug("change", slog.String("file", ev.Name))
			for _, input := range affected {
				pending[input] = true
			}
			timer.Reset(w.b.cfg.Debounce)
		case <-timer.C:
			batch := make([]string, 0, len(pending))
			for _, input := range inputs {
				if pending[input] {
					batch = append(batch, input)
				}
			}
			clear(pending)
			results, _ = w.b.buildAll(batch)
			if err := w.track(results); err != nil {
				return err
			}
		}
	}
}
