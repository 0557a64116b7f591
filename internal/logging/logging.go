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

// Package logging provides the library's structured logging. It is
// silent by default (a no-op core) so embedding the parser in a CLI or
// service never produces unsolicited output; callers that want
// pipeline-stage tracing call SetLevel or SetLogger.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category tags which subsystem emitted a log line, mirroring the
// per-subsystem category convention rather than one undifferentiated
// logger.
type Category string

const (
	CategoryPreprocess Category = "preprocess"
	CategoryTokenizer  Category = "tokenizer"
	CategoryParser     Category = "parser"
	CategoryRecovery   Category = "recovery"
	CategoryLimits     Category = "limits"
)

var (
	mu      sync.RWMutex
	base    = zap.NewNop()
	loggers = map[Category]*zap.SugaredLogger{}
)

// SetLogger replaces the backing zap.Logger for all categories, for
// callers that want the library's diagnostics folded into their own
// log sink/format.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	loggers = map[Category]*zap.SugaredLogger{}
}

// SetLevel installs a development console logger at the given level,
// a convenience for local debugging without constructing a zap.Config.
func SetLevel(level zapcore.Level) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return
	}
	SetLogger(l)
}

// Get returns the logger for a category, creating and caching a
// "category"-tagged sub-logger on first use.
func Get(cat Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[cat]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[cat]; ok {
		return l
	}
	l := base.With(zap.String("category", string(cat))).Sugar()
	loggers[cat] = l
	return l
}
