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

package jsonshiatsu

import (
	"io"

	"github.com/JostBrand/jsonshiatsu/config"
	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/internal/logging"
	"github.com/JostBrand/jsonshiatsu/limits"
	"github.com/JostBrand/jsonshiatsu/parser"
	"github.com/JostBrand/jsonshiatsu/preprocess"
	"github.com/JostBrand/jsonshiatsu/streaming"
	"github.com/JostBrand/jsonshiatsu/value"
)

// Option customizes a single Loads/Load/Parse call.
type Option func(*options)

type options struct {
	cfg   config.ParseConfig
	hooks parser.Hooks
}

func defaultOptions() options {
	return options{cfg: config.Aggressive().Resolve()}
}

// WithConfig overrides the default (Aggressive) ParseConfig.
func WithConfig(cfg config.ParseConfig) Option {
	return func(o *options) { o.cfg = cfg.Resolve() }
}

// WithHooks installs number/object post-processing hooks, the one
// third-party extension point the core pipeline exposes (see the
// Non-goals: hooks are specified only at this interface boundary).
func WithHooks(h parser.Hooks) Option {
	return func(o *options) { o.hooks = h }
}

var pipeline = preprocess.New()

// run executes the full control flow for one call: size check,
// preprocessing, tokenizing, strict parse, with the fallback-to-the-raw-
// text retry from §7 when the first attempt fails for a non-security
// reason.
func run(callID streaming.CallID, text string, o options) (value.Value, []diag.Diagnostic, error) {
	log := logging.Get(logging.CategoryParser)

	v := limits.New(o.cfg.Limits)
	if err := v.ValidateInputSize(len(text)); err != nil {
		return value.Value{}, nil, err
	}

	pre, preDiags, err := pipeline.Run(text, o.cfg.Toggles, v)
	if err != nil {
		return value.Value{}, preDiags, err
	}

	val, err := parseText(pre, v, o)
	if err == nil {
		return val, preDiags, nil
	}
	if _, isSecurity := err.(*limits.SecurityFault); isSecurity {
		return value.Value{}, preDiags, err
	}

	if !o.cfg.Behavior.FallbackToStrict {
		return value.Value{}, preDiags, err
	}

	log.Debugw("preprocessed parse failed, retrying against raw text", "call_id", string(callID))
	fallbackV := limits.New(o.cfg.Limits)
	val, fallbackErr := parseText(text, fallbackV, o)
	if fallbackErr == nil {
		return val, preDiags, nil
	}
	return value.Value{}, preDiags, err
}

func parseText(text string, v *limits.Validator, o options) (value.Value, error) {
	p, err := parser.New(text, v, o.cfg, o.hooks)
	if err != nil {
		return value.Value{}, err
	}
	return p.ParseStrict()
}

// Loads parses src, applying the library's default repair pipeline,
// and returns the resulting value tree or a *JsonDecodeError.
func Loads(src string, opts ...Option) (value.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	callID := streaming.NewCallID()
	val, diags, err := run(callID, src, o)
	if err != nil {
		return value.Value{}, newDecodeError(err, diags)
	}
	return val, nil
}

// Load behaves like Loads but reads its input from r first, detecting
// and transparently decompressing a gzipped body and, when r's size is
// known and at or above Reporting.StreamingThreshold, switching to a
// larger read buffer (see package streaming).
func Load(r io.Reader, opts ...Option) (value.Value, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	callID := streaming.NewCallID()
	text, err := streaming.Read(r, callID, o.cfg.Reporting.StreamingThreshold)
	if err != nil {
		return value.Value{}, newDecodeError(err, nil)
	}
	val, diags, err := run(callID, text, o)
	if err != nil {
		return value.Value{}, newDecodeError(err, diags)
	}
	return val, nil
}
