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
	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/limits"
	"github.com/JostBrand/jsonshiatsu/parser"
	"github.com/JostBrand/jsonshiatsu/value"
)

// PartialResult is the public shape of parser.PartialParseResult,
// re-exported so callers of this package never need to import the
// internal parser package directly.
type PartialResult = parser.PartialParseResult

// RecoveryLevel is the public alias for parser.RecoveryLevel.
type RecoveryLevel = parser.RecoveryLevel

const (
	Strict     = parser.Strict
	SkipFields = parser.SkipFields
	BestEffort = parser.BestEffort
	ExtractAll = parser.ExtractAll
)

// ParsePartial runs the preprocessing pipeline and then the tolerant
// parser at the given recovery level, returning whatever could be
// recovered along with every Diagnostic produced. A *SecurityFault
// still propagates as an error: resource limits are never relaxed by
// a more permissive recovery level (see §4.4/§7: Security faults
// bypass recovery).
func ParsePartial(src string, level RecoveryLevel, opts ...Option) (PartialResult, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	v := limits.New(o.cfg.Limits)
	if err := v.ValidateInputSize(len(src)); err != nil {
		return PartialResult{}, err
	}
	pre, preDiags, err := pipeline.Run(src, o.cfg.Toggles, v)
	if err != nil {
		return PartialResult{}, err
	}

	p, err := parser.New(pre, v, o.cfg, o.hooks)
	if err != nil {
		return PartialResult{}, err
	}
	result, err := p.ParsePartial(level)
	if err != nil {
		return PartialResult{}, err
	}
	result.Warnings = append(preDiags, result.Warnings...)
	return result, nil
}

// ExtractValidData is a convenience wrapper over ParsePartial(ExtractAll):
// it returns only the recovered value tree, discarding diagnostics,
// for a caller that just wants "whatever could be salvaged."
func ExtractValidData(src string, opts ...Option) (value.Value, error) {
	result, err := ParsePartial(src, ExtractAll, opts...)
	if err != nil {
		return value.Value{}, err
	}
	if result.Value == nil {
		return value.Value{}, nil
	}
	return *result.Value, nil
}

// ParseWithFallback tries Loads first; on any non-security failure it
// falls back to ParsePartial at the given level, returning whatever
// value the partial parser could recover alongside every Diagnostic it
// collected (the caller decides, from the Diagnostics, whether a
// warnings-only recovery is acceptable or should be treated as a hard
// failure). A *SecurityFault from either attempt still propagates
// immediately.
func ParseWithFallback(src string, level RecoveryLevel, opts ...Option) (value.Value, []diag.Diagnostic, error) {
	val, err := Loads(src, opts...)
	if err == nil {
		return val, nil, nil
	}
	var fault *limits.SecurityFault
	if asSecurityFault(err, &fault) {
		return value.Value{}, nil, err
	}

	result, perr := ParsePartial(src, level, opts...)
	if perr != nil {
		return value.Value{}, nil, perr
	}
	diags := append(append([]diag.Diagnostic(nil), result.Errors...), result.Warnings...)
	if result.Value == nil {
		return value.Value{}, diags, err
	}
	return *result.Value, diags, nil
}

func asSecurityFault(err error, target **limits.SecurityFault) bool {
	de, ok := err.(*JsonDecodeError)
	if !ok {
		return false
	}
	sf, ok := de.Unwrap().(*limits.SecurityFault)
	if !ok {
		return false
	}
	*target = sf
	return true
}
