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

// Package config holds the ParseConfig surface: resource limits,
// preprocessing toggles, behavior flags and reporting knobs, plus the
// conservative/aggressive factory presets.
package config

import "github.com/JostBrand/jsonshiatsu/limits"

// Toggles enables or disables preprocessing steps of the preprocessor's
// ordered contract. The mapping is not one-to-one: NormalizeQuotes
// gates quote normalization and both unquoted-key and unquoted-value
// quoting, content extraction runs when either ExtractFirstJSON or
// RemoveTrailingText is set, structure repair when either
// HandleIncompleteJSON or HandleSparseArrays is set, and whitespace
// normalization always runs (see preprocess.New).
type Toggles struct {
	ExtractFromMarkdown   bool
	RemoveComments        bool
	UnwrapFunctionCalls   bool
	ExtractFirstJSON      bool
	RemoveTrailingText    bool
	NormalizeQuotes       bool
	NormalizeBooleanNull  bool
	FixUnescapedStrings   bool
	HandleIncompleteJSON  bool
	HandleSparseArrays    bool
}

// Behavior holds policy flags orthogonal to individual preprocessing
// steps.
type Behavior struct {
	FallbackToStrict    bool
	AllowDuplicateKeys  bool
	Aggressive          bool
}

// Reporting controls how much detail diagnostics carry and where the
// streaming/non-streaming boundary sits.
type Reporting struct {
	IncludePosition     bool
	IncludeContext      bool
	MaxErrorContext     int
	StreamingThreshold  int
}

// ParseConfig is the full configuration surface exposed to callers,
// combining resource limits, preprocessing toggles, behavior flags and
// reporting knobs.
type ParseConfig struct {
	Limits    limits.Limits
	Toggles   Toggles
	Behavior  Behavior
	Reporting Reporting
}

// allToggles returns a Toggles value with every step enabled, used by
// both the Aggressive preset and Behavior.Aggressive's "enable
// everything" shorthand.
func allToggles() Toggles {
	return Toggles{
		ExtractFromMarkdown:  true,
		RemoveComments:       true,
		UnwrapFunctionCalls:  true,
		ExtractFirstJSON:     true,
		RemoveTrailingText:   true,
		NormalizeQuotes:      true,
		NormalizeBooleanNull: true,
		FixUnescapedStrings:  true,
		HandleIncompleteJSON: true,
		HandleSparseArrays:   true,
	}
}

func defaultReporting() Reporting {
	return Reporting{
		IncludePosition:    true,
		IncludeContext:     true,
		MaxErrorContext:    40,
		StreamingThreshold: 8 * 1024 * 1024,
	}
}

// Conservative returns the preset with all repair toggles off except
// markdown extraction, comment removal and quote normalization — the
// minimum needed to accept common copy-paste artifacts without
// guessing at structural repairs.
func Conservative() ParseConfig {
	return ParseConfig{
		Limits: limits.Default(),
		Toggles: Toggles{
			ExtractFromMarkdown: true,
			RemoveComments:      true,
			NormalizeQuotes:     true,
		},
		Behavior:  Behavior{FallbackToStrict: true},
		Reporting: defaultReporting(),
	}
}

// Aggressive returns the preset with every repair toggle enabled. This
// is the default preset used by Loads when the caller does not pass a
// config.
func Aggressive() ParseConfig {
	return ParseConfig{
		Limits:    limits.Default(),
		Toggles:   allToggles(),
		Behavior:  Behavior{FallbackToStrict: true, Aggressive: true},
		Reporting: defaultReporting(),
	}
}

// Resolve normalizes c: if Behavior.Aggressive is set, every toggle is
// forced on (the "aggressive" shorthand), and any zero-valued Limits
// field falls back to the library default so a caller that overrides
// one field doesn't accidentally disable every other bound.
func (c ParseConfig) Resolve() ParseConfig {
	if c.Behavior.Aggressive {
		c.Toggles = allToggles()
	}
	d := limits.Default()
	if c.Limits.MaxInputSize == 0 {
		c.Limits.MaxInputSize = d.MaxInputSize
	}
	if c.Limits.MaxStringLength == 0 {
		c.Limits.MaxStringLength = d.MaxStringLength
	}
	if c.Limits.MaxNumberLength == 0 {
		c.Limits.MaxNumberLength = d.MaxNumberLength
	}
	if c.Limits.MaxPreprocessingIterations == 0 {
		c.Limits.MaxPreprocessingIterations = d.MaxPreprocessingIterations
	}
	if c.Limits.MaxNestingDepth == 0 {
		c.Limits.MaxNestingDepth = d.MaxNestingDepth
	}
	if c.Limits.MaxObjectKeys == 0 {
		c.Limits.MaxObjectKeys = d.MaxObjectKeys
	}
	if c.Limits.MaxArrayItems == 0 {
		c.Limits.MaxArrayItems = d.MaxArrayItems
	}
	if c.Limits.MaxTotalItems == 0 {
		c.Limits.MaxTotalItems = d.MaxTotalItems
	}
	if c.Reporting.MaxErrorContext == 0 {
		c.Reporting.MaxErrorContext = defaultReporting().MaxErrorContext
	}
	if c.Reporting.StreamingThreshold == 0 {
		c.Reporting.StreamingThreshold = defaultReporting().StreamingThreshold
	}
	return c
}
