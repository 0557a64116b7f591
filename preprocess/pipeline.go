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

// Package preprocess rewrites malformed JSON-ish text into strict-ish
// JSON through an ordered, composable pipeline of pure text-to-text
// steps. The step order is part of the contract: later steps rely on
// normalizations earlier steps already made (see Pipeline).
package preprocess

import (
	"github.com/JostBrand/jsonshiatsu/config"
	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/internal/logging"
	"github.com/JostBrand/jsonshiatsu/limits"
)

// step is one pipeline stage: a closed set of named, pure text
// transforms, each gated by its own toggle predicate. A tagged closure
// list (rather than an interface per step type) keeps the set closed,
// matching the "not open for third-party extension" design note.
type step struct {
	name      string
	shouldRun func(config.Toggles) bool
	run       func(text string, v *limits.Validator) (string, []diag.Diagnostic, error)
}

// Pipeline runs the ordered sequence of preprocessing steps under a
// ParseConfig.
type Pipeline struct {
	steps []step
}

// New builds the pipeline in the fixed contractual order described in
// §4.1: markdown extraction, content extraction, comment removal,
// JS-construct handling, quote normalization, unquoted-key quoting,
// unquoted-value quoting, structure repair, string repair,
// boolean/null normalization, whitespace normalization.
func New() *Pipeline {
	return &Pipeline{
		steps: []step{
			{"markdown-extraction", func(t config.Toggles) bool { return t.ExtractFromMarkdown }, extractMarkdown},
			{"content-extraction", func(t config.Toggles) bool { return t.ExtractFirstJSON || t.RemoveTrailingText }, extractContent},
			{"comment-removal", func(t config.Toggles) bool { return t.RemoveComments }, removeComments},
			{"javascript-constructs", func(t config.Toggles) bool { return t.UnwrapFunctionCalls }, handleJavaScriptConstructs},
			{"quote-normalization", func(t config.Toggles) bool { return t.NormalizeQuotes }, normalizeQuotes},
			{"unquoted-key-quoting", func(t config.Toggles) bool { return t.NormalizeQuotes }, quoteUnquotedKeys},
			{"unquoted-value-quoting", func(t config.Toggles) bool { return t.NormalizeQuotes }, quoteUnquotedValues},
			{"structure-repair", func(t config.Toggles) bool { return t.HandleIncompleteJSON || t.HandleSparseArrays }, repairStructure},
			{"string-repair", func(t config.Toggles) bool { return t.FixUnescapedStrings }, repairStrings},
			{"boolean-null-normalization", func(t config.Toggles) bool { return t.NormalizeBooleanNull }, normalizeBooleanNull},
			{"whitespace-normalization", func(config.Toggles) bool { return true }, normalizeWhitespace},
		},
	}
}

// Run applies every enabled step to text in order, passing each the
// limit validator (no current step charges MaxPreprocessingIterations
// against it) and collecting the diagnostics the steps emit (repairs
// such as inserted commas or nulls, normalized literals, and
// PreprocessingTimeout). Preprocessing is a pure function of (text, config): it never
// consults state outside its arguments, so running the same pipeline
// twice on the same input with the same toggles is guaranteed to
// reproduce the same output.
func (p *Pipeline) Run(text string, toggles config.Toggles, v *limits.Validator) (string, []diag.Diagnostic, error) {
	if err := v.ValidateInputSize(len(text)); err != nil {
		return "", nil, err
	}
	var diags []diag.Diagnostic
	log := logging.Get(logging.CategoryPreprocess)
	for _, s := range p.steps {
		if !s.shouldRun(toggles) {
			continue
		}
		out, stepDiags, err := s.run(text, v)
		if err != nil {
			return "", diags, err
		}
		if out != text {
			log.Debugw("step rewrote text", "step", s.name, "before", len(text), "after", len(out))
		}
		text = out
		diags = append(diags, stepDiags...)
	}
	return text, diags, nil
}
