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

// Package limits implements the resource-limit enforcement layer: a
// small, O(1)-per-call validator invoked by the preprocessor,
// tokenizer and parser at every checkpoint where an adversarial input
// could otherwise force unbounded work.
package limits

import "fmt"

// Default limits, chosen to be generous for hand-written or
// LLM-generated JSON while still bounding worst-case work. Mirrors the
// shape of a hand-tuned systems parser's hard caps (e.g. a fixed
// MaxObjectDepth / MaxDatumSize pair) rather than leaving everything
// unbounded by default.
const (
	DefaultMaxInputSize             = 64 * 1024 * 1024
	DefaultMaxStringLength          = 1024 * 1024
	DefaultMaxNumberLength          = 256
	DefaultMaxPreprocessingIter     = 1000
	DefaultMaxNestingDepth          = 100
	DefaultMaxObjectKeys            = 100000
	DefaultMaxArrayItems            = 1000000
	DefaultMaxTotalItems            = 5000000
)

// Limits is the resource-bound configuration consulted by Validator.
// A zero value for any field means "no bound" except where noted.
type Limits struct {
	MaxInputSize             int
	MaxStringLength          int
	MaxNumberLength          int
	MaxPreprocessingIterations int
	MaxNestingDepth          int
	MaxObjectKeys            int
	MaxArrayItems            int
	MaxTotalItems            int
}

// Default returns the library's default Limits.
func Default() Limits {
	return Limits{
		MaxInputSize:               DefaultMaxInputSize,
		MaxStringLength:            DefaultMaxStringLength,
		MaxNumberLength:            DefaultMaxNumberLength,
		MaxPreprocessingIterations: DefaultMaxPreprocessingIter,
		MaxNestingDepth:            DefaultMaxNestingDepth,
		MaxObjectKeys:              DefaultMaxObjectKeys,
		MaxArrayItems:              DefaultMaxArrayItems,
		MaxTotalItems:              DefaultMaxTotalItems,
	}
}

// Kind identifies which bound a SecurityFault breached.
type Kind string

const (
	InputTooLarge        Kind = "InputTooLarge"
	StringTooLong        Kind = "StringTooLong"
	NumberTooLong        Kind = "NumberTooLong"
	NestingTooDeep       Kind = "NestingTooDeep"
	TooManyKeys          Kind = "TooManyKeys"
	TooManyItems         Kind = "TooManyItems"
	TooManyTotalItems    Kind = "TooManyTotalItems"
	PreprocessingOverflow Kind = "PreprocessingOverflow"
)

// SecurityFault is raised when an input breaches a configured limit.
// It is non-recoverable: recovery level has no effect on it, and it
// always propagates to the top of the parse call (see §7 of the
// design: Security errors bypass fallback and recovery alike).
type SecurityFault struct {
	Limit    Kind
	Bound    int
	Observed int
	Where    string
}

func (f *SecurityFault) Error() string {
	return fmt.Sprintf("jsonshiatsu: security limit %s exceeded at %s: observed %d, bound %d",
		f.Limit, f.Where, f.Observed, f.Bound)
}

// Validator tracks the mutable counters (nesting depth, total items)
// accumulated over the course of a single parse call. A Validator must
// not be shared across concurrent parse calls; each call owns its own
// instance, which is what keeps the whole pipeline free of shared
// mutable state (see the concurrency model: one Validator per call).
type Validator struct {
	limits       Limits
	nestingDepth int
	totalItems   int
}

// New creates a Validator bound to limits for the duration of one
// parse call.
func New(limits Limits) *Validator {
	return &Validator{limits: limits}
}

func (v *Validator) fault(k Kind, bound, observed int, where string) error {
	return &SecurityFault{Limit: k, Bound: bound, Observed: observed, Where: where}
}

// ValidateInputSize checks the raw input length before any processing
// begins.
func (v *Validator) ValidateInputSize(n int) error {
	if v.limits.MaxInputSize > 0 && n > v.limits.MaxInputSize {
		return v.fault(InputTooLarge, v.limits.MaxInputSize, n, "input")
	}
	return nil
}

// ValidateStringLength checks a decoded string's length at the point
// it was read (tokenizer) or substituted (preprocessor).
func (v *Validator) ValidateStringLength(n int, where string) error {
	if v.limits.MaxStringLength > 0 && n > v.limits.MaxStringLength {
		return v.fault(StringTooLong, v.limits.MaxStringLength, n, where)
	}
	return nil
}

// ValidateNumberLength checks a numeric lexeme's length.
func (v *Validator) ValidateNumberLength(n int, where string) error {
	if v.limits.MaxNumberLength > 0 && n > v.limits.MaxNumberLength {
		return v.fault(NumberTooLong, v.limits.MaxNumberLength, n, where)
	}
	return nil
}

// EnterStructure increments nesting depth on entry to an object or
// array and fails if the new depth exceeds the bound. Depth is the
// only counter that decreases within a call (see ExitStructure),
// because it tracks "currently open", not "total seen".
func (v *Validator) EnterStructure() error {
	v.nestingDepth++
	if v.limits.MaxNestingDepth > 0 && v.nestingDepth > v.limits.MaxNestingDepth {
		return v.fault(NestingTooDeep, v.limits.MaxNestingDepth, v.nestingDepth, "nesting")
	}
	return nil
}

// ExitStructure decrements nesting depth on exit from an object or
// array.
func (v *Validator) ExitStructure() {
	if v.nestingDepth > 0 {
		v.nestingDepth--
	}
}

// Depth returns the current nesting depth.
func (v *Validator) Depth() int { return v.nestingDepth }

// ValidateObjectKeys checks an object's running key count.
func (v *Validator) ValidateObjectKeys(count int) error {
	if v.limits.MaxObjectKeys > 0 && count > v.limits.MaxObjectKeys {
		return v.fault(TooManyKeys, v.limits.MaxObjectKeys, count, "object")
	}
	return nil
}

// ValidateArrayItems checks an array's running element count.
func (v *Validator) ValidateArrayItems(count int) error {
	if v.limits.MaxArrayItems > 0 && count > v.limits.MaxArrayItems {
		return v.fault(TooManyItems, v.limits.MaxArrayItems, count, "array")
	}
	return nil
}

// CountItem increments and checks the aggregate item counter, invoked
// once per value produced anywhere in the tree.
func (v *Validator) CountItem() error {
	v.totalItems++
	if v.limits.MaxTotalItems > 0 && v.totalItems > v.limits.MaxTotalItems {
		return v.fault(TooManyTotalItems, v.limits.MaxTotalItems, v.totalItems, "document")
	}
	return nil
}

// TotalItems returns the aggregate item counter.
func (v *Validator) TotalItems() int { return v.totalItems }

// PreprocessingOverflowFault builds the fault raised when an iterative
// preprocessing step (e.g. string-concatenation collapse) exceeds
// MaxPreprocessingIterations.
func (v *Validator) PreprocessingOverflowFault(step string, iterations int) error {
	bound := v.limits.MaxPreprocessingIterations
	return v.fault(PreprocessingOverflow, bound, iterations, step)
}

// MaxPreprocessingIterations exposes the configured bound so
// preprocessing steps can loop against it directly.
func (v *Validator) MaxPreprocessingIterations() int {
	return v.limits.MaxPreprocessingIterations
}
