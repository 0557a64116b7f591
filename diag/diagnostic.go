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

// Package diag carries the structured error/warning records ("Diagnostic")
// produced by the parser, along with the fixed catalog of recovery actions
// and user-facing suggestions they may reference.
package diag

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/JostBrand/jsonshiatsu/token"
)

// Severity ranks a Diagnostic's seriousness.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "info"
	}
}

// Kind is the catalog of error/outcome kinds a Diagnostic can carry,
// split into the Syntactic, Recovery and System families described in
// the error-handling design. Security kinds are not in this catalog:
// limit breaches are reported as *limits.SecurityFault carrying a
// limits.Kind.
type Kind string

const (
	// Syntactic
	UnexpectedToken  Kind = "UnexpectedToken"
	UnclosedStructure Kind = "UnclosedStructure"
	MissingColon     Kind = "MissingColon"
	MissingComma     Kind = "MissingComma"
	InvalidEscape    Kind = "InvalidEscape"
	InvalidNumber    Kind = "InvalidNumber"
	InvalidKey       Kind = "InvalidKey"

	// Recovery (outcomes, not failures)
	AddedQuotes          Kind = "AddedQuotes"
	RemovedTrailingComma Kind = "RemovedTrailingComma"
	AddedColon           Kind = "AddedColon"
	ClosedString         Kind = "ClosedString"
	InferredValue        Kind = "InferredValue"
	SkippedField         Kind = "SkippedField"
	SkippedElement       Kind = "SkippedElement"
	StructureRepaired    Kind = "StructureRepaired"

	// System
	PreprocessingTimeout Kind = "PreprocessingTimeout"
)

// RecoveryAction names the point-repair a BestEffort+ recovery applied.
type RecoveryAction string

const (
	ActionNone               RecoveryAction = ""
	ActionQuotedIdentifier   RecoveryAction = "quoted-bare-identifier"
	ActionInsertedColon      RecoveryAction = "inserted-missing-colon"
	ActionDroppedTrailingComma RecoveryAction = "dropped-trailing-comma"
	ActionClosedUnterminatedString RecoveryAction = "closed-unterminated-string"
	ActionSkippedField       RecoveryAction = "skipped-field"
	ActionSkippedElement     RecoveryAction = "skipped-element"
	ActionSynthesizedNull    RecoveryAction = "synthesized-null"
)

// Diagnostic is a structured error or warning record, positioned at a
// real token (or an Eof token for "unexpected end") that existed in
// the stream.
type Diagnostic struct {
	Message        string
	Kind           Kind
	Severity       Severity
	Path           string
	Line           uint32
	Column         uint32
	ContextBefore  string
	ContextAfter   string
	RecoveryAction RecoveryAction
	OriginalLexeme string
	RecoveredValue string
}

// FromToken builds a Diagnostic anchored at tok's position, leaving
// context fields for the caller (which has access to the source text)
// to fill in via WithContext.
func FromToken(kind Kind, severity Severity, path string, tok token.Token, message string) Diagnostic {
	return Diagnostic{
		Message:  message,
		Kind:     kind,
		Severity: severity,
		Path:     path,
		Line:     tok.Position.Line,
		Column:   tok.Position.Column,
	}
}

// WithContext attaches up to maxChars of surrounding source text on
// either side of the diagnostic's offset within text.
func (d Diagnostic) WithContext(text string, offset, maxChars int) Diagnostic {
	if maxChars <= 0 {
		return d
	}
	start := offset - maxChars
	if start < 0 {
		start = 0
	}
	end := offset + maxChars
	if end > len(text) {
		end = len(text)
	}
	if offset >= 0 && offset <= len(text) {
		d.ContextBefore = text[start:offset]
		d.ContextAfter = text[offset:end]
	}
	return d
}

// PathPush appends a dot-separated key or "[i]" index segment to a
// JSON-pointer-like path, used while descending into objects/arrays.
func PathPush(base, segment string, isIndex bool) string {
	if isIndex {
		return base + "[" + segment + "]"
	}
	if base == "" {
		return segment
	}
	return base + "." + segment
}

// suggestionCatalog is the fixed catalog of remediation hints keyed by
// error kind, surfaced in user-visible error messages.
var suggestionCatalog = map[Kind][]string{
	UnexpectedToken:   {"check for a stray token", "verify brackets and braces are balanced"},
	UnclosedStructure: {"check for a missing closing brace or bracket"},
	MissingColon:      {"check for a missing colon between a key and its value"},
	MissingComma:      {"check for a missing comma between elements"},
	InvalidEscape:     {"check for an invalid backslash escape sequence"},
	InvalidNumber:     {"check the numeric literal's digits and exponent"},
	InvalidKey:        {"check for missing quotes around an object key"},
}

// Suggestions returns the fixed catalog entries for kind, or nil.
func Suggestions(kind Kind) []string {
	return suggestionCatalog[kind]
}

// SortByPosition orders ds by (line, column) in place, giving a
// caller rendering several diagnostics at once (ParsePartial's Errors
// and Warnings, or a JsonDecodeError's accumulated list) a
// deterministic, source-order report regardless of which recovery path
// happened to append them first.
func SortByPosition(ds []Diagnostic) {
	slices.SortFunc(ds, func(a, b Diagnostic) bool {
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
}

// Render produces the single-line-plus-context user-visible message
// described by the error handling design: message, then (optionally)
// position, then (optionally) a context window with a caret, then
// suggestions drawn from the fixed catalog.
func (d Diagnostic) Render(includePosition, includeContext bool) string {
	var b strings.Builder
	b.WriteString(d.Message)
	if includePosition {
		fmt.Fprintf(&b, " (line %d, column %d)", d.Line, d.Column)
	}
	if includeContext && (d.ContextBefore != "" || d.ContextAfter != "") {
		b.WriteByte('\n')
		b.WriteString(d.ContextBefore)
		b.WriteString(d.ContextAfter)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(" ", len(d.ContextBefore)))
		b.WriteByte('^')
	}
	if s := Suggestions(d.Kind); len(s) > 0 {
		b.WriteString("\nsuggestions: ")
		b.WriteString(strings.Join(s, "; "))
	}
	return b.String()
}
