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

package preprocess

import (
	"strings"

	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/limits"
)

// repairStrings implements §4.1 step 9: two string-content repairs that
// earlier steps deliberately leave alone because they require looking
// inside string bodies rather than around them.
//
//   - an unescaped '"' inside a double-quoted string is escaped when it
//     is not immediately followed by a JSON structural character (':',
//     ',', ']', '}', or whitespace then one of those), on the
//     heuristic that a real closing quote is always followed by
//     structure, not by more word characters.
//   - a single backslash that is not part of a recognized escape
//     sequence (\" \\ \/ \b \f \n \r \t \uXXXX) is doubled, the common
//     case being an untouched Windows path like "C:\Users\x".
func repairStrings(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	var b strings.Builder
	b.Grow(len(text))
	var diags []diag.Diagnostic

	i := 0
	for i < len(text) {
		if text[i] != '"' {
			b.WriteByte(text[i])
			i++
			continue
		}
		// copy the opening quote, then repair the body up to the real
		// closing quote.
		b.WriteByte('"')
		i++
		start := i
		for i < len(text) {
			c := text[i]
			if c == '\\' {
				if i+1 < len(text) && isRecognizedEscape(text[i+1]) {
					b.WriteByte(c)
					b.WriteByte(text[i+1])
					i += 2
					continue
				}
				b.WriteString(`\\`)
				diags = append(diags, diag.Diagnostic{Message: "doubled stray backslash inside string", Kind: diag.InvalidEscape, Severity: diag.Warning})
				i++
				continue
			}
			if c == '"' {
				if looksLikeRealClose(text, i) {
					b.WriteByte('"')
					i++
					break
				}
				b.WriteString(`\"`)
				diags = append(diags, diag.Diagnostic{Message: "escaped unescaped quote inside string", Kind: diag.InvalidEscape, Severity: diag.Warning})
				i++
				continue
			}
			b.WriteByte(c)
			i++
		}
		if i >= len(text) && (i == start || text[i-1] != '"') {
			// ran off the end without a closing quote; leave it for
			// the structure-repair closer pass upstream to have
			// already handled bracket closing, and just close the
			// string here so the lexer never sees an unterminated one.
			b.WriteByte('"')
			diags = append(diags, diag.Diagnostic{Message: "closed unterminated string at end of input", Kind: diag.UnclosedStructure, Severity: diag.Warning, RecoveryAction: diag.ActionClosedUnterminatedString})
		}
	}
	return b.String(), diags, nil
}

func isRecognizedEscape(c byte) bool {
	switch c {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't', 'u':
		return true
	default:
		return false
	}
}

// looksLikeRealClose reports whether the '"' at index i in text is
// followed (ignoring spaces) by a byte that can only appear after a
// JSON string has ended: one of ':', ',', ']', '}', or end of input.
func looksLikeRealClose(text string, i int) bool {
	j := skipSpaces(text, i+1)
	if j >= len(text) {
		return true
	}
	switch text[j] {
	case ':', ',', ']', '}':
		return true
	default:
		return false
	}
}
