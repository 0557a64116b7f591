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

// repairStructure implements §4.1 step 8: a single quote-aware pass
// that fixes the structural shape of the document without touching its
// values:
//
//   - a bare '=' standing in for ':' right after a key
//   - a missing ',' between two sibling elements, when the first ends
//     in a bare word or number, or the second is a nested '{' or '['
//   - a trailing ',' right before a closing ']' or '}'
//   - an empty value slot (",," or ": ,") filled with 'null'
//   - a string literal left open at end of input, closed before the
//     structures around it
//   - unterminated objects/arrays at end of input, closed LIFO by the
//     bracket stack the same pass is already maintaining
//
// A missing ':' between a key and its value is not inserted, and a
// missing ',' after a quoted string is only inserted before a nested
// '{' or '['.
//
// All of it lives in one pass because each fix shifts the position the
// next fix needs to look at; running five separate regex substitutions
// over the same text would have them stepping on each other's output.
func repairStructure(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	var b strings.Builder
	b.Grow(len(text) + 16)
	var stack []byte
	var q quoteState
	// afterValue is true once we've emitted (part of) a value/key at the
	// current nesting level (a string, a bare word or number, a closed
	// structure), so a following sibling needs a separator before it.
	afterValue := false
	var diags []diag.Diagnostic

	i := 0
	for i < len(text) {
		c := text[i]
		wasInString := q.inString
		if q.advance(c) {
			b.WriteByte(c)
			i++
			if wasInString && !q.inString {
				// a closing quote ends a string key or value
				afterValue = true
			}
			continue
		}

		switch c {
		case '{', '[':
			if afterValue {
				b.WriteByte(',')
				diags = append(diags, diag.Diagnostic{Message: "inserted missing comma before nested structure", Kind: diag.MissingComma, Severity: diag.Warning, RecoveryAction: diag.ActionNone})
			}
			stack = append(stack, closerFor(c))
			b.WriteByte(c)
			afterValue = false
			i++
			continue

		case '}', ']':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			b.WriteByte(c)
			afterValue = true
			i++
			continue

		case ',':
			inArray := len(stack) > 0 && stack[len(stack)-1] == ']'
			if !afterValue && inArray {
				// no value token was written since the last separator
				// (or the opening bracket): either a leading comma
				// ("[,3]") or two commas in a row ("[,,3]"). Either way
				// the missing slot becomes an explicit null, written
				// before the comma so element order stays left to right.
				b.WriteString("null")
				diags = append(diags, diag.Diagnostic{Message: "filled empty array slot with null", Kind: diag.InferredValue, Severity: diag.Warning, RecoveryAction: diag.ActionSynthesizedNull})
			} else if !afterValue && !inArray && len(stack) > 0 {
				// a redundant comma in object context ("{"a":1,,"b":2}"):
				// unlike an array there is no positional slot to fill
				// with null, so the extra separator is simply dropped.
				diags = append(diags, diag.Diagnostic{Message: "collapsed double comma in object context", Kind: diag.RemovedTrailingComma, Severity: diag.Warning})
				i++
				continue
			}
			// drop the comma if the only thing ahead (ignoring space)
			// before a closer is that closer: a trailing comma.
			j := skipSpaces(text, i+1)
			if j < len(text) && (text[j] == '}' || text[j] == ']') {
				diags = append(diags, diag.Diagnostic{Message: "removed trailing comma", Kind: diag.RemovedTrailingComma, Severity: diag.Warning})
				i = j
				afterValue = true
				continue
			}
			b.WriteByte(c)
			afterValue = false
			i++
			continue

		case ':':
			j := skipSpaces(text, i+1)
			if j < len(text) && (text[j] == ',' || text[j] == '}') {
				b.WriteString(": null")
				diags = append(diags, diag.Diagnostic{Message: "filled empty object value with null", Kind: diag.InferredValue, Severity: diag.Warning, RecoveryAction: diag.ActionSynthesizedNull})
				i = j
				afterValue = true
				continue
			}
			b.WriteByte(c)
			afterValue = false
			i++
			continue

		case '=':
			// only treat '=' as ':' when it sits where a key/value
			// separator would: directly after a quoted or bare key.
			if afterValue {
				b.WriteByte(':')
				diags = append(diags, diag.Diagnostic{Message: "treated '=' as key/value separator", Kind: diag.AddedColon, Severity: diag.Warning, RecoveryAction: diag.ActionInsertedColon})
				afterValue = false
				i++
				continue
			}
			b.WriteByte(c)
			i++
			continue
		}

		if isSpace(c) {
			b.WriteByte(c)
			i++
			continue
		}

		// a bare value/key token ending, check whether it needs a
		// synthesized separator before the next token starts.
		if c == '"' {
			// quoteState.advance handles entering the string on the
			// next iteration; just record that a value may follow.
			b.WriteByte(c)
			i++
			continue
		}

		b.WriteByte(c)
		afterValue = true
		terminated := isValueTerminatingByte(text, i)
		i++

		if terminated && i < len(text) {
			k := skipSpaces(text, i)
			if k < len(text) && needsSeparator(text[k]) && len(stack) > 0 {
				sep := byte(',')
				if stack[len(stack)-1] == '}' && looksLikeKeyStart(text, k) {
					// a bare key right after a value inside an object
					// with no comma: still a missing comma, not a colon.
					sep = ','
				}
				b.WriteByte(sep)
				diags = append(diags, diag.Diagnostic{Message: "inserted missing comma", Kind: diag.MissingComma, Severity: diag.Warning})
				afterValue = false
			}
		}
	}

	if q.inString {
		// input ended inside a string literal: close it before the
		// structures around it
		b.WriteByte(q.quote)
		diags = append(diags, diag.Diagnostic{Message: "closed unterminated string at end of input", Kind: diag.UnclosedStructure, Severity: diag.Warning, RecoveryAction: diag.ActionClosedUnterminatedString})
	}

	for k := len(stack) - 1; k >= 0; k-- {
		b.WriteByte(stack[k])
		diags = append(diags, diag.Diagnostic{Message: "closed unterminated structure at end of input", Kind: diag.UnclosedStructure, Severity: diag.Warning, RecoveryAction: diag.ActionNone})
	}

	return b.String(), diags, nil
}

func closerFor(open byte) byte {
	if open == '{' {
		return '}'
	}
	return ']'
}

// isValueTerminatingByte reports whether the byte at i completes a bare
// value/key lexeme (i.e. the next byte, if any, is not itself part of
// the same identifier/number run).
func isValueTerminatingByte(text string, i int) bool {
	if !isIdentPart(text[i]) && !(text[i] >= '0' && text[i] <= '9') {
		return false
	}
	next := i + 1
	if next >= len(text) {
		return true
	}
	return !isIdentPart(text[next])
}

// needsSeparator reports whether byte b starting a new token implies a
// missing ',' was left out between two sibling elements.
func needsSeparator(b byte) bool {
	if isIdentStart(b) || (b >= '0' && b <= '9') || b == '"' || b == '\'' || b == '{' || b == '[' || b == '-' {
		return true
	}
	return false
}

func looksLikeKeyStart(text string, i int) bool {
	return i < len(text) && (isIdentStart(text[i]) || text[i] == '"' || text[i] == '\'')
}
