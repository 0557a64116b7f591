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

// curlyQuotes maps Unicode curly/angle/CJK quotation marks to ASCII
// '"'. Both members of each matched pair map to the same character:
// JSON only has one quote glyph, so there is no "open" vs "close" to
// preserve.
var curlyQuotes = map[rune]rune{
	'“': '"', '”': '"', // “ ”
	'‘': '"', '’': '"', // ‘ ’ (treated as ASCII " per normalization, not ')
	'«': '"', '»': '"', // « »
	'「': '"', '」': '"', // 「 」
	'『': '"', '』': '"', // 『 』
}

// normalizeQuotes implements §4.1 step 5: convert Unicode curly/angle/
// CJK quotation marks to ASCII '"', then convert single-quoted strings
// to double-quoted strings when surrounding context marks them as JSON
// values (preceded by ':', ',', '[' or '{' and followed by ':', ',',
// ']' or '}'). Apostrophes inside an already-double-quoted string are
// left untouched because the scan below only opens a "candidate"
// single-quoted span when it is not already inside a double-quoted
// string.
func normalizeQuotes(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	text = convertCurlyQuotes(text)
	text = convertSingleQuotedValues(text)
	return text, nil, nil
}

func convertCurlyQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if repl, ok := curlyQuotes[r]; ok {
			b.WriteRune(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// convertSingleQuotedValues rewrites 'text' to "text" when the quote
// sits in JSON value/key position, escaping any internal '"' along the
// way. Double-quoted spans are skipped outright so the apostrophes
// they contain are never touched.
func convertSingleQuotedValues(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '"' {
			end := skipDoubleQuoted(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if c == '\'' {
			precededOK := i == 0 || isOpenContext(lastSignificant(text, i))
			end, ok := findSingleQuoteEnd(text, i)
			if ok {
				after := skipSpaces(text, end+1)
				followedOK := after >= len(text) || isCloseContext(text[after])
				if precededOK && followedOK {
					inner := text[i+1 : end]
					inner = strings.ReplaceAll(inner, `"`, `\"`)
					b.WriteByte('"')
					b.WriteString(inner)
					b.WriteByte('"')
					i = end + 1
					continue
				}
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func lastSignificant(text string, i int) byte {
	j := skipSpacesBack(text, i)
	if j == 0 {
		return 0
	}
	return text[j-1]
}

func isOpenContext(b byte) bool {
	switch b {
	case 0, ':', ',', '[', '{':
		return true
	default:
		return false
	}
}

func isCloseContext(b byte) bool {
	switch b {
	case ':', ',', ']', '}':
		return true
	default:
		return false
	}
}

// skipDoubleQuoted returns the index just past the closing '"' of the
// double-quoted span starting at i (which must point at the opening
// quote), honoring backslash escapes.
func skipDoubleQuoted(text string, i int) int {
	j := i + 1
	for j < len(text) {
		if text[j] == '\\' {
			j += 2
			continue
		}
		if text[j] == '"' {
			return j + 1
		}
		j++
	}
	return len(text)
}

// findSingleQuoteEnd finds the index of the closing "'" for the
// single-quoted span starting at i, honoring backslash escapes.
func findSingleQuoteEnd(text string, i int) (int, bool) {
	j := i + 1
	for j < len(text) {
		if text[j] == '\\' {
			j += 2
			continue
		}
		if text[j] == '\'' {
			return j, true
		}
		j++
	}
	return 0, false
}
