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

// quoteUnquotedKeys implements §4.1 step 6: any identifier-like token
// immediately followed (after optional whitespace) by ':' is wrapped
// in double quotes, unless its value is true/false/null or all digits
// (a bare number can't be a key; JSON keys are always strings, so the
// only bare-token keys worth protecting from over-eager quoting are
// numeric labels used as dictionary indices; such a label starts with a
// digit, is never taken as an identifier here, and is read by the
// tokenizer as a Number token).
func quoteUnquotedKeys(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '"' || c == '\'' {
			end := skipQuotedAny(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if isIdentStart(c) {
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			word := text[i:j]
			k := skipSpaces(text, j)
			if k < len(text) && text[k] == ':' && !isBareLiteral(word) {
				b.WriteByte('"')
				b.WriteString(word)
				b.WriteByte('"')
				i = j
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), nil, nil
}

func isBareLiteral(word string) bool {
	switch word {
	case "true", "false", "null":
		return true
	}
	if word == "" {
		return false
	}
	for _, c := range word {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func skipQuotedAny(text string, i int) int {
	quote := text[i]
	j := i + 1
	for j < len(text) {
		if text[j] == '\\' {
			j += 2
			continue
		}
		if text[j] == quote {
			return j + 1
		}
		j++
	}
	return len(text)
}

// quoteUnquotedValues implements §4.1 step 7: after a ':', a bare
// identifier that is not true/false/null, not a number, not starting
// with '['/'{'/'"'/'\'', and not containing URL-like "://", is wrapped
// in double quotes. The token runs over letters, digits, '_', '$',
// '.', '-', '/' and ':', so a value such as "x-1" or "a/b" is quoted
// whole; a '+' or '*' ends the token, so in "x+1" only "x" is quoted.
func quoteUnquotedValues(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		c := text[i]
		if c == '"' || c == '\'' {
			end := skipQuotedAny(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}
		if c == ':' {
			b.WriteByte(c)
			i++
			j := skipSpaces(text, i)
			b.WriteString(text[i:j])
			i = j
			if i < len(text) && isIdentStart(text[i]) {
				k := i + 1
				for k < len(text) && isValueIdentPart(text[k]) {
					k++
				}
				word := text[i:k]
				if shouldQuoteBareValue(word) {
					b.WriteByte('"')
					b.WriteString(word)
					b.WriteByte('"')
					i = k
					continue
				}
			}
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), nil, nil
}

// isValueIdentPart additionally allows the characters a bare value
// token like a hostname, version string or enum constant commonly
// contains, so the whole token gets quoted as one string instead of
// being chopped at the first '.' or '-'.
func isValueIdentPart(b byte) bool {
	return isIdentPart(b) || b == '.' || b == '-' || b == '/' || b == ':'
}

func shouldQuoteBareValue(word string) bool {
	switch word {
	case "true", "false", "null":
		return false
	}
	if looksNumeric(word) {
		return false
	}
	if strings.Contains(word, "://") {
		return false
	}
	if strings.ContainsAny(word, "+*") {
		return false
	}
	return true
}

func looksNumeric(word string) bool {
	if word == "" {
		return false
	}
	i := 0
	if word[i] == '-' {
		i++
	}
	if i == len(word) {
		return false
	}
	seenDigit := false
	for ; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= '0' && c <= '9':
			seenDigit = true
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
			// allowed inside a numeric lexeme
		default:
			return false
		}
	}
	return seenDigit
}
