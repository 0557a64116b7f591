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

// removeComments implements §4.1 step 3: strips `// ...` end-of-line
// and `/* ... */` block comments, respecting string literals (quotes
// suspend comment recognition). Removing a block comment inserts a
// single space only if neither side already has whitespace, so two
// tokens separated only by a comment don't get glued together.
func removeComments(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	var b strings.Builder
	b.Grow(len(text))
	var q quoteState
	for i := 0; i < len(text); i++ {
		c := text[i]
		if q.advance(c) {
			b.WriteByte(c)
			continue
		}

		if c == '/' && i+1 < len(text) && text[i+1] == '/' {
			j := i
			for j < len(text) && text[j] != '\n' {
				j++
			}
			i = j - 1
			continue
		}

		if c == '/' && i+1 < len(text) && text[i+1] == '*' {
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				// unterminated block comment: drop the rest of input
				i = len(text)
				break
			}
			j := i + 2 + end + 2
			leftHasSpace := b.Len() > 0 && isSpace(lastByte(b.String()))
			rightHasSpace := j < len(text) && isSpace(text[j])
			if !leftHasSpace && !rightHasSpace {
				b.WriteByte(' ')
			}
			i = j - 1
			continue
		}

		b.WriteByte(c)
	}
	return b.String(), nil, nil
}

func lastByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}
