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
	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/limits"
)

// extractContent implements §4.1 step 2: locate the first '{' or '[',
// then scan forward tracking bracket/brace depth with quote-aware
// state (a bracket inside a string literal does not count) until depth
// returns to zero; everything before the start and after the matching
// close is discarded.
//
// The byte-level depth walk that skips over strings and escapes is the
// same shape as a free-text JSON-object scanner: a single left-to-right
// pass with an in-string flag and an escape flag, no regex involved.
func extractContent(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	start := -1
	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			start = i
			break
		}
	}
	if start < 0 {
		return text, nil, nil
	}

	depth := 0
	var q quoteState
	for i := start; i < len(text); i++ {
		b := text[i]
		inString := q.advance(b)
		if inString {
			continue
		}
		switch b {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return text[start : i+1], nil, nil
			}
		}
	}
	// never balanced: leave the rest of the pipeline (structure
	// repair's closer-synthesis pass) to fix up the unclosed tail.
	return text[start:], nil, nil
}
