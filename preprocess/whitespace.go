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

// normalizeWhitespace implements §4.1 step 11, the final pass: runs of
// whitespace outside string literals collapse to a single space, and
// leading/trailing whitespace around the whole document is trimmed.
// This is purely cosmetic for the tokenizer (which already skips
// whitespace on its own) but keeps any diagnostics rendered with
// source context readable.
func normalizeWhitespace(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	var b strings.Builder
	b.Grow(len(text))
	var q quoteState
	inRun := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if q.advance(c) {
			b.WriteByte(c)
			inRun = false
			continue
		}
		if isSpace(c) {
			if !inRun {
				b.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String()), nil, nil
}
