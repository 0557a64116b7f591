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

// boolNullAliases maps case-sensitive spellings seen in the wild onto
// the JSON literal the tokenizer expects, applied only when the
// surrounding bytes are not part of a larger identifier (so "yesterday"
// is never clipped to "yesterday" -> "trueterday").
var boolNullAliases = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
	"NULL":  "null",
	"Null":  "null",
	"yes":   "true",
	"no":    "false",
	"YES":   "true",
	"NO":    "false",
}

// normalizeBooleanNull implements §4.1 step 10: rewrite bare alternate
// spellings of true/false/null to the canonical JSON lexeme outside of
// string literals.
func normalizeBooleanNull(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	var b strings.Builder
	b.Grow(len(text))
	var diags []diag.Diagnostic
	var q quoteState

	i := 0
	for i < len(text) {
		c := text[i]
		if q.advance(c) {
			b.WriteByte(c)
			i++
			continue
		}
		if isIdentStart(c) {
			j := i + 1
			for j < len(text) && isIdentPart(text[j]) {
				j++
			}
			word := text[i:j]
			repl, ok := boolNullAliases[word]
			if !ok {
				// yes/no are matched in any letter case
				switch strings.ToLower(word) {
				case "yes":
					repl, ok = "true", true
				case "no":
					repl, ok = "false", true
				}
			}
			if ok {
				b.WriteString(repl)
				diags = append(diags, diag.Diagnostic{Message: "normalized '" + word + "' to '" + repl + "'", Kind: diag.InferredValue, Severity: diag.Info})
				i = j
				continue
			}
			b.WriteString(word)
			i = j
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), diags, nil
}
