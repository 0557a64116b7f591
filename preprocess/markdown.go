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

var fenceLangs = []string{"json", "javascript", "js"}

// extractMarkdown implements §4.1 step 1: if the input contains a
// fenced code block (optionally tagged json/javascript/js), the whole
// input is replaced by the inner content of the first such block;
// otherwise, if the input is a single inline-code span whose content
// begins with '{' or '[', that content is used.
func extractMarkdown(text string, _ *limits.Validator) (string, []diag.Diagnostic, error) {
	if fenced, ok := firstFencedBlock(text); ok {
		return fenced, nil, nil
	}
	if inline, ok := inlineCodeSpan(text); ok {
		return inline, nil, nil
	}
	return text, nil, nil
}

func firstFencedBlock(text string) (string, bool) {
	idx := strings.Index(text, "```")
	if idx < 0 {
		return "", false
	}
	rest := text[idx+3:]
	// optional language tag up to end of line
	nl := strings.IndexByte(rest, '\n')
	tagLine := rest
	bodyStart := 0
	if nl >= 0 {
		tagLine = rest[:nl]
		bodyStart = nl + 1
	}
	tag := strings.TrimSpace(tagLine)
	if tag != "" {
		known := false
		for _, l := range fenceLangs {
			if strings.EqualFold(tag, l) {
				known = true
				break
			}
		}
		if !known {
			// not a recognized language tag; treat the whole
			// remainder (including tagLine) as body content instead
			// of discarding what might be the first data line.
			bodyStart = 0
		}
	}
	body := rest[bodyStart:]
	end := strings.Index(body, "```")
	if end < 0 {
		return "", false
	}
	return body[:end], true
}

func inlineCodeSpan(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "`") || !strings.HasSuffix(trimmed, "`") || len(trimmed) < 2 {
		return "", false
	}
	if strings.HasPrefix(trimmed, "```") {
		return "", false
	}
	inner := trimmed[1 : len(trimmed)-1]
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return "", false
	}
	if inner[0] != '{' && inner[0] != '[' {
		return "", false
	}
	return inner, true
}
