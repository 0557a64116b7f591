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
	"regexp"
	"strconv"
	"strings"

	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/limits"
)

// wrapperFuncs are the MongoDB/JS constructor-style calls whose first
// string argument is the JSON-meaningful payload.
var wrapperFuncs = []string{"Date", "ISODate", "ObjectId", "UUID", "RegExp"}

var (
	reWrapperCall   = regexp.MustCompile(`\b(Date|ISODate|ObjectId|UUID|RegExp)\s*\(\s*"([^"]*)"(?:\s*,\s*"[^"]*")?\s*\)`)
	reWrapperCallSQ = regexp.MustCompile(`\b(Date|ISODate|ObjectId|UUID|RegExp)\s*\(\s*'([^']*)'(?:\s*,\s*'[^']*')?\s*\)`)
	reWrapperBare   = regexp.MustCompile(`\b(Date|ISODate|ObjectId|UUID|RegExp)\s*\(\s*([0-9][0-9a-zA-Z_\-:./]*)\s*\)`)
	reJSONParse     = regexp.MustCompile(`\b(?:JSON\.parse|parseJSON)\s*\(\s*"((?:[^"\\]|\\.)*)"\s*\)`)
	reBareParseCall = regexp.MustCompile(`(?:^|[^.\w])parse\s*\(\s*"((?:[^"\\]|\\.)*)"\s*\)`)
	reTemplateLit   = regexp.MustCompile("`([^`]*)`")
	reRegexLiteral  = regexp.MustCompile(`([:,\[]\s*)/((?:[^/\\\n]|\\.)+)/([a-z]*)\b`)
	reHex           = regexp.MustCompile(`\b0[xX][0-9a-fA-F]+\b`)
	reBinary        = regexp.MustCompile(`\b0[bB][01]+\b`)
	reOctalPrefixed = regexp.MustCompile(`\b0[oO][0-7]+\b`)
	reLegacyOctal   = regexp.MustCompile(`([:,\[]\s*)0([0-7]{2,})\b`)
	reUndefined     = regexp.MustCompile(`\bundefined\b`)
	reNaN           = regexp.MustCompile(`\bNaN\b`)
	reNegInfinity   = regexp.MustCompile(`-\s*Infinity\b`)
	rePosInfinity   = regexp.MustCompile(`(^|[^\w"-])Infinity\b`)
	reArithmetic    = regexp.MustCompile(`([:,\[]\s*)(-?\d+)\s*([+\-])\s*(\d+)\s*([,\]}])`)
	reReturnStmt    = regexp.MustCompile(`^\s*return\s+([\s\S]*?);?\s*$`)
	reAssignStmt    = regexp.MustCompile(`^\s*(?:const|let|var)\s+\w+\s*=\s*([\s\S]*?);?\s*$`)
	reSingleArgCall = regexp.MustCompile(`^\s*\w+\s*\(([\s\S]*)\)\s*;?\s*$`)
)

// handleJavaScriptConstructs implements §4.1 step 4: a sequence of
// targeted rewrites, each replacing a JS-only construct with its
// nearest JSON-compatible equivalent. Order matters: wrapper calls and
// template literals are unwrapped before the generic top-level
// statement unwrapping so `return Date("x");` doesn't get misread as
// an arbitrary expression.
func handleJavaScriptConstructs(text string, v *limits.Validator) (string, []diag.Diagnostic, error) {
	var diags []diag.Diagnostic

	text = stripFunctionDefinitions(text)
	text = stripNewExpressions(text)

	text, timedOut := withTimeout(text, unwrapWrapperCalls)
	diags = appendTimeoutDiag(diags, "unwrap-wrapper-calls", timedOut)

	text, timedOut = withTimeout(text, func(s string) string { return reRegexLiteral.ReplaceAllString(s, `$1"$2"`) })
	diags = appendTimeoutDiag(diags, "regex-literal", timedOut)

	text, timedOut = withTimeout(text, replaceTemplateLiterals)
	diags = appendTimeoutDiag(diags, "template-literal", timedOut)

	text, timedOut = withTimeout(text, unwrapJSONParseCalls)
	diags = appendTimeoutDiag(diags, "json-parse-unwrap", timedOut)

	text, timedOut = withTimeout(text, evalSimpleArithmetic)
	diags = appendTimeoutDiag(diags, "arithmetic-fold", timedOut)

	text = reNegInfinity.ReplaceAllString(text, `"-Infinity"`)
	text = rePosInfinity.ReplaceAllString(text, `${1}"Infinity"`)
	text = reNaN.ReplaceAllString(text, `"NaN"`)
	text = reUndefined.ReplaceAllString(text, "null")

	text = replaceNumericLiteralBases(text)
	text = unwrapTopLevelStatement(text)

	_ = v
	return text, diags, nil
}

func appendTimeoutDiag(diags []diag.Diagnostic, step string, timedOut bool) []diag.Diagnostic {
	if !timedOut {
		return diags
	}
	return append(diags, diag.Diagnostic{
		Message:  "preprocessing step " + step + " exceeded its time budget; input left unchanged for this step",
		Kind:     diag.PreprocessingTimeout,
		Severity: diag.Info,
	})
}

// stripFunctionDefinitions removes `function (...) { ... }` / `function
// name(...) { ... }` definitions wherever they appear in value
// position, replacing the whole definition (matched with a balanced
// brace scan, not a regex, since the body may itself contain braces)
// with `null`.
func stripFunctionDefinitions(text string) string {
	return replaceBalancedCallables(text, "function", func(_ string) string { return "null" })
}

// stripNewExpressions replaces `new X(...)` with `null`.
func stripNewExpressions(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		idx := indexWordUnquoted(text, "new", i)
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}
		b.WriteString(text[i:idx])
		j := skipSpaces(text, idx+3)
		// identifier
		k := j
		for k < len(text) && isIdentPart(text[k]) {
			k++
		}
		if k == j {
			b.WriteString(text[idx:j])
			i = j
			continue
		}
		k = skipSpaces(text, k)
		if k >= len(text) || text[k] != '(' {
			b.WriteString(text[idx:k])
			i = k
			continue
		}
		end := matchParen(text, k)
		if end < 0 {
			b.WriteString(text[idx:])
			break
		}
		b.WriteString("null")
		i = end + 1
	}
	return b.String()
}

// replaceBalancedCallables finds occurrences of the bare keyword kw
// followed eventually by a balanced `(...)` parameter list and a
// balanced `{...}` body, and replaces the whole span with repl's
// result.
func replaceBalancedCallables(text, kw string, repl func(body string) string) string {
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		idx := indexWordUnquoted(text, kw, i)
		if idx < 0 {
			b.WriteString(text[i:])
			break
		}
		b.WriteString(text[i:idx])
		j := skipSpaces(text, idx+len(kw))
		for j < len(text) && isIdentPart(text[j]) { // optional function name
			j++
		}
		j = skipSpaces(text, j)
		if j >= len(text) || text[j] != '(' {
			b.WriteString(text[idx:j])
			i = j
			continue
		}
		parenEnd := matchParen(text, j)
		if parenEnd < 0 {
			b.WriteString(text[idx:])
			i = len(text)
			break
		}
		k := skipSpaces(text, parenEnd+1)
		if k >= len(text) || text[k] != '{' {
			b.WriteString(text[idx:k])
			i = k
			continue
		}
		braceEnd := matchBrace(text, k)
		if braceEnd < 0 {
			b.WriteString(text[idx:])
			i = len(text)
			break
		}
		b.WriteString(repl(text[k+1 : braceEnd]))
		i = braceEnd + 1
	}
	return b.String()
}

// indexWordUnquoted finds the next unquoted, word-bounded occurrence
// of word in text at or after from.
func indexWordUnquoted(text, word string, from int) int {
	var q quoteState
	for i := 0; i < from && i < len(text); i++ {
		q.advance(text[i])
	}
	for i := from; i+len(word) <= len(text); i++ {
		inString := q.advance(text[i])
		if inString {
			continue
		}
		if text[i:i+len(word)] != word {
			continue
		}
		if i > 0 && isIdentPart(text[i-1]) {
			continue
		}
		if i+len(word) < len(text) && isIdentPart(text[i+len(word)]) {
			continue
		}
		return i
	}
	return -1
}

// matchParen returns the index of the ')' matching the '(' at open,
// quote-aware, or -1 if unbalanced.
func matchParen(text string, open int) int { return matchDelim(text, open, '(', ')') }

// matchBrace returns the index of the '}' matching the '{' at open.
func matchBrace(text string, open int) int { return matchDelim(text, open, '{', '}') }

func matchDelim(text string, open int, opener, closer byte) int {
	depth := 0
	var q quoteState
	for i := open; i < len(text); i++ {
		if q.advance(text[i]) {
			continue
		}
		switch text[i] {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// unwrapWrapperCalls handles Date("..."), ISODate("..."), ObjectId("..."),
// UUID("..."), RegExp("...", "...") (single or double quoted, or a bare
// numeric/identifier-looking argument) by replacing the call with its
// first argument, quoted.
func unwrapWrapperCalls(text string) string {
	text = reWrapperCall.ReplaceAllString(text, `"$2"`)
	text = reWrapperCallSQ.ReplaceAllString(text, `"$2"`)
	text = reWrapperBare.ReplaceAllString(text, `"$2"`)
	return text
}

// replaceTemplateLiterals turns `text` into "text", preserving ${...}
// substitutions verbatim inside the resulting string (they are not
// evaluated, just carried through as literal text, same as the source
// template's raw characters).
func replaceTemplateLiterals(text string) string {
	return reTemplateLit.ReplaceAllStringFunc(text, func(m string) string {
		inner := m[1 : len(m)-1]
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		return `"` + inner + `"`
	})
}

// unwrapJSONParseCalls handles JSON.parse("..."), parseJSON("...") and
// a bare parse(...) not preceded by a dot (so `foo.parse(...)` — a
// plain method call on user data — is left untouched).
func unwrapJSONParseCalls(text string) string {
	text = reJSONParse.ReplaceAllString(text, `"$1"`)
	text = reBareParseCall.ReplaceAllStringFunc(text, func(m string) string {
		sub := reBareParseCall.FindStringSubmatch(m)
		lead := m[:strings.Index(m, "parse")]
		return lead + `"` + sub[1] + `"`
	})
	return text
}

// evalSimpleArithmetic folds `N op M` (op in {+, -}) between two
// integer literals that sit directly in value position (immediately
// preceded by ':', ',' or '[' and followed by ',', ']' or '}'), which
// keeps it from misfiring on things that merely look like arithmetic,
// such as dates (`2025-08-01`) or version strings.
func evalSimpleArithmetic(text string) string {
	return reArithmetic.ReplaceAllStringFunc(text, func(m string) string {
		sub := reArithmetic.FindStringSubmatch(m)
		prefix, lhs, op, rhs, suffix := sub[1], sub[2], sub[3], sub[4], sub[5]
		l, err1 := strconv.ParseInt(lhs, 10, 64)
		r, err2 := strconv.ParseInt(rhs, 10, 64)
		if err1 != nil || err2 != nil {
			return m
		}
		var result int64
		if op == "+" {
			result = l + r
		} else {
			result = l - r
		}
		return prefix + strconv.FormatInt(result, 10) + suffix
	})
}

// replaceNumericLiteralBases converts hex (0x...), binary (0b...),
// explicit octal (0o...) and legacy leading-zero octal (0NN, in value
// position only, to avoid misreading zero-padded identifiers or dates)
// literals to decimal.
func replaceNumericLiteralBases(text string) string {
	text = reHex.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.ParseInt(m[2:], 16, 64)
		if err != nil {
			return m
		}
		return strconv.FormatInt(n, 10)
	})
	text = reBinary.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.ParseInt(m[2:], 2, 64)
		if err != nil {
			return m
		}
		return strconv.FormatInt(n, 10)
	})
	text = reOctalPrefixed.ReplaceAllStringFunc(text, func(m string) string {
		n, err := strconv.ParseInt(m[2:], 8, 64)
		if err != nil {
			return m
		}
		return strconv.FormatInt(n, 10)
	})
	text = reLegacyOctal.ReplaceAllStringFunc(text, func(m string) string {
		sub := reLegacyOctal.FindStringSubmatch(m)
		n, err := strconv.ParseInt(sub[2], 8, 64)
		if err != nil {
			return m
		}
		return sub[1] + strconv.FormatInt(n, 10)
	})
	return text
}

// unwrapTopLevelStatement strips a single top-level `return EXPR;`,
// `const|let|var NAME = EXPR;` or `NAME(EXPR)` wrapper around the
// whole (already markdown/content-extracted) document.
func unwrapTopLevelStatement(text string) string {
	trimmed := strings.TrimSpace(text)
	if m := reReturnStmt.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	if m := reAssignStmt.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	if m := reSingleArgCall.FindStringSubmatch(trimmed); m != nil {
		inner := strings.TrimSpace(m[1])
		if inner != "" && (inner[0] == '{' || inner[0] == '[' || inner[0] == '"') {
			return inner
		}
	}
	return text
}
