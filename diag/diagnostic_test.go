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

package diag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JostBrand/jsonshiatsu/token"
)

func TestFromTokenCapturesPosition(t *testing.T) {
	tok := token.Token{Kind: token.Comma, Position: token.Position{Line: 4, Column: 9}}
	d := FromToken(MissingComma, Warning, "a.b[2]", tok, "inserted missing comma")
	require.Equal(t, uint32(4), d.Line)
	require.Equal(t, uint32(9), d.Column)
	require.Equal(t, "a.b[2]", d.Path)
	require.Equal(t, MissingComma, d.Kind)
	require.Equal(t, Warning, d.Severity)
}

func TestWithContextClampsToTextBounds(t *testing.T) {
	text := `{"a": 1}`
	d := Diagnostic{}.WithContext(text, 2, 100)
	require.Equal(t, text[:2], d.ContextBefore)
	require.Equal(t, text[2:], d.ContextAfter)
}

func TestWithContextNoopWhenMaxCharsZero(t *testing.T) {
	d := Diagnostic{}.WithContext("abc", 1, 0)
	require.Empty(t, d.ContextBefore)
	require.Empty(t, d.ContextAfter)
}

func TestPathPushBuildsDottedAndIndexedPaths(t *testing.T) {
	p := PathPush("", "users", false)
	p = PathPush(p, "0", true)
	p = PathPush(p, "name", false)
	require.Equal(t, "users[0].name", p)
}

func TestSuggestionsReturnsCatalogEntries(t *testing.T) {
	require.NotEmpty(t, Suggestions(UnclosedStructure))
	require.Nil(t, Suggestions(Kind("NoSuchKind")))
}

func TestRenderIncludesPositionContextAndSuggestions(t *testing.T) {
	d := Diagnostic{
		Message:  "missing colon",
		Kind:     MissingColon,
		Severity: Error,
		Line:     2,
		Column:   5,
	}.WithContext(`{"a" 1}`, 5, 2)
	out := d.Render(true, true)
	require.Contains(t, out, "missing colon")
	require.Contains(t, out, "line 2, column 5")
	require.Contains(t, out, "suggestions:")
}

func TestRenderOmitsPositionAndContextWhenDisabled(t *testing.T) {
	d := Diagnostic{Message: "oops", Kind: UnexpectedToken, Severity: Error, Line: 1, Column: 1}
	out := d.Render(false, false)
	require.Equal(t, "oops\nsuggestions: check for a stray token; verify brackets and braces are balanced", out)
}
