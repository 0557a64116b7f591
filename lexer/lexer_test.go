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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JostBrand/jsonshiatsu/limits"
	"github.com/JostBrand/jsonshiatsu/token"
)

func allTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src, limits.New(limits.Default()))
	var toks []token.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == token.Eof {
			return toks
		}
	}
}

func TestLexerTokenizesSimpleObject(t *testing.T) {
	toks := allTokens(t, `{"a": 1, "b": true}`)
	kinds := make([]token.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	require.Equal(t, []token.Kind{
		token.LBrace, token.String, token.Colon, token.Number, token.Comma,
		token.String, token.Colon, token.Bool, token.RBrace, token.Eof,
	}, kinds)
}

func TestLexerTracksLineAndColumn(t *testing.T) {
	toks := allTokens(t, "{\n  \"a\": 1\n}")
	require.Equal(t, uint32(1), toks[0].Position.Line)
	// the string token starts on line 2, column 3 (after two spaces)
	require.Equal(t, uint32(2), toks[1].Position.Line)
	require.Equal(t, uint32(3), toks[1].Position.Column)
}

func TestLexerReadsNegativeFloatWithExponent(t *testing.T) {
	toks := allTokens(t, `-1.5e10`)
	require.Equal(t, token.Number, toks[0].Kind)
	require.Equal(t, "-1.5e10", toks[0].Lexeme)
}

func TestLexerClassifiesBooleanAndNullLiterals(t *testing.T) {
	toks := allTokens(t, `true false null`)
	require.Equal(t, token.Bool, toks[0].Kind)
	require.True(t, toks[0].BoolValue)
	require.Equal(t, token.Bool, toks[1].Kind)
	require.False(t, toks[1].BoolValue)
	require.Equal(t, token.Null, toks[2].Kind)
}

func TestLexerReadsUnknownBareWordAsIdentifier(t *testing.T) {
	toks := allTokens(t, `ACTIVE`)
	require.Equal(t, token.Identifier, toks[0].Kind)
	require.Equal(t, "ACTIVE", toks[0].Lexeme)
}

func TestLexerReadsSingleQuotedStringWithoutPreprocessing(t *testing.T) {
	toks := allTokens(t, `'Ada'`)
	require.Equal(t, token.String, toks[0].Kind)
	require.Equal(t, "Ada", toks[0].Lexeme)
	require.True(t, toks[0].Quoted)
}

func TestLexerEnforcesStringLengthLimit(t *testing.T) {
	tight := limits.Default()
	tight.MaxStringLength = 3
	l := New(`"abcdef"`, limits.New(tight))
	_, err := l.Next()
	require.Error(t, err)
}

func TestUnescapeDecodesStandardEscapes(t *testing.T) {
	out, err := Unescape(`line\nbreak\ttab\\back`)
	require.NoError(t, err)
	require.Equal(t, "line\nbreak\ttab\\back", out)
}

func TestUnescapeDecodesBasicMultilingualPlaneEscape(t *testing.T) {
	out, err := Unescape("\\u00e9")
	require.NoError(t, err)
	require.Equal(t, "é", out)
}

func TestUnescapeDecodesSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, encoded as a UTF-16 surrogate pair.
	out, err := Unescape("\\ud83d\\ude00")
	require.NoError(t, err)
	require.Equal(t, "\U0001F600", out)
}
