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

// Package token defines the token stream shared by the tokenizer and
// the parser.
package token

import "fmt"

// Kind identifies the lexical class of a Token.
type Kind uint8

const (
	LBrace Kind = iota
	RBrace
	LBracket
	RBracket
	Colon
	Comma
	String
	Number
	Bool
	Null
	Identifier
	Newline
	Whitespace
	Eof
	Illegal
)

func (k Kind) String() string {
	switch k {
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Colon:
		return "Colon"
	case Comma:
		return "Comma"
	case String:
		return "String"
	case Number:
		return "Number"
	case Bool:
		return "Bool"
	case Null:
		return "Null"
	case Identifier:
		return "Identifier"
	case Newline:
		return "Newline"
	case Whitespace:
		return "Whitespace"
	case Eof:
		return "Eof"
	default:
		return "Illegal"
	}
}

// Position is a 1-based line/column location in the text the lexer
// reads, i.e. the preprocessed input; it is not mapped back to the
// caller's original text.
type Position struct {
	Line   uint32
	Column uint32
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit produced by the tokenizer.
//
// Lexeme holds the raw source text for String/Number/Identifier
// tokens, already relieved of surrounding quotes for String but not
// yet unescaped (callers needing the decoded text use lexer.Unescape).
// An Identifier lexeme has its embedded \uXXXX escapes already decoded.
// BoolValue is meaningful only for Bool tokens.
type Token struct {
	Kind      Kind
	Lexeme    string
	Position  Position
	BoolValue bool
	// Quoted records whether a String token was delimited by a quote
	// character in the source, as opposed to being synthesized (e.g.
	// by the recovery parser) from a bare identifier.
	Quoted bool
}

// IsValueStart reports whether a token of this kind can begin a JSON
// value in parse_value's grammar.
func (k Kind) IsValueStart() bool {
	switch k {
	case String, Number, Bool, Null, Identifier, LBrace, LBracket:
		return true
	default:
		return false
	}
}
