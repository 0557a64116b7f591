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

// Package parser implements the recursive-descent grammar over the
// token stream, in both its strict form and the partial-recovery form
// described by recovery.go.
package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/JostBrand/jsonshiatsu/config"
	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/lexer"
	"github.com/JostBrand/jsonshiatsu/limits"
	"github.com/JostBrand/jsonshiatsu/token"
	"github.com/JostBrand/jsonshiatsu/value"
)

// wrapperNames are the MongoDB/JS constructor names parse_value still
// recognizes as a late catch for anything the preprocessor's
// unwrap-function-calls step missed.
var wrapperNames = map[string]bool{
	"Date": true, "ObjectId": true, "UUID": true, "RegExp": true, "ISODate": true,
}

// Parser is a recursive-descent parser over a Lexer's token stream. It
// holds one token of current lookahead plus a small pending queue for
// the grammar rules (the wrapper-function late catch) that need to
// peek further ahead before deciding how to consume.
type Parser struct {
	lex    *lexer.Lexer
	limits *limits.Validator
	cfg    config.ParseConfig
	hooks  Hooks

	cur     token.Token
	pending []token.Token // tokens fetched ahead of cur for multi-token lookahead

	// Accumulated by the partial-recovery grammar in recovery.go; unused
	// by ParseStrict.
	diags            []diag.Diagnostic
	actions          []diag.RecoveryAction
	totalFields      uint64
	successfulFields uint64
}

// New creates a Parser over src and primes its first token.
func New(src string, v *limits.Validator, cfg config.ParseConfig, hooks Hooks) (*Parser, error) {
	p := &Parser{lex: lexer.New(src, v), limits: v, cfg: cfg, hooks: hooks}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	if len(p.pending) > 0 {
		p.cur = p.pending[0]
		p.pending = p.pending[1:]
		return nil
	}
	tok, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

// peekAt returns the token n positions ahead of cur (n=1 is the token
// immediately after cur) without consuming anything.
func (p *Parser) peekAt(n int) (token.Token, error) {
	for len(p.pending) < n {
		tok, err := p.lex.Next()
		if err != nil {
			return token.Token{}, err
		}
		p.pending = append(p.pending, tok)
	}
	return p.pending[n-1], nil
}

// ParseStrict runs the strict grammar over the whole input: a single
// top-level value followed by Eof. The first syntactic failure returns
// a *ParseError; a *limits.SecurityFault propagates the same way.
func (p *Parser) ParseStrict() (value.Value, error) {
	v, err := p.parseValue("")
	if err != nil {
		return value.Value{}, err
	}
	if p.cur.Kind != token.Eof {
		return value.Value{}, unexpectedToken("", p.cur, "end of input")
	}
	return applyHooksBottomUp(v, p.hooks), nil
}

func (p *Parser) parseValue(path string) (value.Value, error) {
	tok := p.cur
	switch tok.Kind {
	case token.String:
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		return value.String(unescapeLexeme(tok)), nil
	case token.Number:
		v := p.parseNumber(tok)
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		return v, nil
	case token.Bool:
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		return value.Bool(tok.BoolValue), nil
	case token.Null:
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		return value.Null(), nil
	case token.Identifier:
		return p.parseIdentifierValue(tok)
	case token.LBrace:
		return p.parseObject(path)
	case token.LBracket:
		return p.parseArray(path)
	case token.Eof:
		return value.Value{}, unexpectedEOF(path, tok, "a value")
	default:
		return value.Value{}, unexpectedToken(path, tok, "a value")
	}
}

// parseIdentifierValue implements parse_value's Identifier branch: a
// constant-hook match, then the wrapper-function late catch, then the
// unquoted-string fallback.
func (p *Parser) parseIdentifierValue(tok token.Token) (value.Value, error) {
	if p.hooks.Constant != nil {
		if v, ok := p.hooks.Constant(tok.Lexeme); ok {
			if err := p.advance(); err != nil {
				return value.Value{}, err
			}
			return v, nil
		}
	}
	if wrapperNames[tok.Lexeme] {
		if v, ok, err := p.tryWrapperCall(); err != nil {
			return value.Value{}, err
		} else if ok {
			return v, nil
		}
	}
	if err := p.advance(); err != nil {
		return value.Value{}, err
	}
	return value.String(tok.Lexeme), nil
}

// tryWrapperCall looks past the wrapper identifier (still in p.cur) for
// a String, either immediately following it or wrapped in the literal
// "(" ... ")" a raw, unpreprocessed call site would still carry (the
// lexer has no notion of parens as grouping, so they surface as Illegal
// tokens). On a match, it consumes through the closing paren, if
// present, and returns the inner string per the "first string argument"
// rule — a second argument to e.g. RegExp("a","b") is left in the
// stream for the caller's grammar to deal with, matching this being a
// best-effort catch for cases the preprocessor's unwrap step missed.
func (p *Parser) tryWrapperCall() (value.Value, bool, error) {
	n1, err := p.peekAt(1)
	if err != nil {
		return value.Value{}, false, err
	}

	if n1.Kind == token.String {
		inner := n1
		if err := p.advance(); err != nil { // cur -> string
			return value.Value{}, false, err
		}
		if err := p.advance(); err != nil { // consume string
			return value.Value{}, false, err
		}
		return value.String(unescapeLexeme(inner)), true, nil
	}

	if n1.Kind != token.Illegal || n1.Lexeme != "(" {
		return value.Value{}, false, nil
	}
	n2, err := p.peekAt(2)
	if err != nil {
		return value.Value{}, false, err
	}
	if n2.Kind != token.String {
		return value.Value{}, false, nil
	}
	inner := n2
	n3, err := p.peekAt(3)
	if err != nil {
		return value.Value{}, false, err
	}
	hasClose := n3.Kind == token.Illegal && n3.Lexeme == ")"

	if err := p.advance(); err != nil { // cur -> '('
		return value.Value{}, false, err
	}
	if err := p.advance(); err != nil { // cur -> string
		return value.Value{}, false, err
	}
	if err := p.advance(); err != nil { // consume string
		return value.Value{}, false, err
	}
	if hasClose {
		if err := p.advance(); err != nil { // consume ')'
			return value.Value{}, false, err
		}
	}
	return value.String(unescapeLexeme(inner)), true, nil
}

// parseNumber classifies and converts a Number token's lexeme per §3:
// presence of '.', 'e' or 'E' selects Float, otherwise Integer, falling
// back to arbitrary precision when the lexeme overflows int64.
func (p *Parser) parseNumber(tok token.Token) value.Value {
	if p.hooks.Number != nil {
		if v, ok := p.hooks.Number(tok.Lexeme); ok {
			return v
		}
	}
	if strings.ContainsAny(tok.Lexeme, ".eE") {
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if ne, ok := err.(*strconv.NumError); ok && ne.Err != strconv.ErrRange {
			// a malformed lexeme becomes 0; an out-of-range one keeps
			// ParseFloat's ±Inf (or 0 on underflow)
			f = 0
		}
		v := value.Float(f)
		if p.hooks.Float != nil {
			v = p.hooks.Float(v)
		}
		return v
	}
	var v value.Value
	if i, err := strconv.ParseInt(tok.Lexeme, 10, 64); err == nil {
		v = value.Integer(i)
	} else {
		n := new(big.Int)
		if _, ok := n.SetString(tok.Lexeme, 10); !ok {
			n.SetInt64(0)
		}
		v = value.BigInteger(n)
	}
	if p.hooks.Integer != nil {
		v = p.hooks.Integer(v)
	}
	return v
}

func unescapeLexeme(tok token.Token) string {
	s, err := lexer.Unescape(tok.Lexeme)
	if err != nil {
		return tok.Lexeme
	}
	return s
}

// parseObject implements parse_object: key:value pairs separated by
// ',', a tolerated trailing comma, duplicate-key resolution per
// Behavior.AllowDuplicateKeys, and nesting/key-count limit checks.
func (p *Parser) parseObject(path string) (value.Value, error) {
	if err := p.limits.EnterStructure(); err != nil {
		return value.Value{}, err
	}
	defer p.limits.ExitStructure()
	if err := p.advance(); err != nil { // consume '{'
		return value.Value{}, err
	}

	policy := value.LastWins
	if p.cfg.Behavior.AllowDuplicateKeys {
		policy = value.CoalesceToArray
	}
	obj := value.NewObject(policy)

	if p.cur.Kind == token.RBrace {
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		return value.FromObject(obj), nil
	}

	keyCount := 0
	for {
		if p.cur.Kind != token.String && p.cur.Kind != token.Identifier {
			return value.Value{}, unexpectedToken(path, p.cur, "an object key")
		}
		key := p.cur.Lexeme
		if p.cur.Kind == token.String {
			key = unescapeLexeme(p.cur)
		}
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		if p.cur.Kind != token.Colon {
			return value.Value{}, unexpectedToken(path, p.cur, "':'")
		}
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}

		v, err := p.parseValue(diag.PathPush(path, key, false))
		if err != nil {
			return value.Value{}, err
		}
		if err := p.limits.CountItem(); err != nil {
			return value.Value{}, err
		}
		obj.Set(key, v)
		keyCount++
		if err := p.limits.ValidateObjectKeys(keyCount); err != nil {
			return value.Value{}, err
		}

		if p.cur.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return value.Value{}, err
			}
			if p.cur.Kind == token.RBrace {
				break // trailing comma tolerated
			}
			continue
		}
		break
	}

	if p.cur.Kind != token.RBrace {
		if p.cur.Kind == token.Eof {
			return value.Value{}, unexpectedEOF(path, p.cur, "',' or '}'")
		}
		return value.Value{}, unexpectedToken(path, p.cur, "',' or '}'")
	}
	if err := p.advance(); err != nil {
		return value.Value{}, err
	}
	return value.FromObject(obj), nil
}

// parseArray mirrors parseObject for elements.
func (p *Parser) parseArray(path string) (value.Value, error) {
	if err := p.limits.EnterStructure(); err != nil {
		return value.Value{}, err
	}
	defer p.limits.ExitStructure()
	if err := p.advance(); err != nil { // consume '['
		return value.Value{}, err
	}

	var items []value.Value
	if p.cur.Kind == token.RBracket {
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		return value.Array(items), nil
	}

	index := 0
	for {
		v, err := p.parseValue(diag.PathPush(path, strconv.Itoa(index), true))
		if err != nil {
			return value.Value{}, err
		}
		if err := p.limits.CountItem(); err != nil {
			return value.Value{}, err
		}
		items = append(items, v)
		index++
		if err := p.limits.ValidateArrayItems(len(items)); err != nil {
			return value.Value{}, err
		}

		if p.cur.Kind == token.Comma {
			if err := p.advance(); err != nil {
				return value.Value{}, err
			}
			if p.cur.Kind == token.RBracket {
				break // trailing comma tolerated
			}
			continue
		}
		break
	}

	if p.cur.Kind != token.RBracket {
		if p.cur.Kind == token.Eof {
			return value.Value{}, unexpectedEOF(path, p.cur, "',' or ']'")
		}
		return value.Value{}, unexpectedToken(path, p.cur, "',' or ']'")
	}
	if err := p.advance(); err != nil {
		return value.Value{}, err
	}
	return value.Array(items), nil
}
