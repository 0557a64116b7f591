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

package parser

import (
	"strconv"

	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/internal/logging"
	"github.com/JostBrand/jsonshiatsu/limits"
	"github.com/JostBrand/jsonshiatsu/token"
	"github.com/JostBrand/jsonshiatsu/value"
)

// RecoveryLevel selects how aggressively the partial parser repairs a
// malformed document. Ordering is monotonic: each level admits
// strictly more repair than the one before it.
type RecoveryLevel uint8

const (
	// Strict terminates on the first syntactic failure, same as
	// ParseStrict.
	Strict RecoveryLevel = iota
	// SkipFields drops the offending key/element and resumes at the
	// next recovery point, without attempting point repairs.
	SkipFields
	// BestEffort attempts point repairs (missing colon, unterminated
	// string) before falling back to SkipFields's skip-and-drop.
	BestEffort
	// ExtractAll behaves like BestEffort, additionally falling back to
	// an empty object when the whole top-level value is unparseable.
	ExtractAll
)

func (r RecoveryLevel) String() string {
	switch r {
	case Strict:
		return "Strict"
	case SkipFields:
		return "SkipFields"
	case BestEffort:
		return "BestEffort"
	case ExtractAll:
		return "ExtractAll"
	default:
		return "Unknown"
	}
}

// PartialParseResult is returned by ParsePartial: the best value the
// partial parser could recover, the diagnostics it collected along the
// way, and a summary of how much of the document survived.
type PartialParseResult struct {
	Value            *value.Value
	Errors           []diag.Diagnostic
	Warnings         []diag.Diagnostic
	SuccessRate      float64
	RecoveryActions  []diag.RecoveryAction
	TotalFields      uint64
	SuccessfulFields uint64
}

// ParsePartial runs the grammar at the given recovery level. A
// *limits.SecurityFault is never absorbed into the result — it always
// propagates as the returned error, regardless of level.
func (p *Parser) ParsePartial(level RecoveryLevel) (PartialParseResult, error) {
	if level == Strict {
		v, err := p.ParseStrict()
		if err != nil {
			if sf, ok := err.(*limits.SecurityFault); ok {
				return PartialParseResult{}, sf
			}
			return PartialParseResult{Errors: []diag.Diagnostic{diagFromParseErr(err, "")}}, nil
		}
		return PartialParseResult{
			Value: &v, SuccessRate: 100, TotalFields: 1, SuccessfulFields: 1,
		}, nil
	}

	v, err := p.parseValuePartial("", level)
	if err != nil {
		if sf, ok := err.(*limits.SecurityFault); ok {
			return PartialParseResult{}, sf
		}
		p.recordDiag(diagFromParseErr(err, ""))
		if level < ExtractAll {
			return p.buildResult(nil), nil
		}
		v = value.FromObject(value.NewObject(value.LastWins))
	} else if p.cur.Kind != token.Eof {
		p.recordDiag(unexpectedToken("", p.cur, "end of input").Diagnostic)
	}

	v = applyHooksBottomUp(v, p.hooks)
	return p.buildResult(&v), nil
}

func (p *Parser) recordDiag(d diag.Diagnostic) {
	p.diags = append(p.diags, d)
	if d.RecoveryAction != diag.ActionNone {
		p.actions = append(p.actions, d.RecoveryAction)
		logging.Get(logging.CategoryRecovery).Warnw(d.Message,
			"action", string(d.RecoveryAction), "path", d.Path, "line", d.Line, "column", d.Column)
	}
}

func (p *Parser) buildResult(v *value.Value) PartialParseResult {
	var errs, warns []diag.Diagnostic
	for _, d := range p.diags {
		if d.Severity == diag.Error {
			errs = append(errs, d)
		} else {
			warns = append(warns, d)
		}
	}
	var rate float64
	if p.totalFields > 0 {
		rate = float64(p.successfulFields) / float64(p.totalFields) * 100
	}
	return PartialParseResult{
		Value:            v,
		Errors:           errs,
		Warnings:         warns,
		SuccessRate:      rate,
		RecoveryActions:  p.actions,
		TotalFields:      p.totalFields,
		SuccessfulFields: p.successfulFields,
	}
}

// diagFromParseErr extracts the Diagnostic a *ParseError carries,
// rewriting its path to the one known at the recovery call site (the
// error was built before the caller's path prefix was available).
func diagFromParseErr(err error, path string) diag.Diagnostic {
	if pe, ok := err.(*ParseError); ok {
		d := pe.Diagnostic
		d.Path = path
		return d
	}
	return diag.Diagnostic{Message: err.Error(), Kind: diag.UnexpectedToken, Severity: diag.Error, Path: path}
}

// skipToRecoveryPoint implements the skip-to-recovery-point algorithm:
// it consumes tokens without emitting until it sees a ',', '}', ']' or
// Eof at the current nesting depth, balancing any '{'/'[' encountered
// along the way. The stopping token is left unconsumed for the caller
// to inspect.
func (p *Parser) skipToRecoveryPoint() error {
	depth := 0
	for {
		switch p.cur.Kind {
		case token.Eof:
			return nil
		case token.LBrace, token.LBracket:
			depth++
		case token.RBrace, token.RBracket:
			if depth == 0 {
				return nil
			}
			depth--
		case token.Comma:
			if depth == 0 {
				return nil
			}
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
}

// parseValuePartial dispatches like parseValue but routes structures
// through the partial grammar and, at BestEffort+, accepts an
// unterminated-string Illegal token (the lexer's "here's what I read so
// far" fallback) as a recovered string value.
func (p *Parser) parseValuePartial(path string, level RecoveryLevel) (value.Value, error) {
	tok := p.cur
	switch tok.Kind {
	case token.String, token.Number, token.Bool, token.Null, token.Identifier:
		return p.parseValue(path)
	case token.LBrace:
		return p.parseObjectPartial(path, level)
	case token.LBracket:
		return p.parseArrayPartial(path, level)
	case token.Illegal:
		if level >= BestEffort && tok.Quoted {
			if err := p.advance(); err != nil {
				return value.Value{}, err
			}
			d := diag.FromToken(diag.UnclosedStructure, diag.Warning, path, tok, "closed unterminated string")
			d.RecoveryAction = diag.ActionClosedUnterminatedString
			p.recordDiag(d)
			return value.String(unescapeLexeme(tok)), nil
		}
		return value.Value{}, unexpectedToken(path, tok, "a value")
	case token.Eof:
		return value.Value{}, unexpectedEOF(path, tok, "a value")
	default:
		return value.Value{}, unexpectedToken(path, tok, "a value")
	}
}

// parseObjectPartial is parseObject's SkipFields+/BestEffort+ sibling:
// a field that fails to parse is recorded as a Diagnostic and dropped
// rather than aborting the whole object.
func (p *Parser) parseObjectPartial(path string, level RecoveryLevel) (value.Value, error) {
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
		if p.cur.Kind == token.Eof {
			d := diag.FromToken(diag.UnclosedStructure, diag.Error, path, p.cur, "unclosed object")
			p.recordDiag(d)
			break
		}

		if p.cur.Kind != token.String && p.cur.Kind != token.Identifier {
			p.totalFields++
			d := diag.FromToken(diag.UnexpectedToken, diag.Error, path, p.cur, "expected an object key, skipping field")
			d.RecoveryAction = diag.ActionSkippedField
			p.recordDiag(d)
			if err := p.skipToRecoveryPoint(); err != nil {
				return value.Value{}, err
			}
			if !p.objectContinues() {
				break
			}
			continue
		}

		keyTok := p.cur
		key := keyTok.Lexeme
		if keyTok.Kind == token.String {
			key = unescapeLexeme(keyTok)
		}
		fieldPath := diag.PathPush(path, key, false)
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}

		if p.cur.Kind != token.Colon {
			if level >= BestEffort && p.cur.Kind.IsValueStart() {
				d := diag.FromToken(diag.MissingColon, diag.Warning, fieldPath, p.cur, "inserted missing colon")
				d.RecoveryAction = diag.ActionInsertedColon
				p.recordDiag(d)
				// cur is left in place: it becomes the value token below.
			} else {
				p.totalFields++
				d := diag.FromToken(diag.MissingColon, diag.Error, fieldPath, p.cur, "expected ':' after key, skipping field")
				d.RecoveryAction = diag.ActionSkippedField
				p.recordDiag(d)
				if err := p.skipToRecoveryPoint(); err != nil {
					return value.Value{}, err
				}
				if !p.objectContinues() {
					break
				}
				continue
			}
		} else if err := p.advance(); err != nil {
			return value.Value{}, err
		}

		p.totalFields++
		v, err := p.parseValuePartial(fieldPath, level)
		if err != nil {
			if sf, ok := err.(*limits.SecurityFault); ok {
				return value.Value{}, sf
			}
			d := diagFromParseErr(err, fieldPath)
			d.RecoveryAction = diag.ActionSkippedField
			p.recordDiag(d)
			if err := p.skipToRecoveryPoint(); err != nil {
				return value.Value{}, err
			}
		} else {
			if err := p.limits.CountItem(); err != nil {
				return value.Value{}, err
			}
			obj.Set(key, v)
			keyCount++
			if err := p.limits.ValidateObjectKeys(keyCount); err != nil {
				return value.Value{}, err
			}
			p.successfulFields++
		}

		if !p.objectContinues() {
			break
		}
	}

	if p.cur.Kind == token.RBrace {
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
	}
	return value.FromObject(obj), nil
}

// objectContinues consumes a separating ',' (advancing past it) and
// reports whether another field follows; it leaves cur on '}' or Eof
// when the object is done.
func (p *Parser) objectContinues() bool {
	if p.cur.Kind != token.Comma {
		return false
	}
	if err := p.advance(); err != nil {
		return false
	}
	return p.cur.Kind != token.RBrace
}

// parseArrayPartial is parseArray's SkipFields+ sibling: an element
// that fails to parse is replaced with a null placeholder so the
// array's length still mirrors source intent.
func (p *Parser) parseArrayPartial(path string, level RecoveryLevel) (value.Value, error) {
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
		if p.cur.Kind == token.Eof {
			d := diag.FromToken(diag.UnclosedStructure, diag.Error, path, p.cur, "unclosed array")
			p.recordDiag(d)
			break
		}

		p.totalFields++
		elemPath := diag.PathPush(path, strconv.Itoa(index), true)
		v, err := p.parseValuePartial(elemPath, level)
		if err != nil {
			if sf, ok := err.(*limits.SecurityFault); ok {
				return value.Value{}, sf
			}
			d := diagFromParseErr(err, elemPath)
			d.RecoveryAction = diag.ActionSkippedElement
			p.recordDiag(d)
			if err := p.skipToRecoveryPoint(); err != nil {
				return value.Value{}, err
			}
			items = append(items, value.Null())
			index++
		} else {
			if err := p.limits.CountItem(); err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
			index++
			if err := p.limits.ValidateArrayItems(len(items)); err != nil {
				return value.Value{}, err
			}
			p.successfulFields++
		}

		if p.cur.Kind != token.Comma {
			break
		}
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
		if p.cur.Kind == token.RBracket {
			break
		}
	}

	if p.cur.Kind == token.RBracket {
		if err := p.advance(); err != nil {
			return value.Value{}, err
		}
	}
	return value.Array(items), nil
}
