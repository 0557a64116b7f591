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
	"fmt"

	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/token"
)

// ParseError is raised by the strict grammar (recovery level Strict)
// on the first syntactic failure. It carries the Diagnostic that
// describes the failure so a caller rendering a user-visible message
// doesn't need to re-derive position/context.
type ParseError struct {
	Diagnostic diag.Diagnostic
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonshiatsu: parse error: %s", e.Diagnostic.Render(true, false))
}

func unexpectedToken(path string, tok token.Token, want string) *ParseError {
	return &ParseError{Diagnostic: diag.FromToken(
		diag.UnexpectedToken, diag.Error, path, tok,
		fmt.Sprintf("unexpected %s token, expected %s", tok.Kind, want),
	)}
}

func unexpectedEOF(path string, tok token.Token, want string) *ParseError {
	return &ParseError{Diagnostic: diag.FromToken(
		diag.UnclosedStructure, diag.Error, path, tok,
		fmt.Sprintf("unexpected end of input, expected %s", want),
	)}
}
