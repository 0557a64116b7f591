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

package jsonshiatsu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JostBrand/jsonshiatsu/diag"
	"github.com/JostBrand/jsonshiatsu/limits"
	"github.com/JostBrand/jsonshiatsu/parser"
)

// JsonDecodeError is the public failure type returned by Loads/Load
// and Parse: it wraps every Diagnostic the pipeline accumulated before
// giving up, rendered as a single multi-line message, while still
// letting a caller reach the underlying *SecurityFault or *parser.ParseError
// with errors.As.
type JsonDecodeError struct {
	Diagnostics []diag.Diagnostic
	cause       error
}

func (e *JsonDecodeError) Error() string {
	if len(e.Diagnostics) == 0 {
		if e.cause != nil {
			return fmt.Sprintf("jsonshiatsu: %s", e.cause.Error())
		}
		return "jsonshiatsu: failed to decode input"
	}
	sorted := append([]diag.Diagnostic(nil), e.Diagnostics...)
	diag.SortByPosition(sorted)
	var b strings.Builder
	b.WriteString("jsonshiatsu: failed to decode input:")
	for _, d := range sorted {
		b.WriteByte('\n')
		b.WriteString(d.Render(true, false))
	}
	return b.String()
}

func (e *JsonDecodeError) Unwrap() error { return e.cause }

// SecurityFault re-exports limits.SecurityFault at the package
// boundary so a caller doesn't need to import the internal limits
// package to catch a resource-limit breach with errors.As.
type SecurityFault = limits.SecurityFault

// ParseError re-exports parser.ParseError at the package boundary.
type ParseError = parser.ParseError

// newDecodeError wraps err (a *limits.SecurityFault, a *parser.ParseError
// or any other pipeline error) into a *JsonDecodeError, pulling out a
// Diagnostic when one is available so Error() can render position and
// suggestion information.
func newDecodeError(err error, extra []diag.Diagnostic) *JsonDecodeError {
	de := &JsonDecodeError{cause: err, Diagnostics: extra}
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		de.Diagnostics = append(de.Diagnostics, pe.Diagnostic)
	}
	return de
}
