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

package token

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKindStringCoversEveryKind(t *testing.T) {
	for k := LBrace; k <= Illegal; k++ {
		require.NotEmpty(t, k.String())
	}
	require.Equal(t, "Illegal", Kind(255).String())
}

func TestIsValueStartAcceptsLiteralsAndOpeners(t *testing.T) {
	for _, k := range []Kind{String, Number, Bool, Null, Identifier, LBrace, LBracket} {
		require.True(t, k.IsValueStart(), "%v should start a value", k)
	}
}

func TestIsValueStartRejectsPunctuation(t *testing.T) {
	for _, k := range []Kind{RBrace, RBracket, Colon, Comma, Eof, Illegal} {
		require.False(t, k.IsValueStart(), "%v should not start a value", k)
	}
}

func TestPositionString(t *testing.T) {
	require.Equal(t, "3:7", Position{Line: 3, Column: 7}.String())
}
