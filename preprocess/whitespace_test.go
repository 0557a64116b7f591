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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JostBrand/jsonshiatsu/limits"
)

func TestNormalizeWhitespaceCollapsesRuns(t *testing.T) {
	v := limits.New(limits.Default())
	out, _, err := normalizeWhitespace("{\n\n  \"a\":   1  \n}", v)
	require.NoError(t, err)
	require.Equal(t, `{ "a": 1 }`, out)
}

func TestNormalizeWhitespaceLeavesStringWhitespaceAlone(t *testing.T) {
	v := limits.New(limits.Default())
	out, _, err := normalizeWhitespace(`{"a": "spaced   out"}`, v)
	require.NoError(t, err)
	require.Equal(t, `{"a": "spaced   out"}`, out)
}

func TestNormalizeWhitespaceTrimsEnds(t *testing.T) {
	v := limits.New(limits.Default())
	out, _, err := normalizeWhitespace("  {}  ", v)
	require.NoError(t, err)
	require.Equal(t, `{}`, out)
}
