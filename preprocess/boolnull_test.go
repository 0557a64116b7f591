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

func TestNormalizeBooleanNullRewritesPythonStyleLiterals(t *testing.T) {
	v := limits.New(limits.Default())
	out, diags, err := normalizeBooleanNull(`{"active": True, "deleted": False, "owner": None}`, v)
	require.NoError(t, err)
	require.Equal(t, `{"active": true, "deleted": false, "owner": null}`, out)
	require.Len(t, diags, 3)
}

func TestNormalizeBooleanNullRewritesYesNo(t *testing.T) {
	v := limits.New(limits.Default())
	out, _, err := normalizeBooleanNull(`{"ok": yes, "bad": no}`, v)
	require.NoError(t, err)
	require.Equal(t, `{"ok": true, "bad": false}`, out)
}

func TestNormalizeBooleanNullDoesNotTouchStringContents(t *testing.T) {
	v := limits.New(limits.Default())
	out, _, err := normalizeBooleanNull(`{"word": "None of the above"}`, v)
	require.NoError(t, err)
	require.Equal(t, `{"word": "None of the above"}`, out)
}

func TestNormalizeBooleanNullDoesNotClipLongerIdentifier(t *testing.T) {
	v := limits.New(limits.Default())
	out, _, err := normalizeBooleanNull(`{"day": yesterday}`, v)
	require.NoError(t, err)
	require.Equal(t, `{"day": yesterday}`, out)
}
